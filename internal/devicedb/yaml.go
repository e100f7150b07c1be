package devicedb

import (
	"fmt"
	"io"

	"github.com/larsks/lutronctl/internal/devicetree"
	"gopkg.in/yaml.v3"
)

type yamlDatabase struct {
	Areas []yamlArea `yaml:"areas"`
}

type yamlArea struct {
	Name    string       `yaml:"name"`
	Keypads []yamlKeypad `yaml:"keypads,omitempty"`
	Outputs []yamlOutput `yaml:"outputs,omitempty"`
}

type yamlKeypad struct {
	ID      int          `yaml:"id"`
	Name    string       `yaml:"name"`
	Type    string       `yaml:"type"`
	Buttons []yamlButton `yaml:"buttons,omitempty"`
}

type yamlButton struct {
	Component int    `yaml:"component"`
	Name      string `yaml:"name"`
}

type yamlOutput struct {
	ID    int     `yaml:"id"`
	Name  string  `yaml:"name"`
	Type  string  `yaml:"type"`
	Level float64 `yaml:"level"`
}

// ParseYAML builds a tree from a YAML device database.
func ParseYAML(r io.Reader) (*devicetree.Tree, error) {
	var db yamlDatabase
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&db); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatabase, err)
	}

	tree := devicetree.NewTree()
	for _, ya := range db.Areas {
		area := tree.AddArea(ya.Name)
		for _, yk := range ya.Keypads {
			kp := area.AddKeypad(yk.ID, yk.Name, yk.Type)
			for _, yb := range yk.Buttons {
				kp.AddButton(yb.Component, yb.Name)
			}
		}
		for _, yo := range ya.Outputs {
			if !devicetree.ValidLevel(yo.Level) {
				return nil, fmt.Errorf("%w: output %q: %v", ErrInvalidDatabase, yo.Name, devicetree.ErrLevelOutOfRange)
			}
			area.AddOutput(yo.ID, yo.Name, yo.Type, yo.Level)
		}
	}
	return tree, nil
}

// WriteYAML writes the tree in the format read by ParseYAML.
func WriteYAML(w io.Writer, tree *devicetree.Tree) error {
	var db yamlDatabase
	for _, area := range tree.Areas() {
		ya := yamlArea{Name: area.Name()}
		for _, kp := range area.Keypads() {
			yk := yamlKeypad{ID: kp.ID(), Name: kp.Name(), Type: kp.Type()}
			for _, b := range kp.Buttons() {
				yk.Buttons = append(yk.Buttons, yamlButton{Component: b.Component(), Name: b.Name()})
			}
			ya.Keypads = append(ya.Keypads, yk)
		}
		for _, out := range area.Outputs() {
			ya.Outputs = append(ya.Outputs, yamlOutput{ID: out.ID(), Name: out.Name(), Type: out.Type(), Level: out.Level()})
		}
		db.Areas = append(db.Areas, ya)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&db); err != nil {
		return fmt.Errorf("failed to encode device database: %w", err)
	}
	return encoder.Close()
}
