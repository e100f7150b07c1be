package devicetree

import "fmt"

// Area is a named zone grouping keypads and outputs.
type Area struct {
	name    string
	tree    *Tree
	keypads []*Keypad
	outputs []*Output
}

func (a *Area) Name() string {
	return a.name
}

func (a *Area) Keypads() []*Keypad {
	return a.keypads
}

func (a *Area) Outputs() []*Output {
	return a.outputs
}

// AddKeypad appends a keypad (or any other button-bearing device) to the area.
func (a *Area) AddKeypad(id int, name, kind string) *Keypad {
	kp := &Keypad{id: id, name: name, kind: kind, area: a}
	a.keypads = append(a.keypads, kp)
	return kp
}

// AddOutput appends an output with its initial level to the area.
func (a *Area) AddOutput(id int, name, kind string, level float64) *Output {
	out := &Output{id: id, name: name, kind: kind, area: a, level: level}
	a.outputs = append(a.outputs, out)
	return out
}

func (a *Area) String() string {
	return fmt.Sprintf("Area name: %q, keypads: %d, outputs: %d", a.name, len(a.keypads), len(a.outputs))
}
