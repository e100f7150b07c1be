package devicedb

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/larsks/lutronctl/internal/devicetree"
)

type xmlProject struct {
	XMLName xml.Name  `xml:"Project"`
	Areas   []xmlArea `xml:"Areas>Area"`
}

type xmlArea struct {
	Name          string           `xml:"Name,attr"`
	IntegrationID int              `xml:"IntegrationID,attr"`
	Areas         []xmlArea        `xml:"Areas>Area"`
	DeviceGroups  []xmlDeviceGroup `xml:"DeviceGroups>DeviceGroup"`
	Devices       []xmlDevice      `xml:"DeviceGroups>Device"`
	Outputs       []xmlOutput      `xml:"Outputs>Output"`
}

type xmlDeviceGroup struct {
	Name    string      `xml:"Name,attr"`
	Devices []xmlDevice `xml:"Devices>Device"`
}

type xmlDevice struct {
	Name          string         `xml:"Name,attr"`
	IntegrationID int            `xml:"IntegrationID,attr"`
	DeviceType    string         `xml:"DeviceType,attr"`
	Components    []xmlComponent `xml:"Components>Component"`
}

type xmlComponent struct {
	ComponentNumber int        `xml:"ComponentNumber,attr"`
	ComponentType   string     `xml:"ComponentType,attr"`
	Button          *xmlButton `xml:"Button"`
}

type xmlButton struct {
	Name      string `xml:"Name,attr"`
	Engraving string `xml:"Engraving,attr"`
}

type xmlOutput struct {
	Name          string `xml:"Name,attr"`
	IntegrationID int    `xml:"IntegrationID,attr"`
	OutputType    string `xml:"OutputType,attr"`
}

// outputTypes maps the repeater's load types onto the type vocabulary
// used for selection. Non-dimming loads become SWITCHED, which the
// lights kind does not select.
var outputTypes = map[string]string{
	"INC":              "DIMMER",
	"ELV":              "DIMMER",
	"MLV":              "DIMMER",
	"AUTO_DETECT":      "DIMMER",
	"FLUORESCENT_DB":   "DIMMER",
	"ZERO_TO_TEN":      "DIMMER",
	"LED":              "DIMMER",
	"NON_DIM":          "SWITCHED",
	"NON_DIM_INC":      "SWITCHED",
	"NON_DIM_ELV":      "SWITCHED",
	"RELAY_LIGHTING":   "SWITCHED",
	"CEILING_FAN_TYPE": "FAN",
}

// OutputType returns the selection type for a repeater OutputType.
// Unknown types are passed through unchanged.
func OutputType(lutronType string) string {
	if t, ok := outputTypes[lutronType]; ok {
		return t
	}
	return lutronType
}

// DeviceType returns the selection type for a repeater DeviceType.
func DeviceType(lutronType string) string {
	switch {
	case strings.Contains(lutronType, "KEYPAD"):
		return "KEYPAD"
	case strings.Contains(lutronType, "DIMMER"), strings.Contains(lutronType, "SWITCH"):
		return "DIMMER/SWITCH"
	default:
		return lutronType
	}
}

// ParseXML builds a tree from the repeater's integration database. Nested
// areas are flattened in document order; the root area is skipped when it
// only groups other areas.
func ParseXML(r io.Reader) (*devicetree.Tree, error) {
	var project xmlProject
	if err := xml.NewDecoder(r).Decode(&project); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatabase, err)
	}

	tree := devicetree.NewTree()
	for _, area := range project.Areas {
		addXMLArea(tree, area)
	}
	return tree, nil
}

func addXMLArea(tree *devicetree.Tree, xa xmlArea) {
	devices := append([]xmlDevice(nil), xa.Devices...)
	for _, group := range xa.DeviceGroups {
		devices = append(devices, group.Devices...)
	}

	if len(xa.Areas) == 0 || len(devices) > 0 || len(xa.Outputs) > 0 {
		area := tree.AddArea(xa.Name)
		for _, xo := range xa.Outputs {
			area.AddOutput(xo.IntegrationID, xo.Name, OutputType(xo.OutputType), 0)
		}
		for _, xd := range devices {
			addXMLDevice(area, xd)
		}
	}

	for _, sub := range xa.Areas {
		addXMLArea(tree, sub)
	}
}

func addXMLDevice(area *devicetree.Area, xd xmlDevice) {
	var buttons []xmlComponent
	for _, c := range xd.Components {
		if c.ComponentType == "BUTTON" && c.Button != nil {
			buttons = append(buttons, c)
		}
	}
	if len(buttons) == 0 {
		return
	}

	kp := area.AddKeypad(xd.IntegrationID, xd.Name, DeviceType(xd.DeviceType))
	for _, c := range buttons {
		name := c.Button.Engraving
		if name == "" {
			name = c.Button.Name
		}
		kp.AddButton(c.ComponentNumber, name)
	}
}
