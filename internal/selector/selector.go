// Package selector narrows the device tree to the devices a command acts on.
//
// Name patterns are regular expressions matched case-insensitively against
// the start of a name: "kit" matches "Kitchen Lights". A pattern does not
// have to consume the whole name.
package selector

import (
	"fmt"
	"regexp"

	"github.com/larsks/lutronctl/internal/devicetree"
)

// Collection names which per-area device list a Kind is drawn from.
type Collection int

const (
	KeypadCollection Collection = iota
	OutputCollection
)

// Kind is the fixed selection configuration of a command family.
type Kind struct {
	Name        string
	Collection  Collection
	TypePattern string
}

var (
	Keypads  = Kind{Name: "keypads", Collection: KeypadCollection, TypePattern: `KEYPAD`}
	Switches = Kind{Name: "switches", Collection: KeypadCollection, TypePattern: `DIMMER/SWITCH`}
	Lights   = Kind{Name: "lights", Collection: OutputCollection, TypePattern: `DIMMER`}
	Fans     = Kind{Name: "fans", Collection: OutputCollection, TypePattern: `FAN`}
)

// Match is a selected device together with the area that owns it.
type Match struct {
	Area   *devicetree.Area
	Device devicetree.Device
}

// Compile turns a user pattern into an anchored, case-insensitive regular
// expression. The empty pattern matches everything.
func Compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile(`^(?i:` + pattern + `)`)
	if err != nil {
		return nil, &BadPatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

func compileType(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, &BadPatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Select returns the devices of the given kind whose name matches
// namePattern, in area order and then device order.
func Select(tree *devicetree.Tree, kind Kind, namePattern string) ([]Match, error) {
	typeRe, err := compileType(kind.TypePattern)
	if err != nil {
		return nil, fmt.Errorf("type pattern for %s: %w", kind.Name, err)
	}
	nameRe, err := Compile(namePattern)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, area := range tree.Areas() {
		for _, device := range devicesOf(area, kind.Collection) {
			if typeRe.MatchString(device.Type()) && nameRe.MatchString(device.Name()) {
				matches = append(matches, Match{Area: area, Device: device})
			}
		}
	}
	return matches, nil
}

// SelectAreas returns the areas whose name matches namePattern.
func SelectAreas(tree *devicetree.Tree, namePattern string) ([]*devicetree.Area, error) {
	nameRe, err := Compile(namePattern)
	if err != nil {
		return nil, err
	}

	var areas []*devicetree.Area
	for _, area := range tree.Areas() {
		if nameRe.MatchString(area.Name()) {
			areas = append(areas, area)
		}
	}
	return areas, nil
}

// ResolveButtons returns the keypad's buttons whose name matches
// namePattern. A bad pattern is an error; no matching buttons is an empty
// result.
func ResolveButtons(keypad *devicetree.Keypad, namePattern string) ([]*devicetree.Button, error) {
	nameRe, err := Compile(namePattern)
	if err != nil {
		return nil, err
	}

	var buttons []*devicetree.Button
	for _, button := range keypad.Buttons() {
		if nameRe.MatchString(button.Name()) {
			buttons = append(buttons, button)
		}
	}
	return buttons, nil
}

func devicesOf(area *devicetree.Area, collection Collection) []devicetree.Device {
	var devices []devicetree.Device
	switch collection {
	case KeypadCollection:
		for _, kp := range area.Keypads() {
			devices = append(devices, kp)
		}
	case OutputCollection:
		for _, out := range area.Outputs() {
			devices = append(devices, out)
		}
	}
	return devices
}
