// Package devicetreetest provides a small house for tests.
package devicetreetest

import "github.com/larsks/lutronctl/internal/devicetree"

// NewTree returns a tree with three areas:
//
//	Kitchen:    Kitchen Lights (10), Kitchen Pendants (11), Kitchen Fan (12)
//	            Kitchen Keypad (20), Kitchen Switch (21)
//	LivingRoom: LivingRoom Lamp (30), LivingRoom Sconces (31)
//	            LivingRoom Keypad (40), LivingRoom Remote (41)
//	Porch:      Porch Light (50)
//
// No controller is attached.
func NewTree() *devicetree.Tree {
	tree := devicetree.NewTree()

	kitchen := tree.AddArea("Kitchen")
	kitchen.AddOutput(10, "Kitchen Lights", "DIMMER", 0)
	kitchen.AddOutput(11, "Kitchen Pendants", "DIMMER", 25)
	kitchen.AddOutput(12, "Kitchen Fan", "FAN", 0)
	kp := kitchen.AddKeypad(20, "Kitchen Keypad", "KEYPAD")
	kp.AddButton(1, "Lights On")
	kp.AddButton(2, "Lights Off")
	kp.AddButton(3, "Scene 1")
	kitchen.AddKeypad(21, "Kitchen Switch", "DIMMER/SWITCH")

	living := tree.AddArea("LivingRoom")
	living.AddOutput(30, "LivingRoom Lamp", "DIMMER", 100)
	living.AddOutput(31, "LivingRoom Sconces", "SWITCHED", 0)
	kp = living.AddKeypad(40, "LivingRoom Keypad", "KEYPAD")
	kp.AddButton(1, "Volume Up")
	kp.AddButton(2, "Volume Down")
	kp.AddButton(3, "Movie")
	kp = living.AddKeypad(41, "LivingRoom Remote", "KEYPAD")
	kp.AddButton(1, "Volume Up")
	kp.AddButton(2, "Off")

	porch := tree.AddArea("Porch")
	porch.AddOutput(50, "Porch Light", "DIMMER", 0)

	return tree
}
