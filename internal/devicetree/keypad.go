package devicetree

import (
	"context"
	"fmt"
	"log/slog"
)

// ButtonType is the type tag reported by every Button.
const ButtonType = "BUTTON"

// Keypad is a device exposing a fixed set of physical buttons.
type Keypad struct {
	id      int
	name    string
	kind    string
	area    *Area
	buttons []*Button
}

func (k *Keypad) ID() int {
	return k.id
}

func (k *Keypad) Name() string {
	return k.name
}

func (k *Keypad) Type() string {
	return k.kind
}

func (k *Keypad) Area() *Area {
	return k.area
}

// Buttons returns the keypad's buttons in component order as loaded.
func (k *Keypad) Buttons() []*Button {
	return k.buttons
}

// AddButton appends a button with the given component number.
func (k *Keypad) AddButton(component int, name string) *Button {
	b := &Button{component: component, name: name, keypad: k}
	k.buttons = append(k.buttons, b)
	return b
}

func (k *Keypad) String() string {
	return fmt.Sprintf("Keypad name: %q, area: %q, type: %s, id: %d, buttons: %d",
		k.name, k.area.name, k.kind, k.id, len(k.buttons))
}

// Button is a momentary-press control belonging to a keypad.
type Button struct {
	component int
	name      string
	keypad    *Keypad
}

func (b *Button) Component() int {
	return b.component
}

func (b *Button) Name() string {
	return b.name
}

func (b *Button) Type() string {
	return ButtonType
}

func (b *Button) Keypad() *Keypad {
	return b.keypad
}

// Press presses and releases the button.
func (b *Button) Press(ctx context.Context) error {
	ctl, err := b.keypad.area.tree.getController()
	if err != nil {
		return err
	}

	slog.Debug("pressing button", "keypad", b.keypad.name, "button", b.name, "component", b.component)
	if err := ctl.PressButton(ctx, b.keypad.id, b.component); err != nil {
		return fmt.Errorf("failed to press %q on %q: %w", b.name, b.keypad.name, err)
	}
	return nil
}

func (b *Button) String() string {
	return fmt.Sprintf("Button name: %q, num: %d, keypad: %q", b.name, b.component, b.keypad.name)
}
