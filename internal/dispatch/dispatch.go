package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/larsks/lutronctl/internal/devicetree"
	"github.com/larsks/lutronctl/internal/selector"
)

// Renderer produces the display string for one match.
type Renderer func(selector.Match) string

// Action is applied to each matched device in turn.
type Action func(ctx context.Context, device devicetree.Device) error

// Dispatch reports the matches when action is nil and applies action to
// each of them otherwise.
func Dispatch(ctx context.Context, matches []selector.Match, action Action, render Renderer, emptyMessage string) (string, error) {
	if action == nil {
		return Report(matches, render, emptyMessage), nil
	}
	return "", Apply(ctx, matches, action)
}

// Report joins the rendered matches with newlines. An empty selection
// yields emptyMessage.
func Report(matches []selector.Match, render Renderer, emptyMessage string) string {
	if len(matches) == 0 {
		return emptyMessage
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, render(m))
	}
	return strings.Join(lines, "\n")
}

// Apply invokes action on every match in selection order. The first
// failure stops the dispatch; devices already handled keep their new state.
func Apply(ctx context.Context, matches []selector.Match, action Action) error {
	for i, m := range matches {
		if err := action(ctx, m.Device); err != nil {
			return fmt.Errorf("%w after %d of %d devices: %w", ErrAborted, i, len(matches), err)
		}
	}
	slog.Debug("dispatch complete", "devices", len(matches))
	return nil
}

// SetLevel returns an action that sets the level of an output.
func SetLevel(level float64) Action {
	return func(ctx context.Context, device devicetree.Device) error {
		output, ok := device.(*devicetree.Output)
		if !ok {
			return fmt.Errorf("%w: %s is a %s", ErrUnsupportedDevice, device.Name(), device.Type())
		}
		return output.SetLevel(ctx, level)
	}
}

// TurnOff sets the level of an output to 0.
func TurnOff() Action {
	return SetLevel(devicetree.MinLevel)
}

// PressButtons returns an action that presses every button of a keypad
// whose name matches buttonPattern. The pattern is checked before any
// button is pressed.
func PressButtons(buttonPattern string) (Action, error) {
	if _, err := selector.Compile(buttonPattern); err != nil {
		return nil, err
	}

	return func(ctx context.Context, device devicetree.Device) error {
		keypad, ok := device.(*devicetree.Keypad)
		if !ok {
			return fmt.Errorf("%w: %s is a %s", ErrUnsupportedDevice, device.Name(), device.Type())
		}

		buttons, err := selector.ResolveButtons(keypad, buttonPattern)
		if err != nil {
			return err
		}
		for _, b := range buttons {
			if err := b.Press(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
