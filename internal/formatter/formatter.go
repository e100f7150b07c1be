package formatter

import (
	"fmt"
	"strings"

	"github.com/larsks/lutronctl/internal/devicetree"
)

// Verbosity selects between the name-only and full attribute renderings.
type Verbosity int

const (
	Brief Verbosity = iota
	Full
)

// VerbosityFromFlag maps a --full flag to a Verbosity.
func VerbosityFromFlag(full bool) Verbosity {
	if full {
		return Full
	}
	return Brief
}

// Extension returns extra text appended directly after a device's
// rendering.
type Extension func(devicetree.Device) string

// Format renders a device. Brief shows the name only; Full shows the
// comma-delimited attribute summary.
func Format(device devicetree.Device, verbosity Verbosity, ext Extension) string {
	var s string
	switch verbosity {
	case Full:
		s = device.String()
	default:
		s = device.Name()
	}
	if ext != nil {
		s += ext(device)
	}
	return s
}

// FormatArea renders an area the same way Format renders a device.
func FormatArea(area *devicetree.Area, verbosity Verbosity) string {
	if verbosity == Full {
		return area.String()
	}
	return area.Name()
}

// FormatLight renders an output with its current level.
func FormatLight(output *devicetree.Output) string {
	return fmt.Sprintf("name: %s, level: %.1f", output.Name(), output.Level())
}

// NestedButtons renders buttons as tab-indented lines to append beneath a
// keypad.
func NestedButtons(buttons []*devicetree.Button) string {
	var sb strings.Builder
	for _, b := range buttons {
		sb.WriteString("\n\t")
		sb.WriteString(b.String())
	}
	return sb.String()
}
