package formatter

import (
	"testing"

	"github.com/larsks/lutronctl/internal/devicetree"
	"github.com/larsks/lutronctl/internal/devicetree/devicetreetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevices(t *testing.T) (*devicetree.Output, *devicetree.Keypad, *devicetree.Area) {
	t.Helper()
	tree := devicetreetest.NewTree()
	kitchen := tree.Areas()[0]
	require.Equal(t, "Kitchen", kitchen.Name())
	return kitchen.Outputs()[1], kitchen.Keypads()[0], kitchen
}

func TestFormat(t *testing.T) {
	pendants, keypad, _ := testDevices(t)

	testCases := []struct {
		name      string
		device    devicetree.Device
		verbosity Verbosity
		ext       Extension
		want      string
	}{
		{"brief output", pendants, Brief, nil, "Kitchen Pendants"},
		{"full output", pendants, Full, nil, `Output name: "Kitchen Pendants", level: 25.00, type: DIMMER, id: 11`},
		{"brief keypad", keypad, Brief, nil, "Kitchen Keypad"},
		{"full keypad", keypad, Full, nil, `Keypad name: "Kitchen Keypad", area: "Kitchen", type: KEYPAD, id: 20, buttons: 3`},
		{
			"extension",
			keypad,
			Brief,
			func(d devicetree.Device) string { return " <" + d.Type() + ">" },
			"Kitchen Keypad <KEYPAD>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.device, tc.verbosity, tc.ext))
		})
	}
}

func TestFormat_Pure(t *testing.T) {
	pendants, keypad, _ := testDevices(t)
	ext := func(d devicetree.Device) string { return NestedButtons(keypad.Buttons()) }

	for _, v := range []Verbosity{Brief, Full} {
		assert.Equal(t, Format(pendants, v, nil), Format(pendants, v, nil))
		assert.Equal(t, Format(keypad, v, ext), Format(keypad, v, ext))
	}
	assert.Equal(t, 25.0, pendants.Level())
}

func TestFormatArea(t *testing.T) {
	_, _, kitchen := testDevices(t)

	assert.Equal(t, "Kitchen", FormatArea(kitchen, Brief))
	assert.Equal(t, `Area name: "Kitchen", keypads: 2, outputs: 3`, FormatArea(kitchen, Full))
}

func TestFormatLight(t *testing.T) {
	pendants, _, _ := testDevices(t)
	assert.Equal(t, "name: Kitchen Pendants, level: 25.0", FormatLight(pendants))
}

func TestNestedButtons(t *testing.T) {
	_, keypad, _ := testDevices(t)

	want := "\n\t" + `Button name: "Lights On", num: 1, keypad: "Kitchen Keypad"` +
		"\n\t" + `Button name: "Lights Off", num: 2, keypad: "Kitchen Keypad"`
	assert.Equal(t, want, NestedButtons(keypad.Buttons()[:2]))
	assert.Empty(t, NestedButtons(nil))
}

func TestVerbosityFromFlag(t *testing.T) {
	assert.Equal(t, Full, VerbosityFromFlag(true))
	assert.Equal(t, Brief, VerbosityFromFlag(false))
}
