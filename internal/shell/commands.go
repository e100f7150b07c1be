package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/larsks/lutronctl/internal/devicetree"
	"github.com/larsks/lutronctl/internal/dispatch"
	"github.com/larsks/lutronctl/internal/formatter"
	"github.com/larsks/lutronctl/internal/selector"
	"github.com/spf13/pflag"
)

// matchAll is the button filter implied by a bare --button flag.
const matchAll = ".*"

type commandSpec struct {
	name    string
	aliases []string
	usage   string
	help    string
	run     func(s *Shell, ctx context.Context, args []string) error
}

// listKinds maps list subcommands to their selection configuration.
var listKinds = map[string]selector.Kind{
	"keypads":  selector.Keypads,
	"switches": selector.Switches,
	"lights":   selector.Lights,
	"fans":     selector.Fans,
}

func commandTable() []*commandSpec {
	return []*commandSpec{
		{
			name:  "list",
			usage: "list [areas|keypads|switches|lights|fans] [filter] [-f|--full] [-b|--button [BUTTONFILTER]]",
			help:  "List areas or devices whose name starts with filter",
			run:   (*Shell).cmdList,
		},
		{
			name:  "areas",
			usage: "areas [filter] [-f|--full]",
			help:  "Shorthand for 'list areas'",
			run: func(s *Shell, ctx context.Context, args []string) error {
				return s.cmdList(ctx, append([]string{"areas"}, args...))
			},
		},
		{
			name:  "lights",
			usage: "lights [filter] [on [level]|off]",
			help:  "Show lights with their level, or turn them on or off",
			run:   (*Shell).cmdLights,
		},
		{
			name:  "press",
			usage: "press <keypad> <button>",
			help:  "Press the matching buttons on every matching keypad",
			run:   (*Shell).cmdPress,
		},
		{
			name:    "help",
			aliases: []string{"?"},
			usage:   "help",
			help:    "Show this help",
			run:     (*Shell).cmdHelp,
		},
		{
			name:    "exit",
			aliases: []string{"quit", "q"},
			usage:   "exit",
			help:    "Leave the shell",
			run: func(s *Shell, ctx context.Context, args []string) error {
				return ErrExit
			},
		},
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(true)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return usageErrorf("help requested")
		}
		return &UsageError{Err: err}
	}
	return nil
}

// reportBadPattern prints the message for a pattern that failed to
// compile and reports whether err was such a failure.
func (s *Shell) reportBadPattern(err error, label string) bool {
	var bpe *selector.BadPatternError
	if !errors.As(err, &bpe) {
		return false
	}
	s.printf("Bad %s \"%s\". Try again.\n", label, bpe.Pattern)
	return true
}

func noMatch(kind, filter string) string {
	return fmt.Sprintf("No %s matching \"%s\" found", kind, filter)
}

func (s *Shell) cmdList(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	full := fs.BoolP("full", "f", false, "show all attributes")
	button := fs.StringP("button", "b", "", "also list keypad buttons matching `BUTTONFILTER`")
	fs.Lookup("button").NoOptDefVal = matchAll

	if err := parseFlags(fs, bindOptionalValue(args, "b", "button")); err != nil {
		return err
	}
	verbosity := formatter.VerbosityFromFlag(*full)

	positional := fs.Args()
	if len(positional) > 2 {
		return usageErrorf("too many arguments")
	}
	if len(positional) == 0 {
		for _, area := range s.tree.Areas() {
			s.println(formatter.FormatArea(area, formatter.Full))
		}
		return nil
	}

	kindName := strings.ToLower(positional[0])
	var filter string
	if len(positional) == 2 {
		filter = positional[1]
	}

	if kindName == "areas" {
		if fs.Changed("button") {
			return usageErrorf("--button only applies to keypads")
		}
		return s.listAreas(filter, verbosity)
	}

	kind, ok := listKinds[kindName]
	if !ok {
		return usageErrorf("unknown list subcommand: %s", positional[0])
	}
	if fs.Changed("button") && kind != selector.Keypads {
		return usageErrorf("--button only applies to keypads")
	}

	matches, err := selector.Select(s.tree, kind, filter)
	if s.reportBadPattern(err, "regular expression for match filter") {
		return nil
	} else if err != nil {
		return err
	}

	render := func(m selector.Match) string {
		return formatter.Format(m.Device, verbosity, nil)
	}

	emptyMessage := noMatch(kind.Name, filter)
	if fs.Changed("button") {
		if len(matches) > 0 {
			emptyMessage = fmt.Sprintf("No %s with buttons matching \"%s\" found", kind.Name, *button)
		}
		matches, render, err = withButtons(matches, *button, verbosity)
		if s.reportBadPattern(err, "button match filter") {
			return nil
		} else if err != nil {
			return err
		}
	}

	report, err := dispatch.Dispatch(ctx, matches, nil, render, emptyMessage)
	if err != nil {
		return err
	}
	s.println(report)
	return nil
}

// withButtons narrows keypad matches to those with at least one button
// matching buttonFilter and renders the buttons beneath each keypad.
func withButtons(matches []selector.Match, buttonFilter string, verbosity formatter.Verbosity) ([]selector.Match, dispatch.Renderer, error) {
	resolved := make(map[devicetree.Device][]*devicetree.Button)
	var kept []selector.Match

	for _, m := range matches {
		keypad, ok := m.Device.(*devicetree.Keypad)
		if !ok {
			continue
		}
		buttons, err := selector.ResolveButtons(keypad, buttonFilter)
		if err != nil {
			return nil, nil, err
		}
		if len(buttons) == 0 {
			continue
		}
		resolved[keypad] = buttons
		kept = append(kept, m)
	}

	ext := func(d devicetree.Device) string {
		return formatter.NestedButtons(resolved[d])
	}
	render := func(m selector.Match) string {
		return formatter.Format(m.Device, verbosity, ext)
	}
	return kept, render, nil
}

func (s *Shell) listAreas(filter string, verbosity formatter.Verbosity) error {
	areas, err := selector.SelectAreas(s.tree, filter)
	if s.reportBadPattern(err, "regular expression for match filter") {
		return nil
	} else if err != nil {
		return err
	}

	if len(areas) == 0 {
		s.println(noMatch("areas", filter))
		return nil
	}
	for _, area := range areas {
		s.println(formatter.FormatArea(area, verbosity))
	}
	return nil
}

// lightsRequest is the parsed form of "lights [filter] [on [level]|off]".
type lightsRequest struct {
	filter string
	action dispatch.Action
}

func parseLights(args []string) (*lightsRequest, error) {
	isSubcommand := func(word string) bool {
		word = strings.ToLower(word)
		return word == "on" || word == "off"
	}

	req := &lightsRequest{}
	var sub []string
	switch {
	case len(args) == 0:
	case len(args) >= 2 && isSubcommand(args[1]):
		req.filter = args[0]
		sub = args[1:]
	case isSubcommand(args[0]):
		sub = args
	case len(args) == 1:
		req.filter = args[0]
	default:
		return nil, usageErrorf("unexpected argument: %s", args[1])
	}

	if len(sub) == 0 {
		return req, nil
	}

	switch strings.ToLower(sub[0]) {
	case "on":
		level := devicetree.MaxLevel
		if len(sub) > 2 {
			return nil, usageErrorf("too many arguments")
		}
		if len(sub) == 2 {
			var err error
			level, err = strconv.ParseFloat(sub[1], 64)
			if err != nil {
				return nil, usageErrorf("invalid level %q", sub[1])
			}
			if !devicetree.ValidLevel(level) {
				return nil, usageErrorf("level must be between %g and %g", devicetree.MinLevel, devicetree.MaxLevel)
			}
		}
		req.action = dispatch.SetLevel(level)
	case "off":
		if len(sub) > 1 {
			return nil, usageErrorf("too many arguments")
		}
		req.action = dispatch.TurnOff()
	}
	return req, nil
}

func (s *Shell) cmdLights(ctx context.Context, args []string) error {
	fs := newFlagSet("lights")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	req, err := parseLights(fs.Args())
	if err != nil {
		return err
	}

	matches, err := selector.Select(s.tree, selector.Lights, req.filter)
	if s.reportBadPattern(err, "regular expression for match filter") {
		return nil
	} else if err != nil {
		return err
	}

	if len(matches) == 0 {
		s.println(noMatch("lights", req.filter))
		return nil
	}

	render := func(m selector.Match) string {
		return formatter.FormatLight(m.Device.(*devicetree.Output))
	}
	report, err := dispatch.Dispatch(ctx, matches, req.action, render, noMatch("lights", req.filter))
	if err != nil {
		return err
	}
	if req.action == nil {
		s.println(report)
	}
	return nil
}

func (s *Shell) cmdPress(ctx context.Context, args []string) error {
	fs := newFlagSet("press")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageErrorf("press requires a keypad and a button")
	}
	keypadFilter, buttonFilter := fs.Arg(0), fs.Arg(1)

	matches, err := selector.Select(s.tree, selector.Keypads, keypadFilter)
	if s.reportBadPattern(err, "regular expression for match filter") {
		return nil
	} else if err != nil {
		return err
	}

	action, err := dispatch.PressButtons(buttonFilter)
	if s.reportBadPattern(err, "button match filter") {
		return nil
	} else if err != nil {
		return err
	}

	if len(matches) == 0 {
		s.println(noMatch("keypad", keypadFilter))
		return nil
	}

	return dispatch.Apply(ctx, matches, action)
}

func (s *Shell) cmdHelp(ctx context.Context, args []string) error {
	width := 0
	for _, name := range s.order {
		width = max(width, len(s.commands[name].usage))
	}

	s.println("Commands:")
	for _, name := range s.order {
		spec := s.commands[name]
		s.printf("  %-*s  %s\n", width, spec.usage, spec.help)
	}
	s.println("\nFilters are case-insensitive regular expressions matched against the start of a name.")
	return nil
}
