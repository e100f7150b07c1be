package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/larsks/lutronctl/internal/devicetree"
)

// LineReader supplies input lines to Run. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
}

// Shell routes command lines to the list, lights and press commands.
type Shell struct {
	tree     *devicetree.Tree
	stdout   io.Writer
	commands map[string]*commandSpec
	order    []string
}

// New creates a shell operating on tree and writing to stdout.
func New(tree *devicetree.Tree, stdout io.Writer) *Shell {
	s := &Shell{
		tree:     tree,
		stdout:   stdout,
		commands: make(map[string]*commandSpec),
	}
	for _, spec := range commandTable() {
		s.commands[spec.name] = spec
		s.order = append(s.order, spec.name)
		for _, alias := range spec.aliases {
			s.commands[alias] = spec
		}
	}
	return s
}

// Execute parses and runs one command line. Bad patterns, empty
// selections and usage errors are printed and return nil. Controller
// failures are returned. ErrExit is returned for exit and quit.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		s.printf("Unable to parse command line: %v\n", err)
		return nil
	}
	return s.ExecuteArgs(ctx, args)
}

// ExecuteArgs runs a command that has already been split into words.
func (s *Shell) ExecuteArgs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}

	name := strings.ToLower(args[0])
	spec, ok := s.commands[name]
	if !ok {
		s.printf("Unknown command: %s (type 'help' for commands)\n", args[0])
		return nil
	}

	slog.Debug("running command", "command", spec.name, "args", args[1:])
	err := spec.run(s, ctx, args[1:])

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		s.printf("%v\nUsage: %s\n", usageErr.Err, spec.usage)
		return nil
	}
	return err
}

// Run reads and executes lines until end of input or an exit command.
// Command errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context, reader LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		err = s.Execute(ctx, line)
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			s.printf("Error: %v\n", err)
		}
	}
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.stdout, format, args...) //nolint:errcheck
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.stdout, text) //nolint:errcheck
}
