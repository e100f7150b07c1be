package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/larsks/lutronctl/internal/version"
	"github.com/spf13/pflag"
)

// Configurable represents a type that can be configured via flags and config files
type Configurable interface {
	AddFlags(fs *pflag.FlagSet)
	LoadConfigWithFlagSet(fs *pflag.FlagSet) error
}

// CommandHandler represents a command that can be executed. Args holds
// the positional arguments left after flag parsing.
type CommandHandler interface {
	Start(config Configurable, args []string) error
}

// BaseCLI provides common CLI functionality
type BaseCLI struct {
	name   string
	stdout io.Writer
	stderr io.Writer
}

// NewBaseCLI creates a new BaseCLI instance
func NewBaseCLI(name string, stdout, stderr io.Writer) *BaseCLI {
	return &BaseCLI{
		name:   name,
		stdout: stdout,
		stderr: stderr,
	}
}

// CommandArgs represents parsed command line arguments
type CommandArgs struct {
	Command string
	Args    []string
	Config  Configurable
	Usage   string
}

// ParseArgsStandard provides standard argument parsing for version/help/start commands
func (c *BaseCLI) ParseArgsStandard(args []string, configFactory func() Configurable) (*CommandArgs, error) {
	return c.ParseArgsStandardWithFlagSet(args, configFactory, pflag.CommandLine)
}

// ParseArgsStandardWithFlagSet provides standard argument parsing with a custom flag set
func (c *BaseCLI) ParseArgsStandardWithFlagSet(args []string, configFactory func() Configurable, fs *pflag.FlagSet) (*CommandArgs, error) {
	versionFlag := fs.Bool("version", false, "Show version and exit")
	helpFlag := fs.BoolP("help", "h", false, "Show help")

	cfg := configFactory()
	cfg.AddFlags(fs)

	// Arguments after the first positional word belong to the command.
	fs.SetInterspersed(false)

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *versionFlag {
		return &CommandArgs{Command: "version", Config: cfg}, nil
	}

	if *helpFlag {
		return &CommandArgs{Command: "help", Config: cfg, Usage: fs.FlagUsages()}, nil
	}

	if err := cfg.LoadConfigWithFlagSet(fs); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &CommandArgs{Command: "start", Args: fs.Args(), Config: cfg}, nil
}

// Execute runs the specified command using standard patterns
func (c *BaseCLI) Execute(cmdArgs *CommandArgs, handler CommandHandler) error {
	switch cmdArgs.Command {
	case "version":
		version.WriteVersion(c.stdout)
		return nil
	case "help":
		c.showHelp(cmdArgs.Usage)
		return nil
	case "start":
		return handler.Start(cmdArgs.Config, cmdArgs.Args)
	default:
		return fmt.Errorf("unknown command: %s", cmdArgs.Command)
	}
}

func (c *BaseCLI) showHelp(usage string) {
	//nolint:errcheck
	fmt.Fprintf(c.stdout, `Usage: %s [flags] [command [arguments]]

With no command, %s starts an interactive shell. Type "help" at the
prompt for the list of commands.

Flags:
%s`, c.name, c.name, usage)
}

// StandardMain provides a complete main function implementation and
// returns the process exit code.
func StandardMain(name string, configFactory func() Configurable, handler CommandHandler) int {
	cli := NewBaseCLI(name, os.Stdout, os.Stderr)

	cmdArgs, err := cli.ParseArgsStandard(os.Args[1:], configFactory)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(cli.stderr, "Error: %v\n", err) //nolint:errcheck
		return 2
	}

	if err := cli.Execute(cmdArgs, handler); err != nil {
		fmt.Fprintf(cli.stderr, "Error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}
