package lutronctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/larsks/lutronctl/internal/cli"
	"github.com/larsks/lutronctl/internal/controllers"
	"github.com/larsks/lutronctl/internal/devicedb"
	"github.com/larsks/lutronctl/internal/devicetree"
	"github.com/larsks/lutronctl/internal/shell"
)

const prompt = "lutron> "

// Prompt is an interactive line source. *readline.Instance implements it.
type Prompt interface {
	shell.LineReader
	Stdout() io.Writer
	Close() error
}

// Handler implements the lutronctl command handler
type Handler struct {
	config     *Config
	httpClient devicedb.HTTPClient
	newPrompt  func() (Prompt, error)
	stdout     io.Writer
	stderr     io.Writer
}

// NewHandler creates a new lutronctl handler
func NewHandler() *Handler {
	return &Handler{
		httpClient: &http.Client{},
		newPrompt:  newReadlinePrompt,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

func newReadlinePrompt() (Prompt, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return rl, nil
}

// Start implements cli.CommandHandler. With arguments it runs them as a
// single command; otherwise it starts the interactive shell.
func (h *Handler) Start(config cli.Configurable, args []string) error {
	cfg, ok := config.(*Config)
	if !ok {
		return fmt.Errorf("%w: unexpected config type %T", ErrInvalidConfig, config)
	}
	h.config = cfg

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	tree, ctl, err := h.open(ctx)
	if err != nil {
		return err
	}
	defer ctl.Close() //nolint:errcheck

	if len(args) > 0 {
		return h.runOnce(ctx, tree, args)
	}
	return h.runInteractive(ctx, tree)
}

// open loads the device tree and attaches the configured controller.
func (h *Handler) open(ctx context.Context) (*devicetree.Tree, devicetree.Controller, error) {
	tree, err := devicedb.Load(ctx, devicedb.Options{
		Path:    h.config.DeviceDB,
		Address: h.config.Repeater.Address,
		Refresh: h.config.RefreshDB,
		Client:  h.httpClient,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load device database: %w", err)
	}

	ctl, err := controllers.Create(h.config.Driver, h.config.DriverConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s controller: %w", h.config.Driver, err)
	}
	tree.SetController(ctl)

	if h.config.SyncLevels {
		if err := tree.SyncLevels(ctx); err != nil {
			slog.Warn("failed to read current output levels", "error", err)
		}
	}

	log.Printf("using %s controller with %s", h.config.Driver, tree)
	return tree, ctl, nil
}

func (h *Handler) runOnce(ctx context.Context, tree *devicetree.Tree, args []string) error {
	sh := shell.New(tree, h.stdout)
	err := sh.ExecuteArgs(ctx, args)
	if errors.Is(err, shell.ErrExit) {
		return nil
	}
	return err
}

func (h *Handler) runInteractive(ctx context.Context, tree *devicetree.Tree) error {
	p, err := h.newPrompt()
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck

	sh := shell.New(tree, p.Stdout())
	return sh.Run(ctx, p)
}
