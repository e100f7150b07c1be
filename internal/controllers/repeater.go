package controllers

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/larsks/lutronctl/internal/devicetree"
)

const (
	defaultRepeaterPort    = "23"
	defaultRepeaterTimeout = 5 * time.Second

	loginPrompt    = "login: "
	passwordPrompt = "password: "
	commandPrompt  = "GNET> "

	actionSetLevel = 1
	actionPress    = 3
	actionRelease  = 4
)

// RepeaterConfig represents repeater driver configuration
type RepeaterConfig struct {
	Address  string        `mapstructure:"address"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RepeaterFactory implements Factory for the RadioRA2 main repeater
type RepeaterFactory struct{}

// CreateController creates a repeater controller. The connection is opened
// on first use.
func (f *RepeaterFactory) CreateController(config map[string]interface{}) (devicetree.Controller, error) {
	cfg, err := f.parseConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repeater config: %w", err)
	}
	return NewRepeaterController(*cfg), nil
}

// ValidateConfig validates repeater configuration
func (f *RepeaterFactory) ValidateConfig(config map[string]interface{}) error {
	_, err := f.parseConfig(config)
	return err
}

func (f *RepeaterFactory) parseConfig(config map[string]interface{}) (*RepeaterConfig, error) {
	cfg := &RepeaterConfig{}
	if err := decodeConfig(config, cfg); err != nil {
		return nil, err
	}
	if cfg.Address == "" {
		return nil, ErrMissingAddress
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultRepeaterTimeout
	}
	return cfg, nil
}

// RepeaterController talks to the main repeater over the integration
// protocol. Commands are serialized on a single connection.
type RepeaterController struct {
	config RepeaterConfig
	dial   func(ctx context.Context, address string) (net.Conn, error)
	conn   net.Conn
	reader *bufio.Reader
	mutex  sync.Mutex
}

// NewRepeaterController creates a controller for the repeater at cfg.Address.
func NewRepeaterController(cfg RepeaterConfig) *RepeaterController {
	if _, _, err := net.SplitHostPort(cfg.Address); err != nil {
		cfg.Address = net.JoinHostPort(cfg.Address, defaultRepeaterPort)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultRepeaterTimeout
	}

	dialer := &net.Dialer{Timeout: cfg.Timeout}
	return &RepeaterController{
		config: cfg,
		dial: func(ctx context.Context, address string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", address)
		},
	}
}

// SetOutputLevel sends #OUTPUT,<id>,1,<level>
func (rc *RepeaterController) SetOutputLevel(ctx context.Context, id int, level float64) error {
	_, err := rc.execute(ctx, fmt.Sprintf("#OUTPUT,%d,%d,%.2f", id, actionSetLevel, level))
	return err
}

// PressButton sends a press followed by a release for the component
func (rc *RepeaterController) PressButton(ctx context.Context, keypadID, component int) error {
	for _, action := range []int{actionPress, actionRelease} {
		if _, err := rc.execute(ctx, fmt.Sprintf("#DEVICE,%d,%d,%d", keypadID, component, action)); err != nil {
			return err
		}
	}
	return nil
}

// QueryOutputLevel sends ?OUTPUT,<id>,1 and parses the ~OUTPUT reply
func (rc *RepeaterController) QueryOutputLevel(ctx context.Context, id int) (float64, error) {
	reply, err := rc.execute(ctx, fmt.Sprintf("?OUTPUT,%d,%d", id, actionSetLevel))
	if err != nil {
		return 0, err
	}

	prefix := fmt.Sprintf("~OUTPUT,%d,%d,", id, actionSetLevel)
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), commandPrompt))
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		level, err := strconv.ParseFloat(strings.TrimPrefix(line, prefix), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnexpectedReply, line)
		}
		return level, nil
	}
	return 0, fmt.Errorf("%w: no level for output %d", ErrUnexpectedReply, id)
}

// execute sends a command and waits for the next prompt. The text received
// before the prompt is returned.
func (rc *RepeaterController) execute(ctx context.Context, command string) (string, error) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if err := rc.connect(ctx); err != nil {
		return "", err
	}
	if err := rc.setDeadline(ctx); err != nil {
		return "", err
	}

	if _, err := fmt.Fprintf(rc.conn, "%s\r\n", command); err != nil {
		rc.disconnect()
		return "", fmt.Errorf("failed to send %q: %w", command, err)
	}

	reply, err := rc.readUntil(commandPrompt)
	if err != nil {
		rc.disconnect()
		return "", fmt.Errorf("no reply to %q: %w", command, err)
	}

	for _, line := range strings.Split(reply, "\n") {
		if strings.Contains(line, "~ERROR") {
			return reply, fmt.Errorf("%w: %s: %s", ErrCommandRejected, command, strings.TrimSpace(line))
		}
	}
	return reply, nil
}

func (rc *RepeaterController) connect(ctx context.Context) error {
	if rc.conn != nil {
		return nil
	}

	log.Printf("connecting to repeater at %s", rc.config.Address)
	conn, err := rc.dial(ctx, rc.config.Address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	rc.conn = conn
	rc.reader = bufio.NewReader(conn)

	if err := rc.setDeadline(ctx); err != nil {
		rc.disconnect()
		return err
	}
	if err := rc.login(); err != nil {
		rc.disconnect()
		return err
	}
	log.Printf("connected to repeater at %s", rc.config.Address)
	return nil
}

func (rc *RepeaterController) login() error {
	steps := []struct {
		prompt string
		answer string
	}{
		{loginPrompt, rc.config.Username},
		{passwordPrompt, rc.config.Password},
	}
	for _, step := range steps {
		if _, err := rc.readUntil(step.prompt); err != nil {
			return fmt.Errorf("%w: waiting for %q: %v", ErrLoginFailed, strings.TrimSpace(step.prompt), err)
		}
		if _, err := fmt.Fprintf(rc.conn, "%s\r\n", step.answer); err != nil {
			return fmt.Errorf("%w: %v", ErrLoginFailed, err)
		}
	}
	if _, err := rc.readUntil(commandPrompt); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	return nil
}

func (rc *RepeaterController) setDeadline(ctx context.Context) error {
	deadline := time.Now().Add(rc.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return rc.conn.SetDeadline(deadline)
}

func (rc *RepeaterController) readUntil(marker string) (string, error) {
	var buf strings.Builder
	for {
		b, err := rc.reader.ReadByte()
		if err != nil {
			return buf.String(), err
		}
		buf.WriteByte(b)
		if strings.HasSuffix(buf.String(), marker) {
			return buf.String(), nil
		}
	}
}

func (rc *RepeaterController) disconnect() {
	if rc.conn != nil {
		rc.conn.Close() //nolint:errcheck
		rc.conn = nil
		rc.reader = nil
	}
}

// Close closes the connection to the repeater
func (rc *RepeaterController) Close() error {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if rc.conn == nil {
		return nil
	}
	log.Printf("closing connection to repeater at %s", rc.config.Address)
	err := rc.conn.Close()
	rc.conn = nil
	rc.reader = nil
	return err
}

func (rc *RepeaterController) String() string {
	return fmt.Sprintf("repeater(%s)", rc.config.Address)
}

func init() {
	Register("repeater", &RepeaterFactory{}) //nolint:errcheck
}
