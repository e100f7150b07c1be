package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockConfig implements Configurable for testing
type MockConfig struct {
	ConfigFile string
	TestValue  string
	Loaded     bool
	LoadError  error
}

func (m *MockConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&m.ConfigFile, "config", "", "Config file")
	fs.StringVar(&m.TestValue, "test-value", "default", "Test value")
}

func (m *MockConfig) LoadConfigWithFlagSet(fs *pflag.FlagSet) error {
	m.Loaded = true
	return m.LoadError
}

// MockHandler implements CommandHandler for testing
type MockHandler struct {
	StartCalled bool
	StartArgs   []string
	StartError  error
}

func (m *MockHandler) Start(config Configurable, args []string) error {
	m.StartCalled = true
	m.StartArgs = args
	return m.StartError
}

func newTestCLI() (*BaseCLI, *bytes.Buffer) {
	var stdout bytes.Buffer
	return NewBaseCLI("lutronctl", &stdout, &bytes.Buffer{}), &stdout
}

func TestParseArgsStandard_Version(t *testing.T) {
	cli, _ := newTestCLI()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cmdArgs, err := cli.ParseArgsStandardWithFlagSet([]string{"--version"}, func() Configurable { return &MockConfig{} }, fs)
	require.NoError(t, err)
	assert.Equal(t, "version", cmdArgs.Command)
	assert.False(t, cmdArgs.Config.(*MockConfig).Loaded)
}

func TestParseArgsStandard_Help(t *testing.T) {
	cli, stdout := newTestCLI()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cmdArgs, err := cli.ParseArgsStandardWithFlagSet([]string{"-h"}, func() Configurable { return &MockConfig{} }, fs)
	require.NoError(t, err)
	assert.Equal(t, "help", cmdArgs.Command)

	require.NoError(t, cli.Execute(cmdArgs, &MockHandler{}))
	assert.Contains(t, stdout.String(), "Usage: lutronctl")
	assert.Contains(t, stdout.String(), "--test-value")
}

func TestParseArgsStandard_Start(t *testing.T) {
	cli, _ := newTestCLI()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cmdArgs, err := cli.ParseArgsStandardWithFlagSet([]string{"--test-value", "custom"}, func() Configurable { return &MockConfig{} }, fs)
	require.NoError(t, err)
	assert.Equal(t, "start", cmdArgs.Command)
	assert.Empty(t, cmdArgs.Args)

	config, ok := cmdArgs.Config.(*MockConfig)
	require.True(t, ok)
	assert.Equal(t, "custom", config.TestValue)
	assert.True(t, config.Loaded)
}

func TestParseArgsStandard_CommandArgs(t *testing.T) {
	cli, _ := newTestCLI()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	// Flags after the command word are left for the command.
	args := []string{"--test-value", "x", "list", "keypads", "-b", "Scene"}
	cmdArgs, err := cli.ParseArgsStandardWithFlagSet(args, func() Configurable { return &MockConfig{} }, fs)
	require.NoError(t, err)
	assert.Equal(t, []string{"list", "keypads", "-b", "Scene"}, cmdArgs.Args)
}

func TestParseArgsStandard_Errors(t *testing.T) {
	t.Run("bad flag", func(t *testing.T) {
		cli, _ := newTestCLI()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.SetOutput(&bytes.Buffer{})

		_, err := cli.ParseArgsStandardWithFlagSet([]string{"--bogus"}, func() Configurable { return &MockConfig{} }, fs)
		assert.ErrorContains(t, err, "failed to parse flags")
	})

	t.Run("config load", func(t *testing.T) {
		cli, _ := newTestCLI()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		loadErr := errors.New("boom")

		_, err := cli.ParseArgsStandardWithFlagSet(nil, func() Configurable { return &MockConfig{LoadError: loadErr} }, fs)
		assert.ErrorIs(t, err, loadErr)
	})
}

func TestExecute(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		cli, stdout := newTestCLI()
		handler := &MockHandler{}

		require.NoError(t, cli.Execute(&CommandArgs{Command: "version", Config: &MockConfig{}}, handler))
		assert.False(t, handler.StartCalled)
		assert.Contains(t, stdout.String(), "version")
	})

	t.Run("start", func(t *testing.T) {
		cli, _ := newTestCLI()
		handler := &MockHandler{}

		cmdArgs := &CommandArgs{Command: "start", Args: []string{"lights"}, Config: &MockConfig{}}
		require.NoError(t, cli.Execute(cmdArgs, handler))
		assert.True(t, handler.StartCalled)
		assert.Equal(t, []string{"lights"}, handler.StartArgs)
	})

	t.Run("start error", func(t *testing.T) {
		cli, _ := newTestCLI()
		handler := &MockHandler{StartError: errors.New("failed")}

		err := cli.Execute(&CommandArgs{Command: "start", Config: &MockConfig{}}, handler)
		assert.EqualError(t, err, "failed")
	})

	t.Run("unknown command", func(t *testing.T) {
		cli, _ := newTestCLI()
		handler := &MockHandler{}

		err := cli.Execute(&CommandArgs{Command: "unknown", Config: &MockConfig{}}, handler)
		assert.Error(t, err)
		assert.False(t, handler.StartCalled)
	})
}
