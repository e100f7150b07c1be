package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
}

type testConfig struct {
	Name    string        `mapstructure:"name"`
	Count   int           `mapstructure:"count"`
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
	Nested  nestedConfig  `mapstructure:"nested"`
}

func (c *testConfig) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Name, "name", c.Name, "name")
	fs.IntVar(&c.Count, "count", c.Count, "count")
	fs.BoolVar(&c.Enabled, "enabled", c.Enabled, "enabled")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "timeout")
	fs.StringVar(&c.Nested.Address, "address", c.Nested.Address, "address")
	BindKey(fs, "address", "nested.address") //nolint:errcheck
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newLoader(configFile string) *ConfigLoader {
	loader := NewConfigLoader()
	loader.SetConfigFile(configFile)
	loader.SetDefaults(map[string]any{
		"name":           "default",
		"count":          1,
		"enabled":        false,
		"timeout":        5 * time.Second,
		"nested.address": "",
		"nested.port":    23,
	})
	return loader
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := &testConfig{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.addFlags(fs)
	require.NoError(t, fs.Parse(nil))

	require.NoError(t, newLoader("").LoadConfigWithFlagSet(cfg, fs))
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 1, cfg.Count)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 23, cfg.Nested.Port)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeFile(t, "config.toml", `
name = "from-file"
count = 7
timeout = "2s"

[nested]
address = "repeater.local"
port = 2323
`)

	cfg := &testConfig{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.addFlags(fs)
	require.NoError(t, fs.Parse([]string{"--count", "9", "--address", "10.0.0.5"}))

	require.NoError(t, newLoader(path).LoadConfigWithFlagSet(cfg, fs))
	assert.Equal(t, "from-file", cfg.Name, "file overrides default")
	assert.Equal(t, 9, cfg.Count, "flag overrides file")
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "10.0.0.5", cfg.Nested.Address, "annotated flag sets nested key")
	assert.Equal(t, 2323, cfg.Nested.Port)
}

func TestLoadConfig_UnsetFlagsDoNotOverrideFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "enabled: true\nname: yaml\n")

	cfg := &testConfig{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.addFlags(fs)
	require.NoError(t, fs.Parse(nil))

	require.NoError(t, newLoader(path).LoadConfigWithFlagSet(cfg, fs))
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "yaml", cfg.Name)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("TESTAPP_NESTED_ADDRESS", "from-env")
	t.Setenv("TESTAPP_COUNT", "4")

	cfg := &testConfig{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.addFlags(fs)
	require.NoError(t, fs.Parse([]string{"--count", "5"}))

	loader := newLoader("")
	loader.SetEnvPrefix("TESTAPP")
	require.NoError(t, loader.LoadConfigWithFlagSet(cfg, fs))
	assert.Equal(t, "from-env", cfg.Nested.Address)
	assert.Equal(t, 5, cfg.Count, "flag overrides environment")
}

func TestLoadConfig_StrictMode(t *testing.T) {
	path := writeFile(t, "config.toml", "name = \"x\"\nbogus = 1\n")

	cfg := &testConfig{}
	loader := newLoader(path)
	loader.SetStrictMode(true)
	err := loader.LoadConfigWithFlagSet(cfg, nil)
	assert.ErrorIs(t, err, ErrConfigUnmarshal)

	loader.SetStrictMode(false)
	assert.NoError(t, loader.LoadConfigWithFlagSet(cfg, nil))
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := writeFile(t, "config.toml", "name = [unterminated\n")

	err := newLoader(path).LoadConfigWithFlagSet(&testConfig{}, nil)
	assert.ErrorIs(t, err, ErrConfigFileRead)
}

func TestResolveConfigFile(t *testing.T) {
	existing := writeFile(t, "lutronctl.toml", "")
	missing := filepath.Join(t.TempDir(), "missing.toml")

	tests := []struct {
		name        string
		path        string
		defaultPath string
		expected    string
		err         error
	}{
		{"empty", "", missing, "", nil},
		{"existing", existing, missing, existing, nil},
		{"missing default", missing, missing, "", nil},
		{"missing explicit", missing, existing, "", ErrConfigFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := ResolveConfigFile(tt.path, tt.defaultPath)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}
