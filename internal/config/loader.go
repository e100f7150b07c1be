package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configurable represents a type that can be configured via flags and config files.
type Configurable interface {
	// AddFlags should add command-line flags to the provided FlagSet
	AddFlags(fs *pflag.FlagSet)
}

// ConfigLoader provides common configuration loading functionality.
type ConfigLoader struct {
	configFile string
	envPrefix  string
	defaults   map[string]any
	strictMode bool
}

// NewConfigLoader creates a new ConfigLoader instance.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		defaults: make(map[string]any),
	}
}

// SetConfigFile sets the configuration file path. An empty path loads no file.
func (cl *ConfigLoader) SetConfigFile(configFile string) {
	cl.configFile = configFile
}

// SetEnvPrefix enables environment overrides: with prefix LUTRONCTL the key
// repeater.address is read from LUTRONCTL_REPEATER_ADDRESS.
func (cl *ConfigLoader) SetEnvPrefix(prefix string) {
	cl.envPrefix = prefix
}

// SetDefault sets a default value for a configuration key.
func (cl *ConfigLoader) SetDefault(key string, value any) {
	cl.defaults[key] = value
}

// SetDefaults sets multiple default values at once.
func (cl *ConfigLoader) SetDefaults(defaults map[string]any) {
	for key, value := range defaults {
		cl.defaults[key] = value
	}
}

// SetStrictMode enables or disables strict mode for configuration validation.
// In strict mode, unknown configuration fields will cause an error.
func (cl *ConfigLoader) SetStrictMode(strict bool) {
	cl.strictMode = strict
}

// LoadConfigWithFlagSet loads configuration with proper precedence:
// defaults < config file < environment < explicit flags in fs.
// The config parameter should be a pointer to the configuration struct to populate.
func (cl *ConfigLoader) LoadConfigWithFlagSet(config any, fs *pflag.FlagSet) error {
	v := viper.New()

	for key, value := range cl.defaults {
		v.SetDefault(key, value)
	}

	if cl.configFile != "" {
		v.SetConfigFile(cl.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w %s: %v", ErrConfigFileRead, cl.configFile, err)
		}
	}

	if cl.envPrefix != "" {
		v.SetEnvPrefix(cl.envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		for key := range cl.defaults {
			v.BindEnv(key) //nolint:errcheck
		}
	}

	// Only override with flags that were explicitly set by the user
	if fs != nil {
		fs.Visit(func(flag *pflag.Flag) {
			v.Set(flagKey(flag), flagValue(flag))
		})
	}

	decoderConfig := &mapstructure.DecoderConfig{
		Result:           config,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      cl.strictMode,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return fmt.Errorf("%w: failed to create decoder: %v", ErrConfigUnmarshal, err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		if cl.configFile != "" {
			return fmt.Errorf("%w: %s: %v", ErrConfigUnmarshal, cl.configFile, err)
		}
		return fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	return nil
}

// LoadConfig loads configuration using flags from pflag.CommandLine.
func (cl *ConfigLoader) LoadConfig(config any) error {
	return cl.LoadConfigWithFlagSet(config, pflag.CommandLine)
}

// ResolveConfigFile decides which config file to load. An explicit path
// must exist; a missing default path is ignored.
func ResolveConfigFile(path, defaultPath string) (string, error) {
	if path == "" {
		return "", nil
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return path, nil
	case os.IsNotExist(err) && path == defaultPath:
		return "", nil
	case os.IsNotExist(err):
		return "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	default:
		return "", fmt.Errorf("%w %s: %v", ErrConfigFileRead, path, err)
	}
}

// flagKey converts flag names to viper keys: hyphens in the last path
// element are kept, so --repeater.address maps to repeater.address and
// --device-db maps to device-db.
func flagKey(flag *pflag.Flag) string {
	if ann, ok := flag.Annotations[KeyAnnotation]; ok && len(ann) > 0 {
		return ann[0]
	}
	return flag.Name
}

// flagValue returns the typed value of a flag rather than its string form.
func flagValue(flag *pflag.Flag) any {
	s := flag.Value.String()
	switch flag.Value.Type() {
	case "uint", "uint8", "uint16", "uint32", "uint64":
		if val, err := strconv.ParseUint(s, 10, 64); err == nil {
			return val
		}
	case "int", "int8", "int16", "int32", "int64":
		if val, err := strconv.ParseInt(s, 10, 64); err == nil {
			return val
		}
	case "bool":
		if val, err := strconv.ParseBool(s); err == nil {
			return val
		}
	case "float32", "float64":
		if val, err := strconv.ParseFloat(s, 64); err == nil {
			return val
		}
	case "stringSlice", "intSlice":
		if sliceFlag, ok := flag.Value.(pflag.SliceValue); ok {
			return sliceFlag.GetSlice()
		}
	}
	return s
}

// KeyAnnotation names the flag annotation that maps a flag onto a
// differently named config key.
const KeyAnnotation = "config-key"

// BindKey makes the named flag set the given config key instead of a key
// named after the flag.
func BindKey(fs *pflag.FlagSet, flagName, key string) error {
	return fs.SetAnnotation(flagName, KeyAnnotation, []string{key})
}
