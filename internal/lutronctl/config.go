package lutronctl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/larsks/lutronctl/internal/config"
	"github.com/larsks/lutronctl/internal/controllers"
	"github.com/spf13/pflag"
)

const (
	defaultDriver   = "repeater"
	defaultUsername = "lutron"
	defaultPassword = "integration"
	defaultTimeout  = 5 * time.Second
	envPrefix       = "LUTRONCTL"
)

// RepeaterConfig holds the main repeater connection settings
type RepeaterConfig struct {
	Address  string `mapstructure:"address"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MQTTConfig holds the settings for the mqtt driver
type MQTTConfig struct {
	ServerURL   string `mapstructure:"server-url"`
	ClientID    string `mapstructure:"client-id"`
	TopicPrefix string `mapstructure:"topic-prefix"`
}

// Config holds the lutronctl configuration
type Config struct {
	ConfigFile string                 `mapstructure:"config-file"`
	Driver     string                 `mapstructure:"driver"`
	DeviceDB   string                 `mapstructure:"device-db"`
	RefreshDB  bool                   `mapstructure:"refresh-db"`
	SyncLevels bool                   `mapstructure:"sync-levels"`
	Timeout    time.Duration          `mapstructure:"timeout"`
	Repeater   RepeaterConfig         `mapstructure:"repeater"`
	MQTT       MQTTConfig             `mapstructure:"mqtt"`
	Dummy      map[string]interface{} `mapstructure:"dummy"`
}

func getDefaultConfigFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "lutronctl", "lutronctl.toml")
}

func getDefaultDeviceDB() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "lutronctl-DbXmlInfo.xml")
	}
	return filepath.Join(cacheDir, "lutronctl", "DbXmlInfo.xml")
}

func defaults() map[string]any {
	return map[string]any{
		"driver":            defaultDriver,
		"device-db":         getDefaultDeviceDB(),
		"refresh-db":        false,
		"sync-levels":       true,
		"timeout":           defaultTimeout,
		"repeater.address":  "",
		"repeater.username": defaultUsername,
		"repeater.password": defaultPassword,
		"mqtt.server-url":   "",
		"mqtt.client-id":    "lutronctl",
		"mqtt.topic-prefix": "lutron",
	}
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Driver:     defaultDriver,
		DeviceDB:   getDefaultDeviceDB(),
		SyncLevels: true,
		Timeout:    defaultTimeout,
		Repeater: RepeaterConfig{
			Username: defaultUsername,
			Password: defaultPassword,
		},
	}
}

// AddFlags adds command-line flags for all configuration options
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", getDefaultConfigFile(), "Config file to use")
	fs.StringVar(&c.Driver, "driver", c.Driver, fmt.Sprintf("Controller driver (%s)", strings.Join(controllers.ListDrivers(), ", ")))
	fs.StringVar(&c.DeviceDB, "device-db", c.DeviceDB, "Device database cache (.xml or .yaml)")
	fs.BoolVar(&c.RefreshDB, "refresh-db", c.RefreshDB, "Fetch the device database from the repeater even if cached")
	fs.BoolVar(&c.SyncLevels, "sync-levels", c.SyncLevels, "Query output levels from the controller at startup")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Timeout for controller commands")
	fs.StringVar(&c.Repeater.Address, "address", c.Repeater.Address, "Repeater host or host:port")
	fs.StringVar(&c.Repeater.Username, "username", c.Repeater.Username, "Repeater integration login")
	fs.StringVar(&c.Repeater.Password, "password", c.Repeater.Password, "Repeater integration password")
	fs.StringVar(&c.MQTT.ServerURL, "mqtt-server", c.MQTT.ServerURL, "MQTT broker URL (mqtt://host:port)")
	fs.StringVar(&c.MQTT.TopicPrefix, "mqtt-topic-prefix", c.MQTT.TopicPrefix, "MQTT topic prefix for commands")

	for flagName, key := range map[string]string{
		"config":            "config-file",
		"address":           "repeater.address",
		"username":          "repeater.username",
		"password":          "repeater.password",
		"mqtt-server":       "mqtt.server-url",
		"mqtt-topic-prefix": "mqtt.topic-prefix",
	} {
		config.BindKey(fs, flagName, key) //nolint:errcheck
	}
}

// LoadConfigWithFlagSet loads configuration with proper precedence using a custom flag set (for testing)
func (c *Config) LoadConfigWithFlagSet(fs *pflag.FlagSet) error {
	configFile, err := config.ResolveConfigFile(c.ConfigFile, getDefaultConfigFile())
	if err != nil {
		return err
	}

	loader := config.NewConfigLoader()
	loader.SetConfigFile(configFile)
	loader.SetEnvPrefix(envPrefix)
	loader.SetDefaults(defaults())
	loader.SetStrictMode(true)

	if err := loader.LoadConfigWithFlagSet(c, fs); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks that the selected driver has what it needs
func (c *Config) Validate() error {
	switch c.Driver {
	case "repeater":
		if c.Repeater.Address == "" {
			return fmt.Errorf("%w: the repeater driver needs --address", ErrInvalidConfig)
		}
	case "mqtt":
		if c.MQTT.ServerURL == "" {
			return fmt.Errorf("%w: the mqtt driver needs --mqtt-server", ErrInvalidConfig)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// DriverConfig returns the configuration map passed to the controller factory
func (c *Config) DriverConfig() map[string]interface{} {
	switch c.Driver {
	case "repeater":
		return map[string]interface{}{
			"address":  c.Repeater.Address,
			"username": c.Repeater.Username,
			"password": c.Repeater.Password,
			"timeout":  c.Timeout,
		}
	case "mqtt":
		return map[string]interface{}{
			"server-url":   c.MQTT.ServerURL,
			"client-id":    c.MQTT.ClientID,
			"topic-prefix": c.MQTT.TopicPrefix,
			"timeout":      c.Timeout,
		}
	default:
		if c.Dummy == nil {
			return map[string]interface{}{}
		}
		return c.Dummy
	}
}
