package lutronctl

import (
	"fmt"
	"os"

	"github.com/larsks/lutronctl/internal/controllers"
	"github.com/larsks/lutronctl/internal/devicedb"
	"github.com/spf13/pflag"
)

// ValidateConfigFile loads configFile with strict key checking and checks
// the settings of the selected driver. When checkDB is set the cached
// device database must also exist and parse. It returns a one-line
// summary on success.
func ValidateConfigFile(configFile string, checkDB bool) (string, error) {
	if _, err := os.Stat(configFile); err != nil {
		return "", fmt.Errorf("configuration file %s: %w", configFile, err)
	}

	cfg := NewConfig()
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	cfg.AddFlags(fs)
	cfg.ConfigFile = configFile

	if err := cfg.LoadConfigWithFlagSet(fs); err != nil {
		return "", err
	}

	if err := controllers.ValidateConfig(cfg.Driver, cfg.DriverConfig()); err != nil {
		return "", fmt.Errorf("invalid %s driver settings: %w", cfg.Driver, err)
	}

	if !checkDB {
		return fmt.Sprintf("driver %s", cfg.Driver), nil
	}

	tree, err := devicedb.LoadFile(cfg.DeviceDB)
	if err != nil {
		return "", fmt.Errorf("device database %s: %w", cfg.DeviceDB, err)
	}
	return fmt.Sprintf("driver %s, %s", cfg.Driver, tree), nil
}
