package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"gitlab.com/dirk.krummacker/addressbook/internal/logger"
	"gitlab.com/dirk.krummacker/addressbook/internal/page"
	"gitlab.com/dirk.krummacker/addressbook/internal/store"
)

// Config is everything the address book can be configured with.
type Config struct {
	Storage  store.Options  `mapstructure:"storage"   yaml:"storage"`
	PageSize int            `mapstructure:"page_size" yaml:"page_size"`
	Log      logger.Options `mapstructure:"log"       yaml:"log"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"storage":    "storage.path",
	"driver":     "storage.driver",
	"dsn":        "storage.dsn",
	"page-size":  "page_size",
	"log-level":  "log.level",
	"log-file":   "log.file",
	"log-format": "log.format",
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() *Config {
	return &Config{
		Storage: store.Options{
			Driver: store.DriverFile,
			Path:   store.DefaultPath,
		},
		PageSize: page.DefaultSize,
		Log: logger.Options{
			Level:  "warn",
			Format: "text",
		},
	}
}

func configDirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "addressbook"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "addressbook"))
	}
	return dirs
}

// Load builds the configuration from defaults, an optional config file, ADDRESSBOOK_* environment
// variables and flags, in increasing order of priority. If path is empty the file addressbook.yaml
// is searched for; not finding it is fine. Flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	defaults := DefaultConfig()
	v := viper.New()
	v.SetDefault("storage.driver", defaults.Storage.Driver)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.dsn", defaults.Storage.DSN)
	v.SetDefault("page_size", defaults.PageSize)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.format", defaults.Log.Format)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("addressbook")
		v.SetConfigType("yaml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	// Environment variables
	v.SetEnvPrefix("ADDRESSBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
		// No config file; defaults, environment and flags apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("config: page_size must be positive (got %d)", c.PageSize)
	}
	switch c.Storage.Driver {
	case store.DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("config: storage.path is required for driver %q", store.DriverFile)
		}
	case store.DriverMySQL:
		if c.Storage.DSN == "" {
			return fmt.Errorf("config: storage.dsn is required for driver %q", store.DriverMySQL)
		}
		if _, err := mysql.ParseDSN(c.Storage.DSN); err != nil {
			return fmt.Errorf("config: invalid storage.dsn: %w", err)
		}
	default:
		return fmt.Errorf("config: storage.driver %q is invalid (must be %s or %s)",
			c.Storage.Driver, store.DriverFile, store.DriverMySQL)
	}
	return nil
}

// Write saves the configuration as YAML. An existing file is not overwritten.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, errWrite := file.Write(data)
	errClose := file.Close()
	return errors.Join(errWrite, errClose)
}
