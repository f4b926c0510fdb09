package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	// DBPath is the location of the SQLite database file.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// UserID is the owner recorded on imported transactions.
	UserID string `mapstructure:"user_id" yaml:"user_id"`

	// LogLevel is the zerolog level name ("debug", "info", "warn").
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Brokerage is the name recorded on transactions imported from
	// email. One brokerage email format is currently supported.
	Brokerage string `mapstructure:"brokerage" yaml:"brokerage"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/portfolio/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "portfolio", "config.yaml")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	dbPath := "portfolio.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".config", "portfolio", "portfolio.db")
	}
	return &Config{
		DBPath:    dbPath,
		UserID:    "default",
		LogLevel:  "info",
		Brokerage: "Wealthsimple",
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultConfig()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("user_id", defaults.UserID)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("brokerage", defaults.Brokerage)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the given configuration to a YAML file at path, creating
// parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("user_id", cfg.UserID)
	v.Set("log_level", cfg.LogLevel)
	v.Set("brokerage", cfg.Brokerage)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
