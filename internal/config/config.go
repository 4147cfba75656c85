// Package config resolves habitgrid settings from defaults, the YAML config
// file, a .env file and the environment. Command-line flags are applied on
// top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// Config holds all habitgrid configuration.
type Config struct {
	// Store is a data file path (.json, .db, .sqlite), a postgres:// URL or
	// "postgres" to read the connection string from the environment or keyring.
	Store    string `yaml:"store"`
	Timezone string `yaml:"timezone"`
	Debug    bool   `yaml:"debug"`

	// PersistEmpty writes empty collections instead of skipping them.
	PersistEmpty bool `yaml:"persist_empty"`

	Backups BackupConfig `yaml:"backups"`

	// DBConnection only comes from the environment; secrets stay out of
	// the config file.
	DBConnection string `yaml:"-"`
}

// BackupConfig configures data-file snapshots.
type BackupConfig struct {
	Max int `yaml:"max"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Store:    constants.DefaultStorePath,
		Timezone: constants.DefaultTimezone,
		Backups: BackupConfig{
			Max: constants.MaxBackups,
		},
	}
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(ExpandPath(constants.DefaultConfigDir), constants.ConfigFileName)
}

// Load reads the YAML file at path, then the optional .env file, then the
// environment. A missing config or .env file is not an error.
func Load(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// godotenv never overrides variables already set in the environment.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.Store = ExpandPath(cfg.Store)

	return cfg, nil
}

// Save writes the file-backed settings to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(constants.EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(constants.EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(constants.EnvDBConnection); v != "" {
		c.DBConnection = v
	}

	for name, dst := range map[string]*bool{
		constants.EnvDebug:        &c.Debug,
		constants.EnvPersistEmpty: &c.PersistEmpty,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", name, v, err)
		}
		*dst = b
	}

	if v := os.Getenv(constants.EnvMaxBackups); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", constants.EnvMaxBackups, v, err)
		}
		c.Backups.Max = n
	}
	return nil
}

// Validate checks settings that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("store must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", c.Timezone)
	}
	if c.Backups.Max < 1 {
		return fmt.Errorf("backups.max must be at least 1, got %d", c.Backups.Max)
	}
	return nil
}

// ConfigDir returns the directory holding logs and the default data file.
func (c *Config) ConfigDir() string {
	return ExpandPath(constants.DefaultConfigDir)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
