// Package config loads habitlens settings from a TOML file, an optional .env
// file and HABITLENS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/keyring"
	"github.com/julianstephens/habitlens/internal/utils"
)

// KeyringDatabase as the database value reads the connection string from the OS keyring.
const KeyringDatabase = "keyring"

// Config is the on-disk configuration.
type Config struct {
	// Database is a SQLite path, a PostgreSQL URL or DSN without a password,
	// or "keyring".
	Database string `toml:"database" comment:"SQLite file path, PostgreSQL URL without password, or \"keyring\""`
	Timezone string `toml:"timezone" comment:"IANA timezone used to decide what \"today\" is"`
	Debug    bool   `toml:"debug"`
}

// Default returns the configuration written on first run.
func Default(configDir string) *Config {
	return &Config{
		Database: filepath.Join(configDir, constants.DefaultDBFile),
		Timezone: constants.DefaultTimezone,
	}
}

// Manager handles configuration loading, validation, and generation
type Manager struct {
	configPath string
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// Load reads the config at path, or the default path when empty. A missing
// file is generated from defaults. Environment variables, including those
// from a .env file beside the config, override file values.
func (m *Manager) Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile)
	}
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	m.configPath = path
	dir := filepath.Dir(path)

	cfg := Default(dir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := m.saveToFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	} else if err := m.loadFromFile(cfg, path); err != nil {
		return nil, err
	}

	if err := loadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (m *Manager) loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (m *Manager) saveToFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// ConfigDir is the directory holding the config file, logs and the default database.
func (m *Manager) ConfigDir() string {
	return filepath.Dir(m.configPath)
}

// loadDotEnv never overrides variables that are already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(constants.EnvDatabase)); v != "" {
		cfg.Database = v
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvTimezone)); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvDebug)); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", constants.EnvDebug, v, err)
		}
		cfg.Debug = debug
	}
	return nil
}

func validate(cfg *Config) error {
	var problems []string
	if strings.TrimSpace(cfg.Database) == "" {
		problems = append(problems, "database cannot be empty")
	}
	if !utils.ValidateTimezone(cfg.Timezone) {
		problems = append(problems, fmt.Sprintf("invalid timezone: %s", cfg.Timezone))
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// ResolveDatabase returns the storage target. trusted is true when the value
// came from the keyring and so may legitimately contain a password.
func (c *Config) ResolveDatabase() (target string, trusted bool, err error) {
	if strings.EqualFold(strings.TrimSpace(c.Database), KeyringDatabase) {
		connStr, err := keyring.ConnectionString()
		if err != nil {
			return "", false, fmt.Errorf("failed to read database from keyring: %w", err)
		}
		return connStr, true, nil
	}
	target, err = ExpandPath(c.Database)
	return target, false, err
}

// ExpandPath expands ~ in file paths to the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
