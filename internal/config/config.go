package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Save store kinds.
const (
	SaveStoreMemory   = "memory"
	SaveStorePostgres = "postgres"
)

// Plugin holds the options recognized by the encounter controller.
type Plugin struct {
	// ShowTrace logs every mutating call on the controller.
	ShowTrace bool `yaml:"show_trace" env:"ENCOUNTERCTL_SHOW_TRACE"`
	// RemainAcrossSaveLoad persists controller state into save data.
	RemainAcrossSaveLoad bool `yaml:"remain_across_save_load" env:"ENCOUNTERCTL_REMAIN_ACROSS_SAVE_LOAD"`
}

// Host holds all configuration for the encounterctl host harness.
type Host struct {
	LogLevel string `yaml:"log_level" env:"ENCOUNTERCTL_LOG_LEVEL"`

	Plugin Plugin `yaml:"plugin"`

	// Table sizes. Index 0 is reserved in both tables, so the usable
	// ids are [1, size-1].
	CommonEventCount int `yaml:"common_event_count" env:"ENCOUNTERCTL_COMMON_EVENT_COUNT"`
	VariableCount    int `yaml:"variable_count" env:"ENCOUNTERCTL_VARIABLE_COUNT"`

	// SaveStore selects where save slots live: "memory" or "postgres".
	SaveStore string `yaml:"save_store" env:"ENCOUNTERCTL_SAVE_STORE"`

	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"ENCOUNTERCTL_DB_HOST"`
	Port     int    `yaml:"port" env:"ENCOUNTERCTL_DB_PORT"`
	User     string `yaml:"user" env:"ENCOUNTERCTL_DB_USER"`
	Password string `yaml:"password" env:"ENCOUNTERCTL_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"ENCOUNTERCTL_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"ENCOUNTERCTL_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultHost returns Host config with sensible defaults.
func DefaultHost() Host {
	return Host{
		LogLevel:         "info",
		CommonEventCount: 21,
		VariableCount:    101,
		SaveStore:        SaveStoreMemory,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "encounterctl",
			Password: "encounterctl",
			DBName:   "encounterctl",
			SSLMode:  "disable",
		},
	}
}

// LoadHost loads host config from a YAML file and applies environment
// overrides on top. If the file doesn't exist, defaults are used.
func LoadHost(path string) (Host, error) {
	cfg := DefaultHost()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks table sizes and the save store kind.
func (h Host) Validate() error {
	if h.CommonEventCount < 1 {
		return fmt.Errorf("common_event_count must be >= 1, got %d", h.CommonEventCount)
	}
	if h.VariableCount < 1 {
		return fmt.Errorf("variable_count must be >= 1, got %d", h.VariableCount)
	}
	switch h.SaveStore {
	case SaveStoreMemory, SaveStorePostgres:
	default:
		return fmt.Errorf("unknown save_store %q", h.SaveStore)
	}
	return nil
}

// ParseLogLevel maps a config string to a slog level. Unknown values
// fall back to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
