// Package daemon manages the lernpfad daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lernpfad/lernpfad/internal/app/curriculum"
	"github.com/lernpfad/lernpfad/internal/app/engagement"
	"github.com/lernpfad/lernpfad/internal/infra/clock"
)

// Config holds all daemon configuration.
type Config struct {
	API        APIConfig         `toml:"api"`
	Storage    StorageConfig     `toml:"storage"`
	Clock      ClockConfig       `toml:"clock"`
	Engagement engagement.Config `toml:"engagement"`
	Curriculum CurriculumConfig  `toml:"curriculum"`
	Logging    LoggingConfig     `toml:"logging"`
	Telemetry  TelemetryConfig   `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig selects and configures the state store.
type StorageConfig struct {
	Driver        string `toml:"driver"` // sqlite | redis | postgres
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	PostgresDSN   string `toml:"postgres_dsn"`
	KeyPrefix     string `toml:"key_prefix"`
}

// ClockConfig sets the location "today" is computed in.
type ClockConfig struct {
	Timezone string `toml:"timezone"`
}

// CurriculumConfig controls VUCA completion.
type CurriculumConfig struct {
	CompletionThreshold int `toml:"completion_threshold"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxFiles   int    `toml:"max_files"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := lernpfadHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8420,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Driver:    "sqlite",
			Dir:       homeDir,
			RedisAddr: "localhost:6379",
			KeyPrefix: "lernpfad:",
		},
		Clock: ClockConfig{
			Timezone: clock.DefaultTimezone,
		},
		Engagement: engagement.DefaultConfig(),
		Curriculum: CurriculumConfig{
			CompletionThreshold: curriculum.DefaultThreshold,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       filepath.Join(homeDir, "lernpfad.log"),
			MaxSizeMB:  50,
			MaxFiles:   5,
			MaxAgeDays: 30,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from $LERNPFAD_HOME/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	return LoadConfigFile(filepath.Join(lernpfadHome(), "config.toml"))
}

// LoadConfigFile reads config from path, falling back to defaults when
// the file does not exist.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Decoding merges into the default rewards map; [[engagement.levels]]
	// replaces the default table.
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the parts of the config the daemon cannot start without.
func (c Config) Validate() error {
	if err := c.Engagement.Validate(); err != nil {
		return fmt.Errorf("engagement: %w", err)
	}
	if c.Curriculum.CompletionThreshold < 0 || c.Curriculum.CompletionThreshold > 100 {
		return fmt.Errorf("curriculum: completion_threshold %d outside 0..100", c.Curriculum.CompletionThreshold)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api: port %d out of range", c.API.Port)
	}
	return nil
}

// SaveConfig writes the config to $LERNPFAD_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(lernpfadHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// lernpfadHome returns the lernpfad data directory.
func lernpfadHome() string {
	if env := os.Getenv("LERNPFAD_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lernpfad")
}

// Home is exported for use by other packages.
func Home() string {
	return lernpfadHome()
}
