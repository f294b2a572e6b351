package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration loaded from YAML
type Config struct {
	Addr           string        `yaml:"addr"`
	StaticDir      string        `yaml:"static_dir"`
	PublicURL      string        `yaml:"public_url"`
	TickIntervalMs int           `yaml:"tick_interval_ms"`
	Grid           GridConfig    `yaml:"grid"`
	Terrain        TerrainConfig `yaml:"terrain"`
	DBPath         string        `yaml:"db_path"`
	JournalDir     string        `yaml:"journal_dir"`
	Auth           AuthConfig    `yaml:"auth"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	Limits         LimitsConfig  `yaml:"limits"`
}

// GridConfig sizes the map
type GridConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// TerrainConfig selects how rocks are laid out
type TerrainConfig struct {
	Mode    string  `yaml:"mode"`
	Seed    int64   `yaml:"seed"`
	Density float64 `yaml:"density"`
}

// AuthConfig holds token and admin credentials. An empty JWT secret means one
// is generated and persisted in the database.
type AuthConfig struct {
	JWTSecret         string `yaml:"jwt_secret"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// LimitsConfig bounds connections and inbound message rate
type LimitsConfig struct {
	MaxConnsPerIP     int `yaml:"max_conns_per_ip"`
	MaxTotalConns     int `yaml:"max_total_conns"`
	MaxMessagesPerSec int `yaml:"max_messages_per_sec"`
}

// DefaultConfig is the classic 24x16 map at two ticks per second
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		StaticDir:      "../client",
		TickIntervalMs: int(DefaultTickInterval / time.Millisecond),
		Grid:           GridConfig{Columns: 24, Rows: 16},
		Terrain:        TerrainConfig{Mode: TerrainClassic, Density: 0.25},
		LogLevel:       "info",
		LogFormat:      "console",
		Limits: LimitsConfig{
			MaxConnsPerIP:     5,
			MaxTotalConns:     1000,
			MaxMessagesPerSec: 50,
		},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, cfg.Validate()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Terrain.Mode = strings.ToLower(strings.TrimSpace(cfg.Terrain.Mode))
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the world cannot run with
func (c Config) Validate() error {
	if c.Grid.Columns < 6 || c.Grid.Rows < 6 {
		return fmt.Errorf("grid %dx%d is smaller than 6x6", c.Grid.Columns, c.Grid.Rows)
	}
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs)
	}
	switch c.Terrain.Mode {
	case "", TerrainClassic, TerrainPerlin:
	default:
		return fmt.Errorf("unknown terrain mode %q", c.Terrain.Mode)
	}
	if c.Terrain.Density < 0 || c.Terrain.Density > 0.5 {
		return fmt.Errorf("terrain density %.2f out of range [0, 0.5]", c.Terrain.Density)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// TickInterval is the configured tick period
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}
