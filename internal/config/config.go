package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
	defaultMaxRosterUnits = 10_000
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > config file > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	LogLevel             string
	MaxRosterUnits       int
	DefaultProfile       storage.Profile
}

// fileConfig represents the YAML/TOML configuration file structure.
type fileConfig struct {
	Port                 string        `yaml:"port" toml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period" toml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout" toml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging" toml:"enable_request_logging"`
	LogLevel             string        `yaml:"log_level" toml:"log_level"`
	MaxRosterUnits       *int          `yaml:"max_roster_units" toml:"max_roster_units"`
	RateLimit            fileRateLimit `yaml:"rate_limit" toml:"rate_limit"`
	Layout               fileLayout    `yaml:"layout" toml:"layout"`
}

// fileRateLimit represents the rate limit section.
type fileRateLimit struct {
	RPS   *float64 `yaml:"rps" toml:"rps"`
	Burst *int     `yaml:"burst" toml:"burst"`
}

// fileLayout represents the default layout profile section.
type fileLayout struct {
	AreaWidth  *float64 `yaml:"area_width" toml:"area_width"`
	AreaHeight *float64 `yaml:"area_height" toml:"area_height"`
	ItemWidth  *float64 `yaml:"item_width" toml:"item_width"`
	ItemHeight *float64 `yaml:"item_height" toml:"item_height"`
	MarginX    *float64 `yaml:"margin_x" toml:"margin_x"`
	MarginY    *float64 `yaml:"margin_y" toml:"margin_y"`
	MinRows    *int     `yaml:"min_rows" toml:"min_rows"`
	MinColumns *int     `yaml:"min_columns" toml:"min_columns"`
	MaxRows    *int     `yaml:"max_rows" toml:"max_rows"`
	MaxColumns *int     `yaml:"max_columns" toml:"max_columns"`
	DirectionX string   `yaml:"direction_x" toml:"direction_x"`
	DirectionY string   `yaml:"direction_y" toml:"direction_y"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	LogLevel       *string
	MaxRosterUnits *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > config file > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables first so the file can override them
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		fileCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		if err := applyFileConfig(&cfg, fileCfg); err != nil {
			return Config{}, fmt.Errorf("apply config file: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		LogLevel:             defaultLogLevel,
		MaxRosterUnits:       defaultMaxRosterUnits,
		DefaultProfile:       storage.DefaultProfile(),
	}
}

// loadFromFile decodes a YAML or TOML file, chosen by extension.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	return &fileCfg, nil
}

// applyFileConfig applies file configuration to the Config struct.
func applyFileConfig(cfg *Config, fileCfg *fileConfig) error {
	if fileCfg.Port != "" {
		cfg.Port = fileCfg.Port
	}

	applyDuration(&cfg.ShutdownGracePeriod, fileCfg.ShutdownGracePeriod)
	applyDuration(&cfg.ReadHeaderTimeout, fileCfg.ReadHeaderTimeout)
	applyDuration(&cfg.WriteTimeout, fileCfg.WriteTimeout)
	applyDuration(&cfg.IdleTimeout, fileCfg.IdleTimeout)

	if fileCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *fileCfg.EnableRequestLogging
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}

	if fileCfg.MaxRosterUnits != nil {
		cfg.MaxRosterUnits = *fileCfg.MaxRosterUnits
	}

	if fileCfg.RateLimit.RPS != nil && *fileCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *fileCfg.RateLimit.RPS
	}

	if fileCfg.RateLimit.Burst != nil && *fileCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *fileCfg.RateLimit.Burst
	}

	return applyLayout(&cfg.DefaultProfile, fileCfg.Layout)
}

// applyLayout overlays the set fields of the layout section onto profile.
func applyLayout(profile *storage.Profile, l fileLayout) error {
	setFloat(&profile.Area.Width, l.AreaWidth)
	setFloat(&profile.Area.Height, l.AreaHeight)
	setFloat(&profile.Item.Width, l.ItemWidth)
	setFloat(&profile.Item.Height, l.ItemHeight)
	setFloat(&profile.MarginX, l.MarginX)
	setFloat(&profile.MarginY, l.MarginY)
	setInt(&profile.MinRows, l.MinRows)
	setInt(&profile.MinColumns, l.MinColumns)
	setInt(&profile.MaxRows, l.MaxRows)
	setInt(&profile.MaxColumns, l.MaxColumns)

	if l.DirectionX != "" {
		dx, err := layout.ParseDirectionX(l.DirectionX)
		if err != nil {
			return err
		}
		profile.DirectionX = dx
	}
	if l.DirectionY != "" {
		dy, err := layout.ParseDirectionY(l.DirectionY)
		if err != nil {
			return err
		}
		profile.DirectionY = dy
	}
	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if units := strings.TrimSpace(os.Getenv("MAX_ROSTER_UNITS")); units != "" {
		if value, err := strconv.Atoi(units); err == nil && value > 0 {
			cfg.MaxRosterUnits = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.MaxRosterUnits != nil && *overrides.MaxRosterUnits > 0 {
		cfg.MaxRosterUnits = *overrides.MaxRosterUnits
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if cfg.MaxRosterUnits <= 0 {
		return fmt.Errorf("max roster units must be positive")
	}
	if err := cfg.DefaultProfile.Validate(); err != nil {
		return fmt.Errorf("default layout: %w", err)
	}
	return nil
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
