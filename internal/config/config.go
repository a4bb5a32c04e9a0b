// Package config provides Viper-based configuration loading for the door game.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/doorgame/internal/game/activity"
	"github.com/cory-johannsen/doorgame/internal/game/character"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds rule tunables for the movement and combat engines.
type GameConfig struct {
	// ActiveWindow is how long after arriving a character still counts as present.
	ActiveWindow time.Duration `mapstructure:"active_window"`
	// IdleWindow is the age after which a present character is idle.
	IdleWindow time.Duration `mapstructure:"idle_window"`
	// LockTimeout bounds how long an operation waits for character locks.
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	// MaxFights and MaxHumanFights are the turn resources a new or reset character gets.
	MaxFights      int `mapstructure:"max_fights"`
	MaxHumanFights int `mapstructure:"max_human_fights"`
	// FairStrengthGap and FairLevelGap bound how much stronger an attacker may be.
	FairStrengthGap int `mapstructure:"fair_strength_gap"`
	FairLevelGap    int `mapstructure:"fair_level_gap"`
	// EnforceHumanFights rejects attacks once HumanFightsLeft reaches zero.
	EnforceHumanFights bool `mapstructure:"enforce_human_fights"`
	// InboxRetention is how long viewed inbox entries are kept.
	InboxRetention time.Duration `mapstructure:"inbox_retention"`
	// InboxLimit is how many entries one inbox read returns.
	InboxLimit int `mapstructure:"inbox_limit"`
	// Seed, when non-zero, makes combat rolls reproducible.
	Seed uint64 `mapstructure:"seed"`
}

// Windows returns the status thresholds.
func (g GameConfig) Windows() character.Windows {
	return character.Windows{Active: g.ActiveWindow, Idle: g.IdleWindow}
}

// Limits returns the turn resource maxima.
func (g GameConfig) Limits() character.Limits {
	return character.Limits{Fights: g.MaxFights, HumanFights: g.MaxHumanFights}
}

// InboxPolicy returns the inbox retention policy.
func (g GameConfig) InboxPolicy() activity.Policy {
	return activity.Policy{Retention: g.InboxRetention, Limit: g.InboxLimit}
}

// ContentConfig locates authored content on disk.
type ContentConfig struct {
	// MapsDir holds world grid YAML files.
	MapsDir string `mapstructure:"maps_dir"`
	// CatalogDir holds weapon, armor, terrain and monster YAML files.
	CatalogDir string `mapstructure:"catalog_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Content  ContentConfig  `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.ActiveWindow <= 0 {
		errs = append(errs, "game.active_window must be positive")
	}
	if g.IdleWindow <= 0 {
		errs = append(errs, "game.idle_window must be positive")
	}
	if g.IdleWindow > g.ActiveWindow {
		errs = append(errs, "game.idle_window must not exceed game.active_window")
	}
	if g.LockTimeout <= 0 {
		errs = append(errs, "game.lock_timeout must be positive")
	}
	if g.MaxFights < 1 || g.MaxHumanFights < 1 {
		errs = append(errs, "game.max_fights and game.max_human_fights must be >= 1")
	}
	if g.FairStrengthGap < 0 {
		errs = append(errs, fmt.Sprintf("game.fair_strength_gap must be >= 0, got %d", g.FairStrengthGap))
	}
	if g.FairLevelGap < 0 {
		errs = append(errs, fmt.Sprintf("game.fair_level_gap must be >= 0, got %d", g.FairLevelGap))
	}
	if g.InboxRetention < 0 {
		errs = append(errs, "game.inbox_retention must not be negative")
	}
	if g.InboxLimit < 1 {
		errs = append(errs, fmt.Sprintf("game.inbox_limit must be >= 1, got %d", g.InboxLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.MapsDir == "" {
		return errors.New("content.maps_dir must not be empty")
	}
	if c.CatalogDir == "" {
		return errors.New("content.catalog_dir must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DOOR_ prefix
	v.SetEnvPrefix("DOOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "door")
	v.SetDefault("database.password", "door")
	v.SetDefault("database.name", "door")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.active_window", "10m")
	v.SetDefault("game.idle_window", "5m")
	v.SetDefault("game.lock_timeout", "2s")
	v.SetDefault("game.max_fights", character.MaxFights)
	v.SetDefault("game.max_human_fights", character.MaxHumanFights)
	v.SetDefault("game.fair_strength_gap", 50)
	v.SetDefault("game.fair_level_gap", 5)
	v.SetDefault("game.enforce_human_fights", true)
	v.SetDefault("game.inbox_retention", "10m")
	v.SetDefault("game.inbox_limit", 10)
	v.SetDefault("game.seed", 0)

	v.SetDefault("content.maps_dir", "content/maps")
	v.SetDefault("content.catalog_dir", "content/catalog")
}
