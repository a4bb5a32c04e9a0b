// Package observability provides structured logging for the door game.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/doorgame/internal/config"
)

// Game is the value of the "game" field on every entry.
const Game = "doorgame"

// NewLogger creates a structured logger for the named component.
//
// Precondition: cfg must have passed config validation; component must be non-empty.
// Postcondition: Every entry carries "game" and "component" fields.
func NewLogger(cfg config.LoggingConfig, component string) (*zap.Logger, error) {
	zapCfg, err := buildConfig(cfg, component)
	if err != nil {
		return nil, err
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// buildConfig maps LoggingConfig onto a zap.Config. json selects the
// production preset, console the development preset with colour levels.
func buildConfig(cfg config.LoggingConfig, component string) (zap.Config, error) {
	if component == "" {
		return zap.Config{}, fmt.Errorf("logger component must not be empty")
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = map[string]interface{}{
		"game":      Game,
		"component": component,
	}
	return zapCfg, nil
}
