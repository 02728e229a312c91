// Package logging builds the zap loggers used across the localizer.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel is consulted when no level is given explicitly.
const EnvLevel = "LOCALIZE_LOG_LEVEL"

// ParseLevel maps a level name to a zap level. Unknown or empty names
// mean info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// New returns a production logger at the given level, falling back to
// $LOCALIZE_LOG_LEVEL when level is empty.
func New(level string) (*zap.SugaredLogger, error) {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}
