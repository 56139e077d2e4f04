// Package log builds the zap loggers used across robosim.
package log

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level and encoding of a logger.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// New builds a logger writing to stderr. Format is "json" or "console".
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "log level %q", cfg.Level)
		}
		level = l
	}

	var encoderConfig zapcore.EncoderConfig
	format := strings.ToLower(cfg.Format)
	switch format {
	case "", "console":
		format = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	case "json":
		encoderConfig = zap.NewProductionEncoderConfig()
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.Format)
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}

// Must is New for callers that cannot continue without a logger.
func Must(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return l
}
