package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/markjakearzadon/announcements-gobackend/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Debug level or console format selects the
// development encoder, everything else logs JSON.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level := strings.ToLower(cfg.Level)
	format := strings.ToLower(cfg.Format)

	var zapConfig zap.Config
	if level == "debug" || format == "console" || format == "text" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if level != "" {
		if err := zapConfig.Level.UnmarshalText([]byte(level)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Invalid log level '%s', defaulting to 'info'. Error: %v\n", cfg.Level, err)
			zapConfig.Level.SetLevel(zapcore.InfoLevel)
		}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("can't initialize zap logger: %w", err)
	}
	return logger, nil
}
