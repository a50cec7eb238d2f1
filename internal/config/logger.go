package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

const appName = "kiranakart"

// NewLogger creates the root logger. Every component derives its own
// sub-logger from it (e.g. logger.With().Str("service", ...)), so the app
// name is stamped once here.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out = zerolog.New(os.Stdout)
	if cfg.Format == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	return out.With().Timestamp().Str("app", appName).Logger()
}
