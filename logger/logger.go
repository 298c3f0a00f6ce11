package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = New(os.Stderr, zerolog.InfoLevel)
}

// New - консольный логгер с RFC3339 временем
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Setup - установка уровня логирования пакетного логгера ("debug", "info", ...)
func Setup(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		logger.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	logger = logger.Level(lvl)
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// Component - логгер с полем component
func Component(name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
