package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerMu   sync.RWMutex
	baseLogger zerolog.Logger
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	baseLogger = newLogger(os.Stdout)
}

func newLogger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func SetOutput(w io.Writer) {
	loggerMu.Lock()
	baseLogger = newLogger(w)
	loggerMu.Unlock()
}

func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// L returns the current logger for structured events.
func L() *zerolog.Logger {
	loggerMu.RLock()
	l := baseLogger
	loggerMu.RUnlock()
	return &l
}

// With returns a child logger carrying one extra string field.
func With(key, value string) zerolog.Logger {
	return L().With().Str(key, value).Logger()
}

func Debugf(format string, v ...any) {
	L().Debug().Msgf(format, v...)
}

func Infof(format string, v ...any) {
	L().Info().Msgf(format, v...)
}

func Warnf(format string, v ...any) {
	L().Warn().Msgf(format, v...)
}

func Errorf(format string, v ...any) {
	L().Error().Msgf(format, v...)
}
