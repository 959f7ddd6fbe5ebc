package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// base is swapped whole so Init and SetOutput are safe while other
// goroutines log.
var base atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	base.Store(&l)
}

// Init configures the process-wide JSON logger. An unknown level falls back
// to info.
func Init(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(os.Stdout).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	base.Store(&l)
	l.Info().Msg("logger initialized")
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	l := base.Load().Output(w)
	base.Store(&l)
}

// Base exposes the underlying zerolog logger for middleware.
func Base() zerolog.Logger {
	return *base.Load()
}

func parseLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func Debug(msg string, fields map[string]any) {
	base.Load().Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	base.Load().Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	base.Load().Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	base.Load().Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	base.Load().WithLevel(zerolog.FatalLevel).Fields(fields).Msg(msg)
	os.Exit(1)
}
