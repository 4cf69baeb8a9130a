/*
Package logx provides a structured logging wrapper based on zerolog.

It initializes the global logger, selects the output format (console for
development, JSON otherwise), and exposes unified helpers for the common
logging levels.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger initializes the global zerolog instance.
// Development gets Debug level with a colored console writer; production gets
// Info level JSON. All logs carry a Unix timestamp and caller information.
func InitGlobalLogger(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// Logger returns a pointer to the global zerolog.Logger instance. Components
// derive their child loggers from it (With().Str("component", ...)).
func Logger() *zerolog.Logger {
	return &log.Logger
}

// evenFields drops the variadic field list when it is not an even number of
// key-value pairs, so zerolog never panics on a malformed call site.
func evenFields(fields []any) []any {
	if len(fields)%2 != 0 {
		Logger().Warn().Int("fields_count", len(fields)).Msg("Logx call received odd number of fields. Fields ignored.")
		return nil
	}
	return fields
}

// Debug records a log message at the Debug level with optional key-value fields.
func Debug(msg string, fields ...any) {
	Logger().Debug().Fields(evenFields(fields)).CallerSkipFrame(1).Msg(msg)
}

// Info records a log message at the Info level with optional key-value fields.
func Info(msg string, fields ...any) {
	Logger().Info().Fields(evenFields(fields)).CallerSkipFrame(1).Msg(msg)
}

// Warn records a log message at the Warn level with optional key-value fields.
func Warn(msg string, fields ...any) {
	Logger().Warn().Fields(evenFields(fields)).CallerSkipFrame(1).Msg(msg)
}

// Error records a log message at the Error level with the causing error and
// optional key-value fields.
func Error(err error, msg string, fields ...any) {
	Logger().Error().Err(err).Fields(evenFields(fields)).CallerSkipFrame(1).Msg(msg)
}

// Fatal records a log message at the Fatal level and terminates the process.
func Fatal(err error, msg string, fields ...any) {
	Logger().Fatal().Err(err).Fields(evenFields(fields)).CallerSkipFrame(1).Msg(msg)
}
