// Package log provides structured logging for the client engine.
// Logging is process-wide state: initialize once at startup, before any
// engine call; the default is a silent-by-info console logger so that
// library embedders who never call Init still get sane output.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Component loggers for the engine's subsystems.
var (
	Wallet  zerolog.Logger
	Tx      zerolog.Logger
	RPC     zerolog.Logger
	Enclave zerolog.Logger
	FFI     zerolog.Logger
	Storage zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stderr, "info")
	initComponentLoggers()
}

// Init initializes the global logger. jsonOutput selects machine-parse
// JSON over the colored console format.
func Init(level string, jsonOutput bool) {
	if jsonOutput {
		Logger = NewJSONLogger(os.Stderr, level)
	} else {
		Logger = NewConsoleLogger(os.Stderr, level)
	}
	initComponentLoggers()
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}
	return zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func initComponentLoggers() {
	Wallet = Logger.With().Str("component", "wallet").Logger()
	Tx = Logger.With().Str("component", "tx").Logger()
	RPC = Logger.With().Str("component", "rpc").Logger()
	Enclave = Logger.With().Str("component", "enclave").Logger()
	FFI = Logger.With().Str("component", "ffi").Logger()
	Storage = Logger.With().Str("component", "storage").Logger()
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
