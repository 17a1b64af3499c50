// Package logger builds the [bullets.Logger] instances repoherd logs with.
//
// Loggers write to stderr, so batch reports on stdout stay clean for piping.
package logger

import (
	"os"

	"github.com/sgaunet/bullets"
)

// levels maps the --log-level flag values to bullets levels.
var levels = map[string]bullets.Level{
	"debug": bullets.DebugLevel,
	"info":  bullets.InfoLevel,
	"warn":  bullets.WarnLevel,
	"error": bullets.ErrorLevel,
}

// NewLogger creates a stderr logger at the named level. Unknown names fall
// back to info.
func NewLogger(logLevel string) *bullets.Logger {
	level, ok := levels[logLevel]
	if !ok {
		level = bullets.InfoLevel
	}

	log := bullets.New(os.Stderr)
	log.SetLevel(level)
	return log
}

// NoLogger creates a logger that suppresses everything below fatal. Used by
// tests and wherever a logger is required but output is not wanted.
func NoLogger() *bullets.Logger {
	log := bullets.New(os.Stderr)
	log.SetLevel(bullets.FatalLevel)
	return log
}
