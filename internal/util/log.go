package util

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates the structured logger used by the engine.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          AppName,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

// ParseLogLevel parses a level name, falling back to info for empty input.
func ParseLogLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(s)
}
