// Package logger builds the charmbracelet/log loggers used across talkup.
// The TUI owns the terminal, so the client logs to a file or nowhere.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w with the given prefix.
func New(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           level,
	})
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return New(io.Discard, "", log.FatalLevel)
}

// ToFile opens path for appending and returns a debug-level logger on it.
// The returned closer must be closed on exit.
func ToFile(path, prefix string) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return New(f, prefix, log.DebugLevel), f, nil
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
