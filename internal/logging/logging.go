// Package logging configures the server's structured logger. Logs always
// go to stderr: stdout carries the MCP stream.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const prefix = "bear-mcp"

// New creates a logger writing to w at the named level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
		Level:           lvl,
	})
	return logger, nil
}

// NewTestLogger creates a debug logger writing plain lines to w.
func NewTestLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "test",
		Level:  log.DebugLevel,
	})
}
