package ui

import (
	"io"
	"os"

	"github.com/pterm/pterm"
)

// NewLogger returns the application logger. Debug lowers the level, jsonOutput
// switches to one JSON object per line. Logs go to stderr so reports can be piped.
func NewLogger(debug, jsonOutput bool) *pterm.Logger {
	return newLogger(os.Stderr, debug, jsonOutput)
}

func newLogger(w io.Writer, debug, jsonOutput bool) *pterm.Logger {
	level := pterm.LogLevelInfo
	if debug {
		level = pterm.LogLevelDebug
	}

	logger := pterm.DefaultLogger.WithLevel(level).WithWriter(w)
	if jsonOutput {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	return logger
}
