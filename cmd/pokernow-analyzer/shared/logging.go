// Package shared holds helpers common to the analyzer subcommands.
package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger creates the CLI logger. The debug flag wins over the
// configured level.
func SetupLogger(debug bool, level string) *log.Logger {
	lvl := log.InfoLevel
	if parsed, err := log.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	if debug {
		lvl = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           lvl,
	})
}
