// Package cli implements the skillgalaxy command-line interface.
//
// The commands drive the galaxy pipeline (build, layout, render), inspect a
// galaxy from the terminal (chain, explore) and serve it over HTTP (serve).
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - build: Classify a catalog into an unpositioned graph
//   - layout: Position a graph and write layout JSON
//   - render: Generate SVG, PNG, PDF, DOT or JSON output
//   - chain: Print the knowledge chain of one node
//   - explore: Browse the galaxy interactively in the terminal
//   - serve: Serve the galaxy and its interaction API over HTTP
//   - cache: Manage the pipeline cache
//
// # Configuration
//
// Settings come from defaults, then the TOML config file, then SKILLGALAXY_*
// environment variables (a .env file in the working directory is loaded
// first). Command flags override all three.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// surfaces stage timings and cache traffic from the observability hooks.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// rounded to the millisecond, plus any key-value pairs.
// Example output: "Rendered galaxy (1.234s) formats=[svg png]"
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg+" ("+time.Since(p.start).Round(time.Millisecond).String()+")", keyvals...)
}
