// Package cli implements the boxplan command-line interface.
//
// This package provides commands for synthesizing storage layouts from floor
// plans, inspecting the zones and clusters a plan yields, rendering the
// layout hierarchy, serving the pipeline over HTTP and managing the result
// cache. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - synth: Synthesize layouts for one or more floor plans
//   - zones: Show the placement zones a plan yields
//   - graph: Render the zone/cluster/corridor hierarchy of a layout
//   - inspect: Browse a layout interactively
//   - serve: Run the HTTP API
//   - cache: Manage the local result cache
//   - config: Print the effective options as TOML
//
// # Options
//
// Synthesis options are resolved in three layers: built-in defaults, then an
// optional TOML file (--config), then flags the user actually set. The
// config command prints the merged result.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Progress and
// warnings go through the CLI logger (stderr from main); results and the
// styled summary go to [CLI.Out].
//
// # Example
//
//	import "github.com/matzehuels/boxplan/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and drops messages below level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. It is meant for one goroutine; concurrent calls to done
// race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as
// start. Call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Synthesized 3 floors (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
