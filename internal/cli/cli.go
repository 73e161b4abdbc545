// Package cli implements the boxplan command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxplan/pkg/buildinfo"
	"github.com/matzehuels/boxplan/pkg/cache"
	"github.com/matzehuels/boxplan/pkg/observability"
	"github.com/matzehuels/boxplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "boxplan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives command output. Status lines go to stdout.
	Out io.Writer
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Boxplan lays out self-storage units on floor plans",
		Long: `Boxplan turns an architectural floor plan (walls, forbidden zones, entrances)
into a storage layout: placed units, corridors, radiators and circulation paths.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.synthCommand())
	root.AddCommand(c.zonesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner. location selects the cache backend
// (see cache.Open); empty means the local file cache.
func (c *CLI) newRunner(ctx context.Context, location string, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, location, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.Hooks = observability.NewLogHooks(c.Logger)
	return r, nil
}

// openCache resolves a cache location. noCache wins over location; with no
// location and no usable cache directory, caching is disabled with a warning
// rather than failing the command.
func (c *CLI) openCache(ctx context.Context, location string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if location == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory; caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		location = dir
	}
	return cache.Open(ctx, location)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns $XDG_CACHE_HOME/boxplan, or ~/.cache/boxplan.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
