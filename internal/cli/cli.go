// Package cli implements the objectgrid command-line interface.
//
// This package provides commands for laying out scene files, inspecting the
// resulting layouts, serving layouts over HTTP and managing the layout cache.
// The CLI is built using cobra, reads settings through viper and logs via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Arrange a scene file and write <scene>.layout.json
//   - inspect: Summarize a layout file, optionally in an interactive browser
//   - serve: Run the HTTP layout API
//   - cache: Clear the layout cache or print where it lives
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgrid/pkg/buildinfo"
	"github.com/matzehuels/objectgrid/pkg/cache"
	"github.com/matzehuels/objectgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "objectgrid"

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

	// Settings is loaded before any subcommand runs.
	Settings Settings

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		Settings: DefaultSettings(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Objectgrid arranges collections of objects on grids and surfaces",
		Long:         `Objectgrid lays out collections of objects on a plane, around a cylinder, over a sphere, or as a packed scatter, and writes the resulting placements as JSON.`,
		Version:      buildinfo.ResolvedVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := LoadSettings(c.configPath)
			if err != nil {
				return err
			}
			c.Settings = s
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $OBJECTGRID_CONFIG or ~/.config/objectgrid/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache picks Redis when a URL is configured, otherwise a file cache.
// A missing home directory disables caching rather than failing.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cs := c.Settings.Cache
	if cs.RedisURL != "" {
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			URL:         cs.RedisURL,
			Prefix:      cs.RedisPrefix,
			DialTimeout: cs.DialTimeout,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Debug("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/objectgrid/).
func (c *CLI) cacheDir() (string, error) {
	if c.Settings.Cache.Dir != "" {
		return c.Settings.Cache.Dir, nil
	}
	return cache.DefaultDir(appName)
}
