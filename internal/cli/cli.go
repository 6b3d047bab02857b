// Package cli implements the hyperpart command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hyperpart/pkg/cache"
	"github.com/matzehuels/hyperpart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "hyperpart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdout receives command results; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags
	verbose   bool
	logFormat string
	cacheURL  string
	noCache   bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, loggerFromContext(ctx)), nil
}

// openCache opens the cache named by --cache or $HYPERPART_CACHE_URL. A
// default file cache that cannot be created degrades to no caching.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	url := c.cacheURL
	if url == "" {
		url = os.Getenv(cache.URLEnv)
	}
	store, err := cache.Open(ctx, url)
	if err != nil && url == "" {
		loggerFromContext(ctx).Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return store, err
}
