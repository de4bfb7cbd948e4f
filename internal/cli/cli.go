package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stoproute/pkg/buildinfo"
	"github.com/matzehuels/stoproute/pkg/cache"
	"github.com/matzehuels/stoproute/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stoproute"

	// envRedisURL selects a shared Redis cache instead of the local file cache.
	envRedisURL = "STOPROUTE_REDIS_URL"

	// envMongoURI selects a shared MongoDB cache when no Redis URL is set.
	envMongoURI = "STOPROUTE_MONGO_URI"
)

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

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the build version so results from older releases are never reused.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := os.Getenv(envRedisURL); url != "" {
		return cache.NewRedisCache(url)
	}
	if uri := os.Getenv(envMongoURI); uri != "" {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return cache.NewMongoCache(ctx, uri, "")
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stoproute/).
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

// outputBase derives the base path for output files. An explicit output wins,
// with a known format extension stripped. Otherwise the source file name is
// used without its extension, and grids are named after their size.
func outputBase(opts pipeline.Options) string {
	if opts.Output != "" {
		ext := filepath.Ext(opts.Output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(opts.Output, ext)
		}
		return opts.Output
	}
	src := opts.Graph
	if src == "" {
		src = opts.Roads
	}
	if src == "" {
		return fmt.Sprintf("grid-%dx%d", opts.Cols, opts.Rows)
	}
	return strings.TrimSuffix(src, filepath.Ext(src))
}

// artifactPath returns the file an artifact of format is written to.
// The result file gets a ".result.json" suffix so it never overwrites an
// input graph of the same name.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".result.json"
	}
	return base + "." + format
}

// writeArtifacts writes each artifact in formats order and returns the paths.
func writeArtifacts(base string, artifacts map[string][]byte, formats []string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("missing %s output", format)
		}
		path := artifactPath(base, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// The empty string yields nil so the pipeline default applies.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
