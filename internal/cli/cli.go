// Package cli implements the chartoverlay command-line interface.
//
// Every command takes a TOML scene file describing the canvas, the plotted
// rows and the overlays. The commands are:
//   - render: write the frame as SVG and/or PNG
//   - inspect: print what each overlay draws, resolved against one frame
//   - explore: move the hovered datum interactively in the terminal
//   - serve: serve frames over HTTP
//   - cache: manage the rendered-frame cache
//
// The charmbracelet logger travels in the command context; --verbose
// switches it to debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartoverlay/pkg/buildinfo"
	"github.com/matzehuels/chartoverlay/pkg/cache"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
)

const (
	appName = "chartoverlay"

	// redisURLEnv and mongoURIEnv select a shared frame cache when set.
	redisURLEnv = "CHARTOVERLAY_REDIS_URL"
	mongoURIEnv = "CHARTOVERLAY_MONGO_URI"

	formatSVG = "svg"
	formatPNG = "png"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "chartoverlay positions labels and tooltips over chart frames",
		Long:         `chartoverlay resolves the anchors, background boxes and multi-item layouts of chart annotations and tooltips for a scene file, and renders the result as SVG or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			canvas.SetLogger(slog.New(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache picks the frame cache: none with noCache, Redis when
// CHARTOVERLAY_REDIS_URL is set, MongoDB when CHARTOVERLAY_MONGO_URI is set,
// the user cache directory otherwise. An unusable cache directory degrades
// to no caching.
func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	logger := loggerFromContext(ctx)
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := os.Getenv(redisURLEnv); url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", redisURLEnv, err)
		}
		logger.Debug("Using redis frame cache")
		return cache.Instrument(rc, "redis"), nil
	}
	if uri := os.Getenv(mongoURIEnv); uri != "" {
		mc, err := cache.NewMongoCache(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mongoURIEnv, err)
		}
		logger.Debug("Using mongodb frame cache")
		return cache.Instrument(mc, "mongo"), nil
	}
	dir, err := cacheDir()
	if err != nil {
		logger.Warn("No cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using file frame cache", "dir", dir)
	return cache.Instrument(fc, "file"), nil
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/chartoverlay/).
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

// parseFormats splits the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// validateFormats rejects anything but svg and png.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if f != formatSVG && f != formatPNG {
			return fmt.Errorf("invalid format: %s (must be 'svg' or 'png')", f)
		}
	}
	return nil
}
