package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartoverlay/pkg/errors"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string   // output file (one format) or base path (several)
	formats []string // "svg", "png"
	item    int      // hovered datum, -1 for none
	noCache bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{item: -1}

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a scene frame to SVG and/or PNG",
		Long: `Render resolves every overlay of the scene against one frame and writes it.

With --item the tooltips show that row as hovered; without it they fall
back to the last row. SVG output contains the declarative overlays; PNG
output paints canvas and declarative overlays onto layered rasters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().IntVar(&opts.item, "item", opts.item, "index of the hovered data row (-1 for none)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the frame cache")

	return cmd
}

// basePath strips a known format extension from output, or derives the
// base from the input file name when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch strings.TrimPrefix(ext, ".") {
	case formatSVG, formatPNG:
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath is where one format is written.
func outputPath(opts *renderOpts, input, format string) string {
	if len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	c, err := newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	fs, err := loadFrames(input, c)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s: %d overlays, %d rows", input, fs.scene.Len(), fs.items())
	logger.Debug("Scene digest", "sha256", fs.digest)

	for _, format := range opts.formats {
		prog := newProgress(logger)
		data, hit, err := fs.render(ctx, format, opts.item)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := outputPath(opts, input, format)
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		status := iconFresh
		if hit {
			status = iconCached
		}
		prog.done(fmt.Sprintf("Generated %s [%s]", path, status))
	}
	return nil
}
