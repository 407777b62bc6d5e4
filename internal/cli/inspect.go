package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/scene"
)

type inspectOpts struct {
	item      int
	heuristic bool
}

func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{item: -1}

	cmd := &cobra.Command{
		Use:   "inspect [scene.toml]",
		Short: "Show what every overlay draws for one frame",
		Long: `Inspect paints each overlay of the scene onto a recording canvas and
prints, in paint order, its layer, redraw triggers, the text runs and boxes
it drew and whether its save/restore calls were balanced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.item, "item", opts.item, "index of the hovered data row (-1 for none)")
	cmd.Flags().BoolVar(&opts.heuristic, "heuristic", false, "measure text as half the font size per character instead of with real glyphs")

	return cmd
}

func runInspect(ctx context.Context, input string, opts inspectOpts) error {
	fs, err := loadFrames(input, nil)
	if err != nil {
		return err
	}
	f, err := fs.frame(opts.item)
	if err != nil {
		return err
	}

	var measure func(string, canvas.Font) float64
	if !opts.heuristic {
		measure = glyphMeasure()
	}
	traces, err := fs.scene.Trace(ctx, f, measure)
	if err != nil {
		return err
	}

	title := fs.cfg.Title
	if title == "" {
		title = input
	}
	fmt.Println(StyleTitle.Render(title))
	printKeyValue("canvas", fmt.Sprintf("%gx%g @%gx", fs.cfg.Width, fs.cfg.Height, fs.ratio()))
	printKeyValue("plot", fmt.Sprintf("%gx%g", f.Width, f.Height))
	printKeyValue("hovered", hoveredLabel(opts.item))
	printKeyValue("digest", fs.digest[:12])
	printNewline()
	fmt.Println(traceTable(traces).Render())

	for _, tr := range traces {
		if tr.Err != nil {
			printWarning("%s: %v", tr.Kind, tr.Err)
		}
	}
	return nil
}

// glyphMeasure measures runs with the raster backend's fonts.
func glyphMeasure() func(string, canvas.Font) float64 {
	g := canvas.NewGG(1, 1)
	return func(s string, f canvas.Font) float64 {
		g.SetFont(f)
		return g.MeasureString(s)
	}
}

func hoveredLabel(item int) string {
	if item < 0 {
		return "none (last row)"
	}
	return "row " + strconv.Itoa(item)
}

func traceTable(traces []scene.Trace) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Overlay", "Layer", "Triggers", "Text", "Boxes", "Ops", "Scoped").
		Rows(traceRows(traces)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(traces) && (traces[row].Err != nil || !traces[row].Balanced) {
				return lipgloss.NewStyle().Foreground(colorRed)
			}
			if col == 1 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})
}

func traceRows(traces []scene.Trace) [][]string {
	rows := make([][]string, len(traces))
	for i, tr := range traces {
		scoped := iconSuccess
		if !tr.Balanced {
			scoped = iconError
		}
		rows[i] = []string{
			strconv.Itoa(i),
			tr.Kind,
			tr.Layer.String(),
			tr.Triggers.String(),
			runsOf(tr.Ops),
			boxesOf(tr.Ops),
			strconv.Itoa(len(tr.Ops)),
			scoped,
		}
	}
	return rows
}

// runsOf joins the drawn glyph runs.
func runsOf(ops []canvas.Op) string {
	var runs []string
	for _, op := range ops {
		if op.Name == "fillText" && op.Text != "" {
			runs = append(runs, op.Text)
		}
	}
	return strings.Join(runs, " ")
}

// boxesOf lists filled rectangles as WxH+X+Y in local coordinates.
func boxesOf(ops []canvas.Op) string {
	var boxes []string
	for _, op := range ops {
		if op.Name == "fillRect" && len(op.Args) == 4 {
			boxes = append(boxes, fmt.Sprintf("%gx%g%+g%+g", op.Args[2], op.Args[3], op.Args[0], op.Args[1]))
		}
	}
	if len(boxes) == 0 {
		return "-"
	}
	return strings.Join(boxes, " ")
}
