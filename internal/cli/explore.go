package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/scene"
)

var (
	exploreKeyStyle  = lipgloss.NewStyle().Foreground(colorGray)
	exploreTextStyle = lipgloss.NewStyle().Foreground(colorWhite)
	exploreBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [scene.toml]",
		Short: "Move the hovered row interactively and watch the tooltips update",
		Long: `Explore opens a terminal view of the scene. The arrow keys move the hovered
row; every move redraws the overlays that react to pointer movement, the
same way a chart host redraws tooltips on mousemove.

Keys: ←/→ or h/l move, home/end jump, esc clears the hover, s saves the
current frame as SVG, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := loadFrames(args[0], nil)
			if err != nil {
				return err
			}
			m := newExploreModel(cmd.Context(), fs, basePath("", args[0]))
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// exploreLine is one redrawn overlay.
type exploreLine struct {
	kind, text, boxes string
	err               error
}

// exploreModel is the bubbletea model behind explore.
type exploreModel struct {
	ctx    context.Context
	fs     *frames
	base   string
	hover  *scene.Scene // overlays redrawn on pointer movement
	item   int          // -1 when nothing is hovered
	lines  []exploreLine
	status string
	redraw int
}

func newExploreModel(ctx context.Context, fs *frames, base string) exploreModel {
	m := exploreModel{
		ctx:   ctx,
		fs:    fs,
		base:  base,
		hover: scene.New(fs.scene.Interested(frame.TriggerPointerMove)...),
		item:  -1,
	}
	return m.refresh()
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := m.fs.items() - 1
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		switch {
		case m.item > 0:
			m.item--
		case m.item < 0:
			m.item = last
		}
	case "right", "l":
		if m.item < last {
			m.item++
		}
	case "home":
		m.item = min(0, last)
	case "end":
		m.item = last
	case "esc":
		m.item = -1
	case "s":
		m.status = m.save()
		return m, nil
	default:
		return m, nil
	}
	m.status = ""
	return m.refresh(), nil
}

// refresh re-resolves every pointer-move overlay for the current item.
func (m exploreModel) refresh() exploreModel {
	m.redraw++
	f, err := m.fs.frame(m.item)
	if err != nil {
		m.lines = []exploreLine{{kind: "frame", err: err}}
		return m
	}
	traces, err := m.hover.Trace(m.ctx, f, nil)
	if err != nil {
		m.lines = []exploreLine{{kind: "frame", err: err}}
		return m
	}
	m.lines = m.lines[:0:0]
	for _, tr := range traces {
		m.lines = append(m.lines, exploreLine{kind: tr.Kind, text: runsOf(tr.Ops), boxes: boxesOf(tr.Ops), err: tr.Err})
	}
	return m
}

func (m exploreModel) save() string {
	data, err := m.fs.svg(m.ctx, m.item)
	if err != nil {
		return StyleWarning.Render(err.Error())
	}
	path := fmt.Sprintf("%s-item%d.svg", m.base, m.item)
	if m.item < 0 {
		path = m.base + ".svg"
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return StyleWarning.Render(err.Error())
	}
	return StyleSuccess.Render(iconSuccess + " saved " + path)
}

func (m exploreModel) View() string {
	var b strings.Builder

	title := m.fs.cfg.Title
	if title == "" {
		title = m.base
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ move  home/end jump  esc clear  s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(exploreBoxStyle.Render(m.rowView()))
	b.WriteString("\n\n")

	if len(m.lines) == 0 {
		b.WriteString(StyleDim.Render("  no overlay reacts to pointer movement"))
		b.WriteString("\n")
	}
	for _, l := range m.lines {
		b.WriteString("  ")
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("%-22s", l.kind)))
		if l.err != nil {
			b.WriteString(StyleWarning.Render(l.err.Error()))
		} else {
			b.WriteString(exploreTextStyle.Render(l.text))
			b.WriteString("  ")
			b.WriteString(StyleDim.Render(l.boxes))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  redraw #%d", m.redraw)))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	return b.String()
}

// rowView shows the hovered row's values in column order.
func (m exploreModel) rowView() string {
	if m.item < 0 {
		return exploreKeyStyle.Render("hovered ") + exploreTextStyle.Render(hoveredLabel(m.item))
	}
	d := m.fs.data[m.item]
	parts := []string{exploreKeyStyle.Render("row ") + exploreTextStyle.Render(fmt.Sprintf("%d/%d", m.item, m.fs.items()-1))}
	if !d.Time.IsZero() {
		parts = append(parts, exploreTextStyle.Render(d.Time.Format("2006-01-02 15:04")))
	}
	for _, col := range m.fs.cfg.Data.Columns {
		if v, ok := d.Get(col); ok {
			parts = append(parts, exploreKeyStyle.Render(col+" ")+exploreTextStyle.Render(fmt.Sprintf("%g", v)))
		}
	}
	return strings.Join(parts, "  ")
}
