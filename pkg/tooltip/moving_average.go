package tooltip

import (
	"context"
	"fmt"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/overlay/position"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
	"github.com/matzehuels/chartoverlay/pkg/tooltip/format"
)

// DefaultColumnWidth is the width of one moving-average column.
const DefaultColumnWidth = 65.0

// MAOption describes one moving-average series.
type MAOption struct {
	Type       string // e.g. "SMA", "EMA"
	WindowSize int
	Stroke     string
	Value      Accessor
}

// Label is the column heading, "EMA (12)".
func (o MAOption) Label() string { return fmt.Sprintf("%s (%d)", o.Type, o.WindowSize) }

// MovingAverage shows one column per moving-average series, each with a
// colour bar in the series stroke.
type MovingAverage struct {
	base
	Common

	Options []MAOption
	Width   float64 // column width; zero uses DefaultColumnWidth

	Format          format.Format
	Init            string // zero uses DefaultInit
	LabelFill       string
	LabelFontWeight string
	TextFill        string
	Values          Selector
}

var _ overlay.Renderer = (*MovingAverage)(nil)

// defaultMAOrigin sits just below the chart's top edge.
var defaultMAOrigin = position.At(0, 10)

// Render lays the columns out left to right from the origin, offset by the
// chart's origin inside the canvas.
func (m *MovingAverage) Render(_ context.Context, f *frame.Frame) (svg.Element, error) {
	font := m.font()
	width := m.Width
	if width == 0 {
		width = DefaultColumnWidth
	}
	origin := m.Origin
	if !origin.IsSet() {
		origin = defaultMAOrigin
	}
	at := position.ResolveOrigin(origin, f.Size()).Add(f.Origin)
	d := selectDatum(m.Values, f)

	root := &svg.Group{Transform: svg.Translate(at.X, at.Y), Class: m.class()}
	// The box spans every column: n columns expressed in font-size units.
	columns := width * float64(len(m.Options)) / font.Size
	if r, ok := backgroundRect(d, font.Size, background.Units(columns), m.Background); ok {
		root.Add(r)
	}

	init := or(m.Init, DefaultInit)
	for i, o := range m.Options {
		col := &svg.Group{Transform: svg.Translate(width*float64(i), 0)}
		col.Add(
			&svg.Line{X1: 0, Y1: 2, X2: 0, Y2: 28, Stroke: o.Stroke, StrokeWidth: 4},
			&svg.Text{
				X:    5,
				Y:    11,
				Font: font,
				Spans: []svg.Span{
					{Text: o.Label(), Fill: m.LabelFill, Font: svg.Font{Weight: m.LabelFontWeight}},
					{Text: display(o.Value, d, m.Format, init), Fill: m.TextFill, X: svg.Float(5), DY: 15},
				},
			},
			&svg.Rect{Width: 55, Height: 30, Fill: "none", Stroke: "none"},
		)
		root.Add(col)
	}
	return root, nil
}
