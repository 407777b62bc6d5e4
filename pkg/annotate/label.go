// Package annotate provides datum-bound annotations drawn on the chart.
//
// [Label] paints a text run, optionally on a padded background box, at a
// position resolved from the frame's scales. It draws into the background
// layer unless told otherwise and redraws on pan.
package annotate

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/overlay/position"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
)

// Label defaults.
const (
	DefaultFontSize = 64.0
	DefaultFill     = "#dcdcdc"
)

// DatumString is a string that may depend on the bound datum.
type DatumString = functor.Value[*frame.Datum, string]

// Label is a text annotation.
type Label struct {
	// X defaults to the bound datum's x pixel. Y is required.
	X position.X
	Y position.Y

	// Datum binds the label to a data point; nil uses the frame's datum.
	Datum *frame.Datum

	Text DatumString
	Fill DatumString

	// Font zero fields default to the system family, 64px and bold.
	Font   canvas.Font
	Align  frame.Align
	Rotate float64 // degrees

	// Background is drawn behind the measured text when non-nil.
	Background *background.Spec

	// Target is the layer to draw into. Select, when set, overrides it.
	Target frame.Layer
	Select func(overlay.Layers) canvas.Canvas
}

var (
	_ overlay.Drawer   = (*Label)(nil)
	_ overlay.Renderer = (*Label)(nil)
)

// Layer reports the label's draw target.
func (l *Label) Layer() frame.Layer { return l.Target }

// Triggers reports that labels redraw on pan.
func (l *Label) Triggers() frame.Triggers { return frame.TriggerPan }

func (l *Label) font() canvas.Font {
	f := l.Font
	if f.Family == "" {
		f.Family = canvas.SystemFontFamily
	}
	if f.Size == 0 {
		f.Size = DefaultFontSize
	}
	if f.Weight == 0 {
		f.Weight = canvas.WeightBold
	}
	return f
}

func (l *Label) align() frame.Align {
	if l.Align == "" {
		return frame.AlignCenter
	}
	return l.Align
}

func (l *Label) bind(f *frame.Frame) *frame.Frame {
	if l.Datum != nil {
		return f.WithDatum(l.Datum)
	}
	return f
}

func (l *Label) fill(d *frame.Datum) string {
	if c := l.Fill.Resolve(d); c != "" {
		return c
	}
	return DefaultFill
}

func (l *Label) target(layers overlay.Layers) canvas.Canvas {
	if l.Select != nil {
		return l.Select(layers)
	}
	return layers.Layer(l.Target)
}

// Draw paints the label. Every state change is scoped, so the canvas is
// left exactly as it was found.
func (l *Label) Draw(ctx context.Context, layers overlay.Layers, f *frame.Frame) error {
	bound := l.bind(f)
	anchor, err := position.Resolve(l.X, l.Y, bound)
	if err != nil {
		return err
	}

	c := l.target(layers)
	font := l.font()
	align := l.align()
	text := l.Text.Resolve(bound.Datum)
	ratio := f.PixelRatio()

	canvas.Scope(c, func() {
		c.Identity()
		c.Scale(ratio, ratio)
		c.Translate(f.Margin.Left+0.5*ratio, f.Margin.Top+0.5*ratio)

		canvas.Scope(c, func() {
			c.Translate(anchor.X, anchor.Y)
			if l.Rotate != 0 {
				c.Rotate(l.Rotate * math.Pi / 180)
			}
			c.SetFont(font)

			if l.Background != nil {
				box := background.TextBox(bound.Datum, c.MeasureString(text), font.Size, align, l.Background)
				c.SetFillStyle(box.Fill)
				c.FillRect(box.X, box.Y, box.Width, box.Height)
				if box.Stroke != background.DefaultStroke {
					c.SetStrokeStyle(box.Stroke)
					c.StrokeRect(box.X, box.Y, box.Width, box.Height)
				}
			}

			c.SetFillStyle(l.fill(bound.Datum))
			c.FillText(text, 0, 0, align)
		})
	})

	log.FromContext(ctx).Debug("label drawn", "text", text, "x", anchor.X, "y", anchor.Y, "layer", l.Target)
	return nil
}

// Render describes the label as SVG in plot coordinates. Without a text
// measurement API the background uses the glyph-width estimate.
func (l *Label) Render(_ context.Context, f *frame.Frame) (svg.Element, error) {
	bound := l.bind(f)
	anchor, err := position.Resolve(l.X, l.Y, bound)
	if err != nil {
		return nil, err
	}

	font := l.font()
	align := l.align()
	text := l.Text.Resolve(bound.Datum)

	transform := svg.Translate(anchor.X, anchor.Y)
	if l.Rotate != 0 {
		transform += " " + svg.Rotate(l.Rotate)
	}
	g := &svg.Group{Transform: transform, Class: "chartoverlay-label"}

	width := background.GlyphWidth(text, font.Size)
	if r, ok := svg.RectFromBox(background.TextBox(bound.Datum, width, font.Size, align, l.Background)); ok {
		g.Add(r)
	}
	weight := "normal"
	if font.Bold() {
		weight = "bold"
	}
	g.Add(&svg.Text{
		Font:       svg.Font{Family: font.Family, Size: font.Size, Weight: weight},
		Fill:       l.fill(bound.Datum),
		TextAnchor: align.TextAnchor(),
		Spans:      []svg.Span{{Text: text}},
	})
	return g, nil
}
