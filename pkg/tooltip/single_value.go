package tooltip

import (
	"context"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
	"github.com/matzehuels/chartoverlay/pkg/tooltip/format"
)

// SingleValue is a "[x label: x] y label y" readout.
type SingleValue struct {
	base
	Common

	XLabel string // empty hides the x part
	YLabel string

	XValue  Accessor
	YValue  Accessor
	XFormat format.Format // zero uses "s"
	YFormat format.Format // zero uses ".2f"
	XInit   string        // zero uses DefaultInit
	YInit   string        // zero uses DefaultInit

	LabelFill       string
	LabelFontWeight string
	ValueFill       string
	Values          Selector
}

var _ overlay.Renderer = (*SingleValue)(nil)

var shortest = format.MustParse("s")

// Render draws the readout at the origin.
func (s *SingleValue) Render(_ context.Context, f *frame.Frame) (svg.Element, error) {
	font := s.font()
	at := s.origin(f.Size())
	d := selectDatum(s.Values, f)

	xf := s.XFormat
	if xf.String() == "" {
		xf = shortest
	}
	x := display(s.XValue, d, xf, or(s.XInit, DefaultInit))
	y := display(s.YValue, d, s.YFormat, or(s.YInit, DefaultInit))
	labelFill := or(s.LabelFill, DefaultLabelFill)
	valueFill := or(s.ValueFill, DefaultValueFill)

	content := s.YLabel + " " + y
	var spans []svg.Span
	if s.XLabel != "" {
		content = s.XLabel + ": " + x + " " + content
		spans = append(spans,
			svg.Span{Text: s.XLabel + ": ", Fill: labelFill, X: svg.Float(0), DY: 5},
			svg.Span{Text: x + " ", Fill: valueFill},
		)
	}
	spans = append(spans,
		svg.Span{Text: s.YLabel + " ", Fill: labelFill, Font: svg.Font{Weight: s.LabelFontWeight}},
		svg.Span{Text: y, Fill: valueFill},
	)

	root := &svg.Group{Transform: svg.Translate(at.X, at.Y), Class: s.class()}
	if r, ok := backgroundRect(d, font.Size, background.Text(content), s.Background); ok {
		root.Add(r)
	}
	return root.Add(&svg.Text{Font: font, Spans: spans}), nil
}
