package tooltip

import (
	"context"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/overlay/layout"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
)

// nbsp keeps inline items from collapsing into each other.
const nbsp = "\u00a0"

// pair is one resolved label/value item.
type pair struct {
	label, value         string
	labelFill, valueFill string
	shape                bool
}

// renderPair draws p at the given offset in the style kind asks for.
// Unrecognised kinds draw the value next to the label.
func renderPair(kind layout.Kind, at frame.Point, p pair, font svg.Font, d *frame.Datum, bg *background.Spec) *svg.Group {
	if kind.ValueBeneathLabel() {
		return valueBeneathLabel(at, p, font, d, bg)
	}
	return valueNextToLabel(at, p, font, d, bg)
}

func valueNextToLabel(at frame.Point, p pair, font svg.Font, d *frame.Datum, bg *background.Spec) *svg.Group {
	g := &svg.Group{Transform: svg.Translate(at.X, at.Y)}
	if r, ok := backgroundRect(d, font.Size, background.Text(p.label+": "+p.value), bg); ok {
		g.Add(r)
	}
	x := 0.0
	if p.shape {
		g.Add(&svg.Rect{X: 0, Y: -6, Width: 6, Height: 6, Fill: p.valueFill})
		x = 8
	}
	g.Add(&svg.Text{
		X:    x,
		Font: font,
		Spans: []svg.Span{
			{Text: p.label + ": ", Fill: p.labelFill},
			{Text: p.value, Fill: p.valueFill},
		},
	})
	return g
}

func valueBeneathLabel(at frame.Point, p pair, font svg.Font, d *frame.Datum, bg *background.Spec) *svg.Group {
	g := &svg.Group{Transform: svg.Translate(at.X, at.Y)}
	content := p.value
	if len(p.label) > len(p.value) {
		content = p.label
	}
	if r, ok := backgroundRect(d, font.Size, background.Text(content), bg); ok {
		g.Add(r)
	}
	if p.shape {
		g.Add(&svg.Line{X1: 0, Y1: 2, X2: 0, Y2: 28, Stroke: p.valueFill, StrokeWidth: 4})
	}
	g.Add(&svg.Text{
		X:    5,
		Y:    11,
		Font: font,
		Spans: []svg.Span{
			{Text: p.label, Fill: p.labelFill},
			{Text: p.value, Fill: p.valueFill, X: svg.Float(5), DY: 15},
		},
	})
	return g
}

// inlineSpan is p as a span that flows inside a surrounding text run.
func inlineSpan(p pair, font svg.Font) svg.Span {
	return svg.Span{
		Font: font,
		Children: []svg.Span{
			{Text: p.label + ":" + nbsp, Fill: p.labelFill},
			{Text: p.value + nbsp + nbsp, Fill: p.valueFill},
		},
	}
}

// Single is one label/value readout.
type Single struct {
	base
	Common

	Label string
	Value functor.Value[*frame.Frame, string]

	Layout    layout.Kind
	LabelFill string
	ValueFill string
	Shape     bool
}

var _ overlay.Renderer = (*Single)(nil)

// Render draws the pair at the tooltip origin. Inline layouts produce a
// bare text run with no background.
func (s *Single) Render(_ context.Context, f *frame.Frame) (svg.Element, error) {
	font := s.font()
	at := s.origin(f.Size())
	p := pair{
		label:     s.Label,
		value:     s.Value.Resolve(f),
		labelFill: or(s.LabelFill, DefaultLabelFill),
		valueFill: or(s.ValueFill, DefaultValueFill),
		shape:     s.Shape,
	}

	if s.Layout == layout.InlineInText {
		return (&svg.Group{Transform: svg.Translate(at.X, at.Y), Class: s.class()}).Add(
			&svg.Text{Spans: []svg.Span{inlineSpan(p, font)}},
		), nil
	}
	g := renderPair(s.Layout, at, p, font, f.CurrentItem(), s.Background)
	g.Class = s.class()
	return g, nil
}
