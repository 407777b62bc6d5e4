package tooltip

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
	"github.com/matzehuels/chartoverlay/pkg/tooltip/format"
)

// RSI shows "RSI (N): value" for a relative strength index series.
// It only shows a value while a datum is hovered unless Values is set.
type RSI struct {
	base
	Common

	WindowSize int
	Value      Accessor

	Format          format.Format
	Init            string // zero uses DefaultInit
	LabelFill       string
	LabelFontWeight string
	TextFill        string
	Values          Selector
}

var _ overlay.Renderer = (*RSI)(nil)

// Render draws the readout at the origin.
func (r *RSI) Render(_ context.Context, f *frame.Frame) (svg.Element, error) {
	font := r.font()
	at := r.origin(f.Size())
	sel := r.Values
	if sel == nil {
		sel = CurrentOnly
	}
	d := sel(f)

	label := fmt.Sprintf("RSI (%d): ", r.WindowSize)
	value := display(r.Value, d, r.Format, or(r.Init, DefaultInit))

	root := &svg.Group{Transform: svg.Translate(at.X, at.Y), Class: r.class()}
	if rect, ok := backgroundRect(d, font.Size, background.Text(label+value), r.Background); ok {
		root.Add(rect)
	}
	return root.Add(&svg.Text{
		Font: font,
		Spans: []svg.Span{
			{Text: label, Fill: r.LabelFill, Font: svg.Font{Weight: r.LabelFontWeight}},
			{Text: value, Fill: r.TextFill},
		},
	}), nil
}

// Stochastic shows "STO %K(w, k): K %D (d): D" for a stochastic oscillator.
type Stochastic struct {
	base
	Common

	Label       string // zero uses "STO"
	WindowSize  int
	KWindowSize int
	DWindowSize int

	K, D Accessor

	// KStroke and DStroke colour the %K and %D parts like their lines.
	KStroke string
	DStroke string

	Format    format.Format
	Init      string // zero uses DefaultInit
	LabelFill string
	Values    Selector
}

var _ overlay.Renderer = (*Stochastic)(nil)

// Render draws the readout at the origin.
func (s *Stochastic) Render(_ context.Context, f *frame.Frame) (svg.Element, error) {
	font := s.font()
	at := s.origin(f.Size())
	d := selectDatum(s.Values, f)

	init := or(s.Init, DefaultInit)
	k := display(s.K, d, s.Format, init)
	dv := display(s.D, d, s.Format, init)
	label := or(s.Label, "STO")
	windows := strconv.Itoa(s.WindowSize) + ", " + strconv.Itoa(s.KWindowSize)
	dWindow := strconv.Itoa(s.DWindowSize)

	content := fmt.Sprintf("%s %%K(%s): %s %%D (%s): %s", label, windows, k, dWindow, dv)
	root := &svg.Group{Transform: svg.Translate(at.X, at.Y), Class: s.class()}
	if r, ok := backgroundRect(d, font.Size, background.Text(content), s.Background); ok {
		root.Add(r)
	}
	return root.Add(&svg.Text{
		Font: font,
		Spans: []svg.Span{
			{Text: label + " %K(", Fill: s.LabelFill},
			{Text: windows, Fill: s.KStroke},
			{Text: "): ", Fill: s.LabelFill},
			{Text: k, Fill: s.KStroke},
			{Text: " %D (", Fill: s.LabelFill},
			{Text: dWindow, Fill: s.DStroke},
			{Text: "): ", Fill: s.LabelFill},
			{Text: dv, Fill: s.DStroke},
		},
	}), nil
}
