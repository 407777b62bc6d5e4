// Package tooltip provides the declarative readout overlays that follow the
// pointer: single and grouped label/value pairs, moving-average columns and
// oscillator readouts.
//
// Every tooltip renders to an [svg.Element] tree from the current frame,
// draws into the foreground layer and redraws on pointer movement. Values
// are read from the hovered datum, falling back to the last plotted datum
// when nothing is hovered.
package tooltip

import (
	"math"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
	"github.com/matzehuels/chartoverlay/pkg/overlay/position"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
	"github.com/matzehuels/chartoverlay/pkg/tooltip/format"
)

// Defaults shared by every tooltip.
const (
	DefaultFontSize  = 11.0
	DefaultLabelFill = "#4682B4"
	DefaultValueFill = "#000000"
	DefaultInit      = "n/a"

	className = "chartoverlay-tooltip"
)

// Accessor reads a numeric value from a datum.
type Accessor func(d *frame.Datum) (float64, bool)

// Key reads the named value.
func Key(name string) Accessor {
	return func(d *frame.Datum) (float64, bool) { return d.Get(name) }
}

// Selector picks the datum a tooltip displays.
type Selector func(f *frame.Frame) *frame.Datum

// CurrentOrLast is the default selector.
func CurrentOrLast(f *frame.Frame) *frame.Datum { return f.CurrentItem() }

// CurrentOnly shows nothing unless a datum is hovered.
func CurrentOnly(f *frame.Frame) *frame.Datum { return f.Current }

// Common holds the presentation options every tooltip accepts.
type Common struct {
	FontFamily string
	FontSize   float64
	FontWeight string

	// Origin places the tooltip inside the plot area; unset is [0, 0].
	Origin position.Origin

	Class      string
	Background *background.Spec
}

func (c Common) font() svg.Font {
	f := svg.Font{Family: c.FontFamily, Size: c.FontSize, Weight: c.FontWeight}
	if f.Family == "" {
		f.Family = canvas.SystemFontFamily
	}
	if f.Size == 0 {
		f.Size = DefaultFontSize
	}
	return f
}

func (c Common) class() string {
	if c.Class == "" {
		return className
	}
	return c.Class
}

func (c Common) origin(size frame.Size) frame.Point {
	return position.ResolveOrigin(c.Origin, size)
}

// base implements the overlay metadata shared by every tooltip.
type base struct{}

// Layer reports that tooltips draw above the series.
func (base) Layer() frame.Layer { return frame.LayerForeground }

// Triggers reports that tooltips redraw on pointer movement.
func (base) Triggers() frame.Triggers { return frame.TriggerPointerMove }

func selectDatum(sel Selector, f *frame.Frame) *frame.Datum {
	if sel == nil {
		return CurrentOrLast(f)
	}
	return sel(f)
}

// display formats the value acc reads from d, or returns init when there is
// no datum, no accessor or no finite value.
func display(acc Accessor, d *frame.Datum, f format.Format, init string) string {
	if acc == nil || d == nil {
		return init
	}
	v, ok := acc(d)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return init
	}
	return f.Format(v)
}

// ValueOf formats the value acc reads from the displayed datum (hovered,
// else last), or init when there is none. It adapts a numeric accessor to
// [Single].
func ValueOf(acc Accessor, f format.Format, init string) functor.Value[*frame.Frame, string] {
	return functor.Func(func(fr *frame.Frame) string {
		return display(acc, fr.CurrentItem(), f, init)
	})
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// backgroundRect computes the optional background for a tooltip bound to d.
func backgroundRect(d *frame.Datum, fontSize float64, content background.Content, spec *background.Spec) (*svg.Rect, bool) {
	return svg.RectFromBox(background.ComputeFor(d, fontSize, content, spec))
}
