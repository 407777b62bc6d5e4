// Package canvas is the imperative drawing surface overlays paint into.
//
// [Canvas] is the subset of a 2D drawing context the overlays need: a
// save/restore stack, affine transforms, fonts, filled and stroked
// rectangles, lines and text. [GG] implements it on top of gogpu/gg and
// [Surface] keeps one GG per [frame.Layer] so background-layer paint always
// lands beneath foreground-layer paint.
//
// State changes must be wrapped in [Scope], which pairs every Push with a
// Pop even when the body returns early or panics.
package canvas

import "github.com/matzehuels/chartoverlay/pkg/frame"

// Font weights.
const (
	WeightNormal = 400
	WeightBold   = 700
)

// SystemFontFamily is the default family stack for overlay text.
const SystemFontFamily = "-apple-system, system-ui, 'Helvetica Neue', Ubuntu, sans-serif"

// Font describes the face text is drawn with.
type Font struct {
	Family string
	Size   float64
	Weight int
}

// Bold reports whether the weight selects a bold face.
func (f Font) Bold() bool { return f.Weight >= 600 }

// Canvas is a 2D drawing context with a save/restore stack.
// Push saves the transform, font, fill and stroke; Pop restores them.
type Canvas interface {
	Push()
	Pop()

	Identity()
	Scale(x, y float64)
	Translate(x, y float64)
	Rotate(radians float64)

	SetFont(f Font)
	MeasureString(s string) float64

	SetFillStyle(color string)
	SetStrokeStyle(color string)
	SetLineWidth(w float64)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	StrokeLine(x1, y1, x2, y2 float64)
	// FillText draws s with its baseline at y, aligned horizontally at x.
	FillText(s string, x, y float64, align frame.Align)
}

// Scope runs fn between c.Push and a deferred c.Pop.
func Scope(c Canvas, fn func()) {
	c.Push()
	defer c.Pop()
	fn()
}
