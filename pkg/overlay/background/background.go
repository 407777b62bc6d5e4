// Package background computes the backing rectangle painted behind overlays.
//
// [Compute] derives a box for tooltip-style overlays from a font size, a
// content signal and an optional [Spec]. Missing dimensions are estimated:
// numeric content is an aggregate width in font-size units, string content
// uses a glyph-width heuristic. [TextBox] is the measured variant used by
// canvas labels, where the real glyph-run width is known and padding is
// applied on four sides.
//
// A nil Spec means "no background" and always yields a nil box.
package background

import (
	"unicode/utf8"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
)

// Defaults applied when a Spec leaves a field unset.
const (
	DefaultFill   = "rgba(33, 33, 33, 0.7)"
	DefaultStroke = "none"

	// glyphWidthRatio approximates an average glyph's advance as a
	// fraction of the font size.
	glyphWidthRatio = 0.5
	// textPadding is added to heuristic string widths.
	textPadding = 20.0
	// lineHeightRatio is the default box height in font-size units.
	lineHeightRatio = 1.5
	// baselineGap lifts the default box above the text baseline.
	baselineGap = 2.0
)

// Fill is a colour that may depend on the overlay's datum.
type Fill = functor.Value[*frame.Datum, string]

// FillColor returns a constant fill.
func FillColor(c string) Fill { return functor.Of[*frame.Datum](c) }

// FillFunc returns a datum-dependent fill.
func FillFunc(fn func(*frame.Datum) string) Fill { return functor.Func(fn) }

// Spec configures an overlay background. Nil pointer fields are derived.
type Spec struct {
	Fill    Fill
	Stroke  string
	X, Y    *float64
	Width   *float64
	Height  *float64
	Padding Padding
}

// Float returns a pointer to v, for the optional Spec fields.
func Float(v float64) *float64 { return &v }

// Box is a fully resolved background rectangle.
type Box struct {
	X, Y          float64
	Width, Height float64
	Fill, Stroke  string
}

type contentKind uint8

const (
	contentNone contentKind = iota
	contentText
	contentUnits
)

// Content is the sizing signal for a derived box width.
type Content struct {
	kind  contentKind
	text  string
	units float64
}

// None is the absence of a sizing signal; derived widths are zero.
func None() Content { return Content{} }

// Text sizes the box from a string with the glyph-width heuristic.
func Text(s string) Content { return Content{kind: contentText, text: s} }

// Units sizes the box as n font-size units, for callers that already know
// an aggregate extent (for example n columns of a fixed width).
func Units(n float64) Content { return Content{kind: contentUnits, units: n} }

// width derives a box width in pixels.
func (c Content) width(fontSize float64) float64 {
	switch c.kind {
	case contentUnits:
		return c.units * fontSize
	case contentText:
		return GlyphWidth(c.text, fontSize) + textPadding
	}
	return 0
}

// GlyphWidth estimates the advance of s at fontSize from its rune count,
// for surfaces that cannot measure text.
func GlyphWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * glyphWidthRatio
}

// EstimateWidth is the heuristic box width for s at fontSize: the glyph
// estimate plus a fixed padding.
func EstimateWidth(s string, fontSize float64) float64 {
	return Text(s).width(fontSize)
}

// Compute returns the background box for an overlay, or nil when spec is nil.
// Fill functions are resolved with a nil datum; use [ComputeFor] for
// datum-bound overlays.
func Compute(fontSize float64, content Content, spec *Spec) *Box {
	return ComputeFor(nil, fontSize, content, spec)
}

// ComputeFor is [Compute] with fill functions resolved against d.
func ComputeFor(d *frame.Datum, fontSize float64, content Content, spec *Spec) *Box {
	if spec == nil {
		return nil
	}
	b := &Box{
		X:      0,
		Y:      -fontSize - baselineGap,
		Width:  content.width(fontSize),
		Height: fontSize * lineHeightRatio,
		Fill:   resolveFill(spec.Fill, d),
		Stroke: resolveStroke(spec.Stroke),
	}
	if spec.X != nil {
		b.X = *spec.X
	}
	if spec.Y != nil {
		b.Y = *spec.Y
	}
	if spec.Width != nil {
		b.Width = *spec.Width
	}
	if spec.Height != nil {
		b.Height = *spec.Height
	}
	return b
}

// TextBox returns the padded box behind a measured glyph run drawn at the
// origin with baseline y=0. The run spans measuredWidth horizontally and
// fontSize above the baseline; align shifts the box so it stays under the
// glyphs: center moves it left by half the width, end/right by the full width.
func TextBox(d *frame.Datum, measuredWidth, fontSize float64, align frame.Align, spec *Spec) *Box {
	if spec == nil {
		return nil
	}
	p := spec.Padding.Sides()
	x := -measuredWidth * align.Anchor()
	y := -fontSize
	return &Box{
		X:      x - p.Left,
		Y:      y - p.Top,
		Width:  measuredWidth + p.Left + p.Right,
		Height: fontSize + p.Top + p.Bottom,
		Fill:   resolveFill(spec.Fill, d),
		Stroke: resolveStroke(spec.Stroke),
	}
}

func resolveFill(f Fill, d *frame.Datum) string {
	if c := f.Resolve(d); c != "" {
		return c
	}
	return DefaultFill
}

func resolveStroke(s string) string {
	if s == "" {
		return DefaultStroke
	}
	return s
}
