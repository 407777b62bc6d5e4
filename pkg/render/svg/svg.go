// Package svg is the declarative drawing target.
//
// Overlays describe themselves as a tree of [Element]s: groups carrying a
// transform, rectangles, lines and text runs with nested spans. Building the
// tree has no side effects; [Encode] serialises it into an SVG document and
// [Marshal] into a fragment.
package svg

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/chartoverlay/pkg/overlay/background"
)

// Element is a node of the declarative tree.
type Element interface {
	encode(w *writer)
}

// Group is an SVG <g>.
type Group struct {
	Transform  string
	Class      string
	TextAnchor string
	Children   []Element
}

// Add appends non-nil children and returns g.
func (g *Group) Add(children ...Element) *Group {
	for _, c := range children {
		if c != nil {
			g.Children = append(g.Children, c)
		}
	}
	return g
}

// Rect is an SVG <rect>.
type Rect struct {
	X, Y, Width, Height float64
	Fill, Stroke        string
	StrokeWidth         float64
	Class               string
}

// RectFromBox converts a background box into a rect. The second result is
// false when b is nil, so callers emit the rect only when a box exists.
func RectFromBox(b *background.Box) (*Rect, bool) {
	if b == nil {
		return nil, false
	}
	return &Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Fill: b.Fill, Stroke: b.Stroke}, true
}

// Line is an SVG <line>.
type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	StrokeWidth    float64
}

// Font holds the font presentation attributes shared by text and spans.
type Font struct {
	Family string
	Size   float64
	Weight string
}

// Text is an SVG <text> made of spans.
type Text struct {
	X, Y       float64
	Font       Font
	Fill       string
	TextAnchor string
	Spans      []Span
}

// Span is an SVG <tspan>. Spans nest, so a text run can hold groups of
// label/value pairs.
type Span struct {
	Text     string
	Fill     string
	Font     Font
	X        *float64 // absolute x; nil continues the run
	DY       float64
	Children []Span
}

// Float returns a pointer to v, for Span.X.
func Float(v float64) *float64 { return &v }

// Translate formats an SVG translate transform.
func Translate(x, y float64) string {
	return fmt.Sprintf("translate(%s, %s)", Num(x), Num(y))
}

// Rotate formats an SVG rotate transform in degrees.
func Rotate(deg float64) string {
	return fmt.Sprintf("rotate(%s)", Num(deg))
}

// Num formats v rounded to two decimals without trailing zeros.
func Num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
