package frame

import (
	"fmt"
	"strings"
)

// Point is a position in the drawing surface's local coordinate space.
type Point struct {
	X, Y float64
}

// Anchor is the resolved pixel position an overlay is rooted at.
type Anchor = Point

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Size is a width/height extent.
type Size struct {
	Width, Height float64
}

// Align is a canvas text alignment.
type Align string

// Text alignments understood by both drawing surfaces.
const (
	AlignStart  Align = "start"
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
	AlignRight  Align = "right"
)

// Anchor returns the fraction of the glyph run's width that lies left of the
// drawing origin: 0 for start/left, 0.5 for center, 1 for end/right.
// An empty alignment is treated as center.
func (a Align) Anchor() float64 {
	switch a {
	case AlignEnd, AlignRight:
		return 1
	case AlignStart, AlignLeft:
		return 0
	default:
		return 0.5
	}
}

// TextAnchor returns the SVG text-anchor equivalent.
func (a Align) TextAnchor() string {
	switch a {
	case AlignEnd, AlignRight:
		return "end"
	case AlignStart, AlignLeft:
		return "start"
	default:
		return "middle"
	}
}

// ParseAlign parses an alignment name. The empty string yields center.
func ParseAlign(s string) (Align, error) {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlignCenter, nil
	case AlignStart, AlignLeft, AlignCenter, AlignEnd, AlignRight:
		return a, nil
	}
	return "", fmt.Errorf("invalid text alignment: %q (must be start, left, center, end or right)", s)
}

// Layer is the draw target an overlay paints into.
// Background-layer overlays are painted before foreground-layer overlays.
type Layer int

const (
	// LayerBackground sits beneath the data series.
	LayerBackground Layer = iota
	// LayerForeground renders above the series and axes.
	LayerForeground
)

// Layers lists every layer in paint order.
var Layers = []Layer{LayerBackground, LayerForeground}

func (l Layer) String() string {
	if l == LayerForeground {
		return "foreground"
	}
	return "background"
}

// ParseLayer accepts "background"/"bottom" and "foreground"/"top".
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(s) {
	case "", "background", "bottom", "bg":
		return LayerBackground, nil
	case "foreground", "top", "axes":
		return LayerForeground, nil
	}
	return LayerBackground, fmt.Errorf("invalid layer: %q (must be background or foreground)", s)
}

// Trigger is an event category that causes the host to redraw an overlay.
type Trigger uint8

const (
	TriggerPan Trigger = 1 << iota
	TriggerPointerMove
	TriggerZoom
)

// Triggers is a set of redraw triggers.
type Triggers = Trigger

// Has reports whether every trigger in o is present in t.
func (t Trigger) Has(o Trigger) bool { return o != 0 && t&o == o }

func (t Trigger) String() string {
	var parts []string
	if t&TriggerPan != 0 {
		parts = append(parts, "pan")
	}
	if t&TriggerPointerMove != 0 {
		parts = append(parts, "mousemove")
	}
	if t&TriggerZoom != 0 {
		parts = append(parts, "zoom")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
