package position

import (
	"fmt"
	"strings"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
)

// Offsets from the plot edges used by named corner positions.
const (
	CornerDX = 20.0
	CornerDY = 40.0
)

// Origin is a frame-anchored position: a literal point or a function of the
// plot area size.
type Origin = functor.Value[frame.Size, frame.Point]

// At returns a literal origin.
func At(x, y float64) Origin { return functor.Of[frame.Size](frame.Point{X: x, Y: y}) }

// OriginFunc wraps an origin function.
func OriginFunc(fn func(frame.Size) frame.Point) Origin { return functor.Func(fn) }

// ResolveOrigin resolves o against the plot size. Unset origins are [0, 0].
func ResolveOrigin(o Origin, size frame.Size) frame.Point {
	return o.Resolve(size)
}

// Named is a corner position relative to the plot area.
type Named int

const (
	// None keeps the configured origin.
	None Named = iota
	TopRight
	BottomLeft
	BottomRight
)

func (n Named) String() string {
	switch n {
	case TopRight:
		return "topRight"
	case BottomLeft:
		return "bottomLeft"
	case BottomRight:
		return "bottomRight"
	}
	return ""
}

// ParseNamed parses a corner name; the empty string yields None.
func ParseNamed(s string) (Named, error) {
	switch strings.ToLower(s) {
	case "":
		return None, nil
	case "topright", "top-right":
		return TopRight, nil
	case "bottomleft", "bottom-left":
		return BottomLeft, nil
	case "bottomright", "bottom-right":
		return BottomRight, nil
	}
	return None, fmt.Errorf("invalid position: %q (must be topRight, bottomLeft or bottomRight)", s)
}

// Place applies a named corner to origin. Components the corner does not
// set keep the origin's value. TopRight and BottomRight return anchor "end"
// so text grows leftward; every other case returns "".
func Place(origin frame.Point, n Named, size frame.Size) (frame.Point, string) {
	switch n {
	case TopRight:
		return frame.Point{X: size.Width - CornerDX, Y: origin.Y}, "end"
	case BottomLeft:
		return frame.Point{X: origin.X, Y: size.Height - CornerDY}, ""
	case BottomRight:
		return frame.Point{X: size.Width - CornerDX, Y: size.Height - CornerDY}, "end"
	}
	return origin, ""
}
