package background

import "math"

// Sides holds a padding value per edge.
type Sides struct {
	Top, Right, Bottom, Left float64
}

type paddingShape uint8

const (
	shapeNone paddingShape = iota
	shapeUniform
	shapeAxes
	shapeEdges
)

// Padding is the space between a background box and its content. Exactly
// one of three shapes is active: a single value for every side, a
// horizontal/vertical pair, or explicit per-side values. The zero Padding
// is no padding.
type Padding struct {
	shape paddingShape
	sides Sides
}

// Uniform applies p to all four sides.
func Uniform(p float64) Padding {
	return Padding{shape: shapeUniform, sides: Sides{Top: p, Right: p, Bottom: p, Left: p}}
}

// Axes applies x to the left and right sides and y to the top and bottom.
func Axes(x, y float64) Padding {
	return Padding{shape: shapeAxes, sides: Sides{Top: y, Right: x, Bottom: y, Left: x}}
}

// Edges uses explicit per-side values; omitted sides are zero.
func Edges(s Sides) Padding {
	return Padding{shape: shapeEdges, sides: s}
}

// Sides returns the resolved per-side padding.
func (p Padding) Sides() Sides { return p.sides }

// IsZero reports whether no padding shape was supplied.
func (p Padding) IsZero() bool { return p.shape == shapeNone }

// Sniff builds a Padding from a loosely typed configuration value, as
// produced by TOML or JSON decoding. Numbers become [Uniform]; maps with an
// "x" or "y" key become [Axes]; maps with any of "top", "right", "bottom",
// "left" become [Edges]. Anything else is treated as no padding.
func Sniff(v any) Padding {
	switch v := v.(type) {
	case Padding:
		return v
	case Sides:
		return Edges(v)
	case map[string]any:
		return sniffMap(v)
	}
	if n, ok := number(v); ok {
		return Uniform(n)
	}
	return Padding{}
}

func sniffMap(m map[string]any) Padding {
	_, hasX := m["x"]
	_, hasY := m["y"]
	if hasX || hasY {
		x, _ := number(m["x"])
		y, _ := number(m["y"])
		return Axes(x, y)
	}

	var s Sides
	found := false
	for key, dst := range map[string]*float64{"top": &s.Top, "right": &s.Right, "bottom": &s.Bottom, "left": &s.Left} {
		if raw, ok := m[key]; ok {
			found = true
			*dst, _ = number(raw)
		}
	}
	if !found {
		return Padding{}
	}
	return Edges(s)
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
