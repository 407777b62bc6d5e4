package svg

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
)

const (
	// defaultTextFill is the SVG initial fill.
	defaultTextFill = "#000000"
	degToRad        = math.Pi / 180
)

// inherited carries the presentation attributes a subtree inherits.
type inherited struct {
	font   Font
	fill   string
	anchor string
}

func (in inherited) withFont(f Font) inherited {
	if f.Family != "" {
		in.font.Family = f.Family
	}
	if f.Size > 0 {
		in.font.Size = f.Size
	}
	if f.Weight != "" {
		in.font.Weight = f.Weight
	}
	return in
}

// Paint replays an element tree onto c, so declarative overlays can be
// rasterised next to canvas overlays. Every group is drawn in its own
// scope; c is left as it was found.
//
// Only the subset of SVG the package emits is understood: translate and
// rotate transforms, solid fills and strokes, and left-to-right text runs
// honouring text-anchor, tspan x and dy.
func Paint(c canvas.Canvas, el Element) {
	canvas.Scope(c, func() {
		paint(c, el, inherited{font: Font{Family: canvas.SystemFontFamily, Size: 16}, fill: defaultTextFill})
	})
}

func paint(c canvas.Canvas, el Element, in inherited) {
	switch e := el.(type) {
	case *Group:
		if e.TextAnchor != "" {
			in.anchor = e.TextAnchor
		}
		canvas.Scope(c, func() {
			applyTransform(c, e.Transform)
			for _, child := range e.Children {
				paint(c, child, in)
			}
		})
	case *Rect:
		if visible(e.Fill) {
			c.SetFillStyle(e.Fill)
			c.FillRect(e.X, e.Y, e.Width, e.Height)
		}
		if visible(e.Stroke) {
			c.SetStrokeStyle(e.Stroke)
			c.SetLineWidth(or(e.StrokeWidth, 1))
			c.StrokeRect(e.X, e.Y, e.Width, e.Height)
		}
	case *Line:
		if visible(e.Stroke) {
			c.SetStrokeStyle(e.Stroke)
			c.SetLineWidth(or(e.StrokeWidth, 1))
			c.StrokeLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	case *Text:
		paintText(c, e, in)
	}
}

// run is one flattened span with its resolved presentation.
type run struct {
	text string
	font Font
	fill string
	x    *float64
	dy   float64
}

func flatten(spans []Span, in inherited, out []run) []run {
	for _, s := range spans {
		sin := in.withFont(s.Font)
		if s.Fill != "" {
			sin.fill = s.Fill
		}
		out = append(out, run{text: s.Text, font: sin.font, fill: sin.fill, x: s.X, dy: s.DY})
		out = flatten(s.Children, sin, out)
	}
	return out
}

func paintText(c canvas.Canvas, t *Text, in inherited) {
	in = in.withFont(t.Font)
	if t.Fill != "" {
		in.fill = t.Fill
	}
	if t.TextAnchor != "" {
		in.anchor = t.TextAnchor
	}
	runs := flatten(t.Spans, in, nil)
	if len(runs) == 0 {
		return
	}

	// Runs are laid out in chunks; a run with an absolute x starts a new one.
	type chunk struct {
		x, y  float64
		runs  []run
		width float64
	}
	var chunks []chunk
	cur := chunk{x: t.X, y: t.Y}
	for _, r := range runs {
		if r.x != nil && len(cur.runs) > 0 {
			chunks = append(chunks, cur)
			cur = chunk{x: *r.x, y: cur.y}
		} else if r.x != nil {
			cur.x = *r.x
		}
		cur.y += r.dy
		c.SetFont(canvasFont(r.font))
		cur.width += c.MeasureString(r.text)
		cur.runs = append(cur.runs, r)
	}
	chunks = append(chunks, cur)

	canvas.Scope(c, func() {
		for _, ch := range chunks {
			x := ch.x - ch.width*anchorFraction(in.anchor)
			for _, r := range ch.runs {
				c.SetFont(canvasFont(r.font))
				if r.text != "" {
					c.SetFillStyle(r.fill)
					c.FillText(r.text, x, ch.y, frame.AlignLeft)
				}
				x += c.MeasureString(r.text)
			}
		}
	})
}

func canvasFont(f Font) canvas.Font {
	weight := canvas.WeightNormal
	switch f.Weight {
	case "bold", "bolder":
		weight = canvas.WeightBold
	default:
		if n, err := strconv.Atoi(f.Weight); err == nil {
			weight = n
		}
	}
	return canvas.Font{Family: f.Family, Size: f.Size, Weight: weight}
}

func anchorFraction(anchor string) float64 {
	switch anchor {
	case "middle":
		return 0.5
	case "end":
		return 1
	}
	return 0
}

func visible(p string) bool {
	return p != "" && p != "none" && p != "transparent"
}

func or(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

// applyTransform applies the translate and rotate functions of an SVG
// transform list, left to right. Other functions are ignored.
func applyTransform(c canvas.Canvas, transform string) {
	for _, fn := range parseTransform(transform) {
		switch fn.name {
		case "translate":
			var y float64
			if len(fn.args) > 1 {
				y = fn.args[1]
			}
			if len(fn.args) > 0 {
				c.Translate(fn.args[0], y)
			}
		case "rotate":
			if len(fn.args) > 0 {
				c.Rotate(fn.args[0] * degToRad)
			}
		}
	}
}

type transformFunc struct {
	name string
	args []float64
}

func parseTransform(s string) []transformFunc {
	var out []transformFunc
	for _, part := range strings.Split(s, ")") {
		name, rawArgs, ok := strings.Cut(part, "(")
		if !ok {
			continue
		}
		fn := transformFunc{name: strings.TrimSpace(name)}
		for _, a := range strings.FieldsFunc(rawArgs, func(r rune) bool { return r == ',' || r == ' ' }) {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				break
			}
			fn.args = append(fn.args, v)
		}
		out = append(out, fn)
	}
	return out
}
