package canvas

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/chartoverlay/pkg/frame"
)

// Op is one recorded drawing call.
type Op struct {
	Name string
	Args []float64
	Text string // string argument: colour, glyph run or font
}

func (o Op) String() string {
	args := make([]string, len(o.Args))
	for i, a := range o.Args {
		args[i] = fmt.Sprintf("%g", a)
	}
	if o.Text != "" {
		args = append([]string{fmt.Sprintf("%q", o.Text)}, args...)
	}
	return o.Name + "(" + strings.Join(args, ", ") + ")"
}

// Recorder is a [Canvas] that records calls instead of drawing.
// It backs the inspect command and tests that check call order and
// save/restore balance.
type Recorder struct {
	Ops []Op

	// Measure returns a glyph run's width; nil uses half the font size per rune.
	Measure func(s string, f Font) float64

	font     Font
	depth    int
	maxDepth int
	underpop int
}

func (r *Recorder) add(name, text string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Text: text, Args: args})
}

// Depth is the number of unmatched Push calls.
func (r *Recorder) Depth() int { return r.depth }

// MaxDepth is the deepest nesting reached.
func (r *Recorder) MaxDepth() int { return r.maxDepth }

// Balanced reports whether every Push was popped and no Pop ran on an
// empty stack.
func (r *Recorder) Balanced() bool { return r.depth == 0 && r.underpop == 0 }

// Names returns the recorded call names in order.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Name
	}
	return out
}

// Find returns the recorded calls named name.
func (r *Recorder) Find(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Reset clears the recording.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.depth, r.maxDepth, r.underpop = 0, 0, 0
}

func (r *Recorder) Push() {
	r.depth++
	r.maxDepth = max(r.maxDepth, r.depth)
	r.add("push", "")
}

func (r *Recorder) Pop() {
	if r.depth == 0 {
		r.underpop++
	} else {
		r.depth--
	}
	r.add("pop", "")
}

func (r *Recorder) Identity()              { r.add("identity", "") }
func (r *Recorder) Scale(x, y float64)     { r.add("scale", "", x, y) }
func (r *Recorder) Translate(x, y float64) { r.add("translate", "", x, y) }
func (r *Recorder) Rotate(radians float64) { r.add("rotate", "", radians) }

func (r *Recorder) SetFont(f Font) {
	r.font = f
	weight := "normal"
	if f.Bold() {
		weight = "bold"
	}
	r.add("font", fmt.Sprintf("%s %gpx %s", weight, f.Size, f.Family))
}

func (r *Recorder) MeasureString(s string) float64 {
	r.add("measure", s)
	if r.Measure != nil {
		return r.Measure(s, r.font)
	}
	return float64(utf8.RuneCountInString(s)) * r.font.Size * 0.5
}

func (r *Recorder) SetFillStyle(c string)   { r.add("fillStyle", c) }
func (r *Recorder) SetStrokeStyle(c string) { r.add("strokeStyle", c) }
func (r *Recorder) SetLineWidth(w float64)  { r.add("lineWidth", "", w) }

func (r *Recorder) FillRect(x, y, w, h float64)       { r.add("fillRect", "", x, y, w, h) }
func (r *Recorder) StrokeRect(x, y, w, h float64)     { r.add("strokeRect", "", x, y, w, h) }
func (r *Recorder) StrokeLine(x1, y1, x2, y2 float64) { r.add("line", "", x1, y1, x2, y2) }

func (r *Recorder) FillText(s string, x, y float64, align frame.Align) {
	r.add("fillText", s, x, y, align.Anchor())
}
