package canvas

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
)

var fonts struct {
	once    sync.Once
	regular *text.FontSource
	bold    *text.FontSource
	err     error
}

func loadFonts() {
	fonts.regular, fonts.err = text.NewFontSource(goregular.TTF)
	if fonts.err != nil {
		return
	}
	fonts.bold, fonts.err = text.NewFontSource(gobold.TTF)
}

// fontSource returns the embedded Go font for the requested weight.
// Font families are not resolved; every family maps to Go Regular or Go Bold.
func fontSource(bold bool) (*text.FontSource, error) {
	fonts.once.Do(loadFonts)
	if fonts.err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, fonts.err, "load embedded fonts")
	}
	if bold {
		return fonts.bold, nil
	}
	return fonts.regular, nil
}

type paint struct {
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	font      Font
}

type faceKey struct {
	bold bool
	size float64
}

// GG is a [Canvas] backed by a gogpu/gg context.
//
// gg's own Push/Pop only cover the transform, clip and mask, so GG keeps a
// parallel stack for the paint state.
//
// Malformed colours do not abort drawing. The first error is kept and
// reported by [GG.Err]; the previous colour stays in effect.
type GG struct {
	dc    *gg.Context
	paint paint
	saved []paint
	faces map[faceKey]text.Face
	err   error
}

// NewGG returns a transparent canvas of the given device pixel size.
func NewGG(width, height int) *GG {
	return &GG{
		dc: gg.NewContext(width, height),
		paint: paint{
			fill:      color.Black,
			stroke:    color.Black,
			lineWidth: 1,
			font:      Font{Family: SystemFontFamily, Size: 10, Weight: WeightNormal},
		},
		faces: make(map[faceKey]text.Face),
	}
}

// Context exposes the underlying gg context.
func (g *GG) Context() *gg.Context { return g.dc }

// Err returns the first error encountered while drawing.
func (g *GG) Err() error { return g.err }

// Depth returns the number of unmatched Push calls.
func (g *GG) Depth() int { return len(g.saved) }

func (g *GG) record(err error) {
	if err != nil && g.err == nil {
		g.err = err
	}
}

func (g *GG) Push() {
	g.dc.Push()
	g.saved = append(g.saved, g.paint)
}

func (g *GG) Pop() {
	if len(g.saved) == 0 {
		return
	}
	g.dc.Pop()
	g.paint = g.saved[len(g.saved)-1]
	g.saved = g.saved[:len(g.saved)-1]
}

func (g *GG) Identity()              { g.dc.Identity() }
func (g *GG) Scale(x, y float64)     { g.dc.Scale(x, y) }
func (g *GG) Translate(x, y float64) { g.dc.Translate(x, y) }
func (g *GG) Rotate(radians float64) { g.dc.Rotate(radians) }

func (g *GG) SetFont(f Font) {
	if f.Size <= 0 {
		g.record(errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", f.Size))
		return
	}
	g.paint.font = f
}

func (g *GG) face(bold bool, size float64) text.Face {
	key := faceKey{bold: bold, size: size}
	if f, ok := g.faces[key]; ok {
		return f
	}
	src, err := fontSource(bold)
	if err != nil {
		g.record(err)
		return nil
	}
	f := src.Face(size)
	g.faces[key] = f
	return f
}

// MeasureString returns the advance width of s in user-space units.
func (g *GG) MeasureString(s string) float64 {
	f := g.face(g.paint.font.Bold(), g.paint.font.Size)
	if f == nil {
		return 0
	}
	return f.Advance(s)
}

func (g *GG) setColor(dst *color.Color, s string) {
	c, err := ParseColor(s)
	if err != nil {
		g.record(err)
		return
	}
	*dst = c
}

func (g *GG) SetFillStyle(c string)   { g.setColor(&g.paint.fill, c) }
func (g *GG) SetStrokeStyle(c string) { g.setColor(&g.paint.stroke, c) }
func (g *GG) SetLineWidth(w float64)  { g.paint.lineWidth = w }

func (g *GG) FillRect(x, y, w, h float64) {
	g.dc.DrawRectangle(x, y, w, h)
	g.dc.SetColor(g.paint.fill)
	g.record(g.dc.Fill())
}

func (g *GG) StrokeRect(x, y, w, h float64) {
	g.dc.DrawRectangle(x, y, w, h)
	g.stroke()
}

func (g *GG) StrokeLine(x1, y1, x2, y2 float64) {
	g.dc.DrawLine(x1, y1, x2, y2)
	g.stroke()
}

func (g *GG) stroke() {
	g.dc.SetColor(g.paint.stroke)
	g.dc.SetLineWidth(g.paint.lineWidth)
	g.record(g.dc.Stroke())
}

// FillText draws s in user space. gg maps glyphs through the current
// transform, so scale and rotation apply to the run as a whole.
func (g *GG) FillText(s string, x, y float64, align frame.Align) {
	f := g.face(g.paint.font.Bold(), g.paint.font.Size)
	if f == nil || s == "" {
		return
	}
	g.dc.SetFont(f)
	g.dc.SetColor(g.paint.fill)
	g.dc.DrawString(s, x-f.Advance(s)*align.Anchor(), y)
}

// SetLogger routes gg's internal diagnostics through l.
// Pass nil to silence them again.
func SetLogger(l *slog.Logger) { gg.SetLogger(l) }
