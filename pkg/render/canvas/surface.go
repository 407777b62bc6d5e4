package canvas

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
)

// Surface is a layered raster target: one [GG] per [frame.Layer],
// composited in [frame.Layers] order.
type Surface struct {
	width, height int
	layers        map[frame.Layer]*GG
	backdrop      color.Color
}

// NewSurface allocates a surface for a width x height CSS-pixel canvas at
// the given device pixel ratio. A ratio <= 0 is treated as 1.
func NewSurface(width, height, ratio float64) *Surface {
	if ratio <= 0 {
		ratio = 1
	}
	w := int(math.Ceil(width * ratio))
	h := int(math.Ceil(height * ratio))
	s := &Surface{width: w, height: h, layers: make(map[frame.Layer]*GG, len(frame.Layers))}
	for _, l := range frame.Layers {
		s.layers[l] = NewGG(w, h)
	}
	return s
}

// Bounds returns the surface size in device pixels.
func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// Layer returns the canvas for l.
func (s *Surface) Layer(l frame.Layer) Canvas { return s.layers[l] }

// SetBackdrop fills the composited image with c before any layer is drawn.
// The default is transparent.
func (s *Surface) SetBackdrop(c color.Color) { s.backdrop = c }

// Err joins the drawing errors of every layer.
func (s *Surface) Err() error {
	var errs []error
	for _, l := range frame.Layers {
		errs = append(errs, s.layers[l].Err())
	}
	return errors.Join(errs...)
}

// Balanced reports whether every Push on every layer has been popped.
func (s *Surface) Balanced() bool {
	for _, g := range s.layers {
		if g.Depth() != 0 {
			return false
		}
	}
	return true
}

// Image composites the layers, background first.
func (s *Surface) Image() *image.RGBA {
	dst := image.NewRGBA(s.Bounds())
	if s.backdrop != nil {
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(s.backdrop), image.Point{}, xdraw.Src)
	}
	for _, l := range frame.Layers {
		src := s.layers[l].Context().Image()
		xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Over)
	}
	return dst
}

// EncodePNG writes the composited image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := gg.NewContextForImage(s.Image()).EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}
