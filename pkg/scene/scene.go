// Package scene hosts a set of overlays over one chart.
//
// A [Scene] keeps overlays in declaration order and enforces the paint
// contract: every background-layer overlay is drawn before any
// foreground-layer overlay, and within a layer declaration order is paint
// order. [Scene.Paint] draws onto a layered canvas, [Scene.Document] builds
// an SVG document and [Scene.Interested] tells an event loop which overlays
// to redraw for an event.
//
// Scenes are usually built from a TOML file with [Load] and [Build].
package scene

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/observability"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
)

// Scene is an ordered set of overlays.
type Scene struct {
	overlays []overlay.Overlay
}

// New returns a scene holding overlays in the given order.
func New(overlays ...overlay.Overlay) *Scene {
	s := &Scene{}
	for _, o := range overlays {
		s.Add(o)
	}
	return s
}

// Add appends o. Nil overlays are ignored.
func (s *Scene) Add(o overlay.Overlay) {
	if o != nil {
		s.overlays = append(s.overlays, o)
	}
}

// Len returns the number of overlays.
func (s *Scene) Len() int { return len(s.overlays) }

// Overlays returns the overlays in declaration order.
func (s *Scene) Overlays() []overlay.Overlay { return slices.Clone(s.overlays) }

// Ordered returns the overlays in paint order: background layer first,
// declaration order within a layer.
func (s *Scene) Ordered() []overlay.Overlay {
	out := slices.Clone(s.overlays)
	slices.SortStableFunc(out, func(a, b overlay.Overlay) int {
		return int(a.Layer()) - int(b.Layer())
	})
	return out
}

// Interested returns, in paint order, the overlays that redraw on t.
func (s *Scene) Interested(t frame.Trigger) []overlay.Overlay {
	var out []overlay.Overlay
	for _, o := range s.Ordered() {
		if o.Triggers().Has(t) {
			out = append(out, o)
		}
	}
	return out
}

// Kind names an overlay's type for logs and tables, e.g. "tooltip.Group".
func Kind(o overlay.Overlay) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", o), "*")
}

// Paint draws every overlay onto layers. Canvas overlays draw themselves;
// declarative overlays are rendered and replayed into their layer, offset
// by the frame's margins. The first failing overlay aborts the frame.
func (s *Scene) Paint(ctx context.Context, layers overlay.Layers, f *frame.Frame) error {
	return s.each(ctx, "canvas", f, func(o overlay.Overlay) error {
		return paintOverlay(ctx, layers, f, o)
	})
}

func paintOverlay(ctx context.Context, layers overlay.Layers, f *frame.Frame, o overlay.Overlay) error {
	switch o := o.(type) {
	case overlay.Drawer:
		return o.Draw(ctx, layers, f)
	case overlay.Renderer:
		el, err := o.Render(ctx, f)
		if err != nil {
			return err
		}
		c := layers.Layer(o.Layer())
		ratio := f.PixelRatio()
		canvas.Scope(c, func() {
			c.Identity()
			c.Scale(ratio, ratio)
			c.Translate(f.Margin.Left, f.Margin.Top)
			svg.Paint(c, el)
		})
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "overlay %s can neither draw nor render", Kind(o))
}

// Render returns the SVG elements of every overlay in paint order, in plot
// coordinates. Overlays that only draw onto a canvas are skipped.
func (s *Scene) Render(ctx context.Context, f *frame.Frame) ([]svg.Element, error) {
	var out []svg.Element
	err := s.each(ctx, "svg", f, func(o overlay.Overlay) error {
		r, ok := o.(overlay.Renderer)
		if !ok {
			log.FromContext(ctx).Debug("skipping canvas-only overlay", "kind", Kind(o))
			return nil
		}
		el, err := r.Render(ctx, f)
		if err != nil {
			return err
		}
		out = append(out, el)
		return nil
	})
	return out, err
}

// Document wraps the rendered overlays in a full SVG document sized to the
// canvas, with the plot area offset by the frame's margins.
func (s *Scene) Document(ctx context.Context, f *frame.Frame, title, backdrop string) (svg.Document, error) {
	elems, err := s.Render(ctx, f)
	if err != nil {
		return svg.Document{}, err
	}
	plot := &svg.Group{Transform: svg.Translate(f.Margin.Left, f.Margin.Top), Class: "chartoverlay-plot"}
	plot.Add(elems...)
	return svg.Document{
		Width:      f.Width + f.Margin.Left + f.Margin.Right,
		Height:     f.Height + f.Margin.Top + f.Margin.Bottom,
		Title:      title,
		Background: backdrop,
		Elements:   []svg.Element{plot},
	}, nil
}

// each runs fn over the overlays in paint order, reporting timings to the
// frame hooks.
func (s *Scene) each(ctx context.Context, target string, f *frame.Frame, fn func(overlay.Overlay) error) (err error) {
	hooks := observability.Frame()
	start := time.Now()
	hooks.OnFrameStart(ctx, target, len(s.overlays))
	defer func() { hooks.OnFrameComplete(ctx, target, time.Since(start), err) }()

	if err := f.Validate(); err != nil {
		return err
	}
	for i, o := range s.Ordered() {
		began := time.Now()
		oerr := fn(o)
		hooks.OnOverlayDrawn(ctx, Kind(o), o.Layer().String(), time.Since(began), oerr)
		if oerr != nil {
			return fmt.Errorf("overlay %d (%s): %w", i, Kind(o), oerr)
		}
	}
	return nil
}

// Trace is the recorded canvas activity of one overlay.
type Trace struct {
	Kind     string
	Layer    frame.Layer
	Triggers frame.Triggers
	Ops      []canvas.Op
	Balanced bool
	Err      error
}

// recording routes every layer to one recorder.
type recording struct{ *canvas.Recorder }

func (r recording) Layer(frame.Layer) canvas.Canvas { return r.Recorder }

// Trace paints each overlay onto its own [canvas.Recorder] and returns the
// recorded calls in paint order. measure, when non-nil, replaces the
// recorder's glyph-width estimate. Overlay failures are reported per trace
// instead of aborting; only an invalid frame fails the whole trace.
func (s *Scene) Trace(ctx context.Context, f *frame.Frame, measure func(string, canvas.Font) float64) ([]Trace, error) {
	var out []Trace
	err := s.each(ctx, "inspect", f, func(o overlay.Overlay) error {
		rec := &canvas.Recorder{Measure: measure}
		err := paintOverlay(ctx, recording{rec}, f, o)
		out = append(out, Trace{
			Kind:     Kind(o),
			Layer:    o.Layer(),
			Triggers: o.Triggers(),
			Ops:      rec.Ops,
			Balanced: rec.Balanced(),
			Err:      err,
		})
		return nil
	})
	return out, err
}
