package scene

import (
	"context"

	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/overlay"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
)

// Series defaults.
const (
	DefaultSeriesStroke = "#1f77b4"
	DefaultLineWidth    = 1.5
)

// Series draws one data column as a polyline. It stands in for the host
// chart's own series so overlays have something to sit above or beneath.
type Series struct {
	Key       string
	Stroke    string
	LineWidth float64
	Target    frame.Layer
}

var (
	_ overlay.Drawer   = (*Series)(nil)
	_ overlay.Renderer = (*Series)(nil)
)

// Layer reports the series' draw target.
func (s *Series) Layer() frame.Layer { return s.Target }

// Triggers reports that series redraw when the visible domain changes.
func (s *Series) Triggers() frame.Triggers { return frame.TriggerPan | frame.TriggerZoom }

type segment struct{ x1, y1, x2, y2 float64 }

// segments connects consecutive data points that carry a value for Key.
// A missing value breaks the line.
func (s *Series) segments(f *frame.Frame) ([]segment, error) {
	if f.XScale == nil || f.XAccessor == nil || f.YScale == nil {
		return nil, errors.New(errors.ErrCodeMissingInput, "series %q needs horizontal and vertical scales", s.Key)
	}
	var (
		out    []segment
		prev   frame.Point
		started bool
	)
	for _, d := range f.PlotData {
		v, ok := d.Get(s.Key)
		if !ok {
			started = false
			continue
		}
		p := frame.Point{X: f.XScale.Map(f.XAccessor(d)), Y: f.YScale.Map(v)}
		if started {
			out = append(out, segment{prev.X, prev.Y, p.X, p.Y})
		}
		prev, started = p, true
	}
	return out, nil
}

func (s *Series) stroke() (string, float64) {
	stroke, width := s.Stroke, s.LineWidth
	if stroke == "" {
		stroke = DefaultSeriesStroke
	}
	if width == 0 {
		width = DefaultLineWidth
	}
	return stroke, width
}

// Draw strokes the series in plot coordinates.
func (s *Series) Draw(_ context.Context, layers overlay.Layers, f *frame.Frame) error {
	segs, err := s.segments(f)
	if err != nil {
		return err
	}
	c := layers.Layer(s.Target)
	stroke, width := s.stroke()
	ratio := f.PixelRatio()
	canvas.Scope(c, func() {
		c.Identity()
		c.Scale(ratio, ratio)
		c.Translate(f.Margin.Left, f.Margin.Top)
		c.SetStrokeStyle(stroke)
		c.SetLineWidth(width)
		for _, sg := range segs {
			c.StrokeLine(sg.x1, sg.y1, sg.x2, sg.y2)
		}
	})
	return nil
}

// Render describes the series as line segments.
func (s *Series) Render(_ context.Context, f *frame.Frame) (svg.Element, error) {
	segs, err := s.segments(f)
	if err != nil {
		return nil, err
	}
	stroke, width := s.stroke()
	g := &svg.Group{Class: "chartoverlay-series"}
	for _, sg := range segs {
		g.Add(&svg.Line{X1: sg.x1, Y1: sg.y1, X2: sg.x2, Y2: sg.y2, Stroke: stroke, StrokeWidth: width})
	}
	return g, nil
}
