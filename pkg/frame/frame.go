package frame

import (
	"time"

	"github.com/matzehuels/chartoverlay/pkg/errors"
)

// Scale maps a domain value to a pixel coordinate.
type Scale interface {
	Map(v float64) float64
}

// ScaleFunc adapts a plain function to [Scale].
type ScaleFunc func(float64) float64

// Map calls f(v).
func (f ScaleFunc) Map(v float64) float64 { return f(v) }

// Accessor extracts the horizontal domain value of a datum.
type Accessor func(d *Datum) float64

// IndexAccessor returns the datum's position in the plot data.
func IndexAccessor(d *Datum) float64 { return float64(d.Index) }

// Datum is one element of the plotted time series.
type Datum struct {
	Index  int
	Time   time.Time
	Values map[string]float64
}

// Get returns the named value and whether it is present.
func (d *Datum) Get(key string) (float64, bool) {
	if d == nil || d.Values == nil {
		return 0, false
	}
	v, ok := d.Values[key]
	return v, ok
}

// Margin holds the inset of the plot area inside the canvas.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Frame is the read-only rendering context for one overlay in one redraw.
type Frame struct {
	XScale    Scale
	XAccessor Accessor
	YScale    Scale  // nil when the chart has no vertical mapping
	Datum     *Datum // nil for chart-global overlays
	PlotData  []*Datum

	// Width and Height are the chart's plot area in CSS pixels.
	Width, Height float64

	// Current is the hovered or selected item; nil means "not hovering".
	Current *Datum

	Ratio  float64
	Margin Margin

	// Origin is the chart's top-left corner inside the canvas.
	Origin Point
}

// Size returns the plot area dimensions.
func (f *Frame) Size() Size { return Size{Width: f.Width, Height: f.Height} }

// CurrentItem returns the hovered item, falling back to the last plotted datum.
// It returns nil when neither exists.
func (f *Frame) CurrentItem() *Datum {
	if f.Current != nil {
		return f.Current
	}
	if n := len(f.PlotData); n > 0 {
		return f.PlotData[n-1]
	}
	return nil
}

// PixelRatio returns Ratio, treating an unset ratio as 1.
func (f *Frame) PixelRatio() float64 {
	if f.Ratio == 0 {
		return 1
	}
	return f.Ratio
}

// WithDatum returns a shallow copy of f bound to d.
func (f *Frame) WithDatum(d *Datum) *Frame {
	c := *f
	c.Datum = d
	return &c
}

// Validate reports host contract violations that would make every overlay
// in the frame fail. It does not check optional fields.
func (f *Frame) Validate() error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidFrame, "frame is nil")
	}
	if f.XScale == nil {
		return errors.New(errors.ErrCodeInvalidFrame, "frame has no horizontal scale")
	}
	if f.XAccessor == nil {
		return errors.New(errors.ErrCodeInvalidFrame, "frame has no horizontal accessor")
	}
	if f.Ratio != 0 {
		if err := errors.ValidateRatio(f.Ratio); err != nil {
			return err
		}
	}
	return errors.ValidateDimensions(f.Width, f.Height)
}
