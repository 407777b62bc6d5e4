// Package position resolves declarative overlay positions into anchors.
//
// Datum-bound overlays (labels) describe their position with an X and a Y
// specification, each a literal pixel value or a function of the frame's
// scales, the bound datum and the plot data. Frame-anchored overlays
// (tooltips) use an [Origin] that is a literal point or a function of the
// plot area size, optionally overridden by a [Named] corner.
package position

import (
	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/functor"
)

// XArgs is the context an X position is resolved against.
type XArgs struct {
	XScale    frame.Scale
	XAccessor frame.Accessor
	Datum     *frame.Datum
	PlotData  []*frame.Datum
}

// YArgs is the context a Y position is resolved against.
type YArgs struct {
	YScale   frame.Scale
	Datum    *frame.Datum
	PlotData []*frame.Datum
}

// X is a horizontal position: a literal pixel value or a function of XArgs.
type X = functor.Value[XArgs, float64]

// Y is a vertical position: a literal pixel value or a function of YArgs.
type Y = functor.Value[YArgs, float64]

// AtX returns a literal horizontal position.
func AtX(px float64) X { return functor.Of[XArgs](px) }

// AtY returns a literal vertical position.
func AtY(px float64) Y { return functor.Of[YArgs](px) }

// XFunc wraps a horizontal position function.
func XFunc(fn func(XArgs) float64) X { return functor.Func(fn) }

// YFunc wraps a vertical position function.
func YFunc(fn func(YArgs) float64) Y { return functor.Func(fn) }

// DatumX is the default horizontal position: the datum's native x pixel.
func DatumX(a XArgs) float64 {
	return a.XScale.Map(a.XAccessor(a.Datum))
}

// ValueY positions at yScale(datum[key]); a missing key maps the zero value.
func ValueY(key string) Y {
	return YFunc(func(a YArgs) float64 {
		v, _ := a.Datum.Get(key)
		return a.YScale.Map(v)
	})
}

// ResolveX resolves x against f. An unset x falls back to [DatumX], which
// requires a bound datum, a scale and an accessor.
func ResolveX(x X, f *frame.Frame) (float64, error) {
	args := XArgs{XScale: f.XScale, XAccessor: f.XAccessor, Datum: f.Datum, PlotData: f.PlotData}
	if x.IsSet() {
		return x.Resolve(args), nil
	}
	switch {
	case f.Datum == nil:
		return 0, errors.New(errors.ErrCodeMissingInput, "default x position needs a datum")
	case f.XScale == nil || f.XAccessor == nil:
		return 0, errors.New(errors.ErrCodeMissingInput, "default x position needs a horizontal scale and accessor")
	}
	return DatumX(args), nil
}

// ResolveY resolves y against f. Y has no default: an unset y is an error.
// Callers must make sure a y function that reads the datum gets one.
func ResolveY(y Y, f *frame.Frame) (float64, error) {
	if !y.IsSet() {
		return 0, errors.New(errors.ErrCodeMissingInput, "y position is required")
	}
	return y.Resolve(YArgs{YScale: f.YScale, Datum: f.Datum, PlotData: f.PlotData}), nil
}

// Resolve computes the anchor for an X/Y position pair.
func Resolve(x X, y Y, f *frame.Frame) (frame.Anchor, error) {
	px, err := ResolveX(x, f)
	if err != nil {
		return frame.Anchor{}, err
	}
	py, err := ResolveY(y, f)
	if err != nil {
		return frame.Anchor{}, err
	}
	return frame.Anchor{X: px, Y: py}, nil
}
