package scene

import (
	"math"

	"github.com/matzehuels/chartoverlay/pkg/frame"
)

// LinearScale maps a continuous domain onto a pixel range.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

var _ frame.Scale = LinearScale{}

// Map returns the pixel position of v. A degenerate domain maps every value
// to the middle of the range.
func (s LinearScale) Map(v float64) float64 {
	d := s.Domain[1] - s.Domain[0]
	if d == 0 {
		return (s.Range[0] + s.Range[1]) / 2
	}
	return s.Range[0] + (v-s.Domain[0])/d*(s.Range[1]-s.Range[0])
}

// IndexScale spreads n data points across width pixels, first point at 0
// and last point at width.
func IndexScale(n int, width float64) LinearScale {
	return LinearScale{Domain: [2]float64{0, float64(max(n-1, 1))}, Range: [2]float64{0, width}}
}

// Extent returns the smallest and largest finite values stored under keys
// across data. ok is false when no value was found.
func Extent(data []*frame.Datum, keys ...string) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, d := range data {
		for _, k := range keys {
			v, present := d.Get(k)
			if !present || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi, ok = math.Min(lo, v), math.Max(hi, v), true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// ValueScale maps [lo, hi] widened by pad (a fraction of the span) onto
// [height, 0], so larger values sit higher on the chart.
func ValueScale(lo, hi, height, pad float64) LinearScale {
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	return LinearScale{
		Domain: [2]float64{lo - span*pad, hi + span*pad},
		Range:  [2]float64{height, 0},
	}
}
