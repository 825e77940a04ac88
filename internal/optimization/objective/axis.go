package objective

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AxisHint is the advisory plotting window of a function.
type AxisHint struct {
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
}

var fallbackHint = AxisHint{YMin: -10, YMax: 10, XMin: -5, XMax: 5}

// AxisHintFor returns the plotting window of the given kind and coefficients.
// For Interpolated, coefficients are flattened x0, y0, x1, y1, ... pairs.
func AxisHintFor(kind Kind, coeffs []float64) (AxisHint, error) {
	if kind == Interpolated {
		points := make([]Point, 0, len(coeffs)/2)
		for i := 0; i+1 < len(coeffs); i += 2 {
			points = append(points, Point{X: coeffs[i], Y: coeffs[i+1]})
		}
		f, err := NewInterpolated(points)
		if err != nil {
			return AxisHint{}, err
		}
		return f.AxisHint(), nil
	}
	f, err := New(kind, coeffs)
	if err != nil {
		return AxisHint{}, err
	}
	return f.AxisHint(), nil
}

func axisHint(kind Kind, c []float64) AxisHint {
	var h AxisHint
	switch kind {
	case Polynomial:
		h = AxisHint{YMin: c[0], YMax: 10, XMin: -5, XMax: 5}
	case Sinus:
		spread := 1.5 * c[1]
		h = AxisHint{YMin: c[0] - spread, YMax: c[0] + spread, XMin: -1, XMax: 2 * math.Pi / c[3]}
	case LennardJones:
		h = AxisHint{YMin: -c[0] - 1, YMax: c[0], XMin: 0, XMax: 2 * c[1]}
	case Torsion:
		h = AxisHint{YMin: -2 * c[1], YMax: 2 * c[1], XMin: -1, XMax: 10}
	case BondAngle:
		h = AxisHint{YMin: -1, YMax: 2 * c[1], XMin: -1, XMax: 5}
	case SimCrash:
		h = AxisHint{YMin: -2, YMax: 2, XMin: -5, XMax: 5}
	default:
		h = fallbackHint
	}
	return h.normalized()
}

// interpolatedAxisHint pads the bounding box of sorted points by one.
func interpolatedAxisHint(sorted []Point) AxisHint {
	if len(sorted) == 0 {
		return fallbackHint
	}
	ys := make([]float64, len(sorted))
	for i, p := range sorted {
		ys[i] = p.Y
	}
	h := AxisHint{
		YMin: floats.Min(ys) - 1,
		YMax: floats.Max(ys) + 1,
		XMin: sorted[0].X - 1,
		XMax: sorted[len(sorted)-1].X + 1,
	}
	return h.normalized()
}

// normalized orders each range, widens empty ones and replaces non-finite
// bounds with the fallback window.
func (h AxisHint) normalized() AxisHint {
	h.YMin, h.YMax = orderRange(h.YMin, h.YMax, fallbackHint.YMin, fallbackHint.YMax)
	h.XMin, h.XMax = orderRange(h.XMin, h.XMax, fallbackHint.XMin, fallbackHint.XMax)
	return h
}

func orderRange(lo, hi, fallbackLo, fallbackHi float64) (float64, float64) {
	if !finite(lo) || !finite(hi) {
		return fallbackLo, fallbackHi
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
