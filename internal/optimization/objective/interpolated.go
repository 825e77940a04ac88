package objective

import (
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/copyleftdev/noviz/internal/optimization"
)

// Point is a picked (x, y) support point of an interpolated function.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// spline is the part of the gonum cubic predictors the evaluation needs.
type spline interface {
	interp.Predictor
	PredictDerivative(x float64) float64
}

// InterpolatedFunction is a spline through picked points. The spline is
// rebuilt on every evaluation; point sets only change between edits. It is
// defined on the closed range of its points only.
type InterpolatedFunction struct {
	points []Point
}

// NewInterpolated builds an interpolated function. Points are copied and
// need at least two distinct x values; later points replace earlier ones
// with the same x.
func NewInterpolated(points []Point) (*InterpolatedFunction, error) {
	sorted := sortPoints(points)
	if len(sorted) < 2 {
		return nil, optimization.ConfigurationError("interpolation needs at least 2 distinct points, got %d", len(sorted)).
			WithComponent("objective").WithOperation("NewInterpolated")
	}
	return &InterpolatedFunction{points: append([]Point(nil), points...)}, nil
}

// sortPoints returns the points ordered by x with duplicate x values removed.
func sortPoints(points []Point) []Point {
	sorted := append([]Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	out := sorted[:0]
	for _, p := range sorted {
		if len(out) > 0 && out[len(out)-1].X == p.X {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f *InterpolatedFunction) Kind() Kind { return Interpolated }

// Points returns the support points sorted by x.
func (f *InterpolatedFunction) Points() []Point { return sortPoints(f.points) }

// Evaluate fits a spline through the sorted points and evaluates it or its
// derivative at x. Two points give the line through them, three the
// parabola through them, and more a not-a-knot cubic spline. An x outside
// the point range is a numeric domain error.
func (f *InterpolatedFunction) Evaluate(x float64, derivative bool) (float64, error) {
	sorted := sortPoints(f.points)
	if len(sorted) < 2 {
		return 0, optimization.ConfigurationError("interpolation needs at least 2 distinct points, got %d", len(sorted)).
			WithComponent("objective").WithOperation("Evaluate")
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	if !(x >= first.X && x <= last.X) {
		return 0, optimization.DomainErrorf("x=%g is outside the interpolation range [%g, %g]", x, first.X, last.X).
			WithComponent("objective").WithOperation("Evaluate")
	}

	s, err := fit(sorted)
	if err != nil {
		return 0, err
	}
	if derivative {
		return checked(Interpolated, x, s.PredictDerivative(x), true)
	}
	return checked(Interpolated, x, s.Predict(x), false)
}

func fit(points []Point) (s spline, err error) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	// gonum panics on malformed input instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = optimization.ConfigurationError("spline fit failed: %v", r).
				WithComponent("objective").WithOperation("Evaluate")
		}
	}()

	if len(points) < 4 {
		// Hermite segments with the exact slopes of the interpolating
		// polynomial reproduce it exactly.
		pc := &interp.PiecewiseCubic{}
		pc.FitWithDerivatives(xs, ys, polynomialSlopes(xs, ys))
		return pc, nil
	}

	nak := &interp.NotAKnotCubic{}
	if err := nak.Fit(xs, ys); err != nil {
		return nil, optimization.ConfigurationError("spline fit failed: %v", err).
			WithComponent("objective").WithOperation("Evaluate")
	}
	return nak, nil
}

// polynomialSlopes returns, at every x, the slope of the line (two points)
// or parabola (three points) through the points, from Newton divided
// differences.
func polynomialSlopes(xs, ys []float64) []float64 {
	d1 := (ys[1] - ys[0]) / (xs[1] - xs[0])
	var d2 float64
	if len(xs) == 3 {
		d2 = ((ys[2]-ys[1])/(xs[2]-xs[1]) - d1) / (xs[2] - xs[0])
	}
	slopes := make([]float64, len(xs))
	for i, x := range xs {
		slopes[i] = d1 + d2*((x-xs[0])+(x-xs[1]))
	}
	return slopes
}

// Coefficients flattens the points as x0, y0, x1, y1, ... in sorted order.
func (f *InterpolatedFunction) Coefficients() []float64 {
	sorted := sortPoints(f.points)
	out := make([]float64, 0, 2*len(sorted))
	for _, p := range sorted {
		out = append(out, p.X, p.Y)
	}
	return out
}

// Formula is empty: a spline through picked points has no closed form.
func (f *InterpolatedFunction) Formula() string { return "" }

func (f *InterpolatedFunction) AxisHint() AxisHint { return interpolatedAxisHint(sortPoints(f.points)) }
