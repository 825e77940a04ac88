// Package objective provides the scalar objective functions the optimizers
// walk: a user-sized polynomial, a sine wave, a cubic spline through picked
// points and four fixed-shape potentials.
package objective

import (
	"math"

	"github.com/copyleftdev/noviz/internal/optimization"
)

// MinInterpolationPoints is the number of picked points an interpolated
// function needs before its curve is meaningful.
const MinInterpolationPoints = 3

// Function is an objective function with fixed coefficients. A new Function
// is built whenever coefficients change.
type Function interface {
	optimization.Objective

	// Kind returns the variant
	Kind() Kind

	// Coefficients returns a copy of the coefficient list
	Coefficients() []float64

	// Formula renders the function for display
	Formula() string

	// AxisHint returns the suggested plotting window
	AxisHint() AxisHint
}

// New builds a function of the given kind. The coefficient slice is copied.
// Interpolated functions are built with NewInterpolated.
func New(kind Kind, coeffs []float64) (Function, error) {
	if err := checkArity(kind, coeffs); err != nil {
		return nil, err
	}
	c := append([]float64(nil), coeffs...)

	switch kind {
	case Polynomial:
		return &polynomial{coeffs: c}, nil
	case Sinus:
		return &sinus{coeffs: c}, nil
	case LennardJones:
		return &lennardJones{coeffs: c}, nil
	case Torsion:
		return &torsion{coeffs: c}, nil
	case BondAngle:
		return &bondAngle{coeffs: c}, nil
	case SimCrash:
		return simCrash{}, nil
	case Interpolated:
		return nil, optimization.ConfigurationError("interpolated functions are built from points").
			WithComponent("objective").WithOperation("New")
	default:
		return nil, optimization.ConfigurationError("unknown objective function kind %d", int(kind)).
			WithComponent("objective").WithOperation("New")
	}
}

func checkArity(kind Kind, coeffs []float64) error {
	switch n := kind.arity(); {
	case kind == Polynomial && len(coeffs) == 0:
		return optimization.ConfigurationError("polynomial needs at least one coefficient").
			WithComponent("objective").WithOperation("New")
	case n >= 0 && len(coeffs) != n:
		return optimization.ConfigurationError("%s expects %d coefficients, got %d", kind, n, len(coeffs)).
			WithComponent("objective").WithOperation("New")
	}
	return nil
}

// checked rejects results outside the representable domain.
func checked(kind Kind, x, y float64, derivative bool) (float64, error) {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		what := "value"
		if derivative {
			what = "derivative"
		}
		return 0, optimization.DomainErrorf("%s %s is not finite at x=%g", kind, what, x).
			WithComponent("objective").WithOperation("Evaluate")
	}
	return y, nil
}
