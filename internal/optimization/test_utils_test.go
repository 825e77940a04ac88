package optimization

import (
	"math"
	"testing"
)

// quadratic is f(x) = a*x^2 + c, used as a simple convex objective.
type quadratic struct {
	a, c float64
}

func (q quadratic) Evaluate(x float64, derivative bool) (float64, error) {
	if derivative {
		return 2 * q.a * x, nil
	}
	return q.a*x*x + q.c, nil
}

// failingObjective always reports a numeric domain failure.
type failingObjective struct{}

func (failingObjective) Evaluate(x float64, derivative bool) (float64, error) {
	return math.NaN(), NumericDomainError(0, nil)
}

// pushY pushes a record with one point per y value.
func pushY(t *testing.T, b *Buffer, line int, ys ...float64) {
	t.Helper()

	points := make([]Point, len(ys))
	for i, y := range ys {
		points[i] = Point{X: float64(i), Y: y}
	}
	if err := b.Push(Entry{Line: line, Points: points}); err != nil {
		t.Fatalf("push line %d: %v", line, err)
	}
}
