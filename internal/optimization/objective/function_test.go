package objective

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/copyleftdev/noviz/internal/optimization"
)

func mustNew(t *testing.T, kind Kind, coeffs ...float64) Function {
	t.Helper()
	f, err := New(kind, coeffs)
	require.NoError(t, err)
	return f
}

func value(t *testing.T, f optimization.Objective, x float64) float64 {
	t.Helper()
	y, err := f.Evaluate(x, false)
	require.NoError(t, err)
	return y
}

func slope(t *testing.T, f optimization.Objective, x float64) float64 {
	t.Helper()
	y, err := f.Evaluate(x, true)
	require.NoError(t, err)
	return y
}

func TestPolynomialValues(t *testing.T) {
	square := mustNew(t, Polynomial, 0, 0, 1)
	assert.Equal(t, 25.0, value(t, square, 5))
	assert.Equal(t, 9.0, value(t, square, -3))

	p := mustNew(t, Polynomial, 35, 5, 7)
	assert.InDelta(t, 564.8075, value(t, p, 8.35), 1e-9)

	constant := mustNew(t, Polynomial, 4)
	assert.Equal(t, 4.0, value(t, constant, 100))
	assert.Equal(t, 0.0, slope(t, constant, 100))
}

// Every analytic derivative must agree with a central difference of the
// evaluation.
func TestDerivativeMatchesNumerical(t *testing.T) {
	tests := []struct {
		name string
		fn   Function
		xs   []float64
	}{
		{"polynomial", mustNew(t, Polynomial, 35, 5, 7), span(-5, 5, 25)},
		{"polynomial quartic", mustNew(t, Polynomial, -1, 2, -3, 0.5, 0.25), span(-3, 3, 25)},
		{"sinus", mustNew(t, Sinus, 4, 8, 3, 5), span(-2, 2, 25)},
		{"lennard jones", mustNew(t, LennardJones, 6, 3.5), span(3.2, 7, 20)},
		{"torsion", mustNew(t, Torsion, 3*math.Pi/4, 2.7), span(-1, 10, 25)},
		{"bond angle", mustNew(t, BondAngle, 3*math.Pi/4, 2.7), span(-1, 5, 25)},
		{"sim crash", mustNew(t, SimCrash), span(-5, 5, 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := func(x float64) float64 {
				y, err := tt.fn.Evaluate(x, false)
				require.NoError(t, err)
				return y
			}
			for _, x := range tt.xs {
				want := fd.Derivative(eval, x, &fd.Settings{Formula: fd.Central, Step: 1e-6})
				got := slope(t, tt.fn, x)
				assert.InDelta(t, want, got, 1e-4*math.Max(1, math.Abs(want)), "x=%v", x)
			}
		})
	}
}

func span(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return xs
}

func TestSinus(t *testing.T) {
	c := []float64{4, 8, 3, 5}
	f := mustNew(t, Sinus, c...)
	assert.InDelta(t, 5.128960064478938, value(t, f, 0), 1e-12)

	period := 2 * math.Pi / c[3]
	for _, x := range span(-3, 3, 13) {
		assert.InDelta(t, value(t, f, x), value(t, f, x+period), 1e-9, "x=%v", x)
	}
}

func TestNewValidatesCoefficients(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		coeffs []float64
	}{
		{"empty polynomial", Polynomial, nil},
		{"short sinus", Sinus, []float64{1, 2, 3}},
		{"long lennard jones", LennardJones, []float64{1, 2, 3}},
		{"torsion without k", Torsion, []float64{1}},
		{"sim crash with coefficients", SimCrash, []float64{1}},
		{"interpolated", Interpolated, []float64{0, 0, 1, 1}},
		{"unknown kind", Kind(42), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.kind, tt.coeffs)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, optimization.ErrConfiguration))
		})
	}
}

func TestNewCopiesCoefficients(t *testing.T) {
	c := []float64{0, 0, 1}
	f := mustNew(t, Polynomial, c...)
	c[2] = 100

	assert.Equal(t, 25.0, value(t, f, 5))

	got := f.Coefficients()
	got[2] = -1
	assert.Equal(t, []float64{0, 0, 1}, f.Coefficients())
}

func TestEvaluateRejectsNonFinite(t *testing.T) {
	f := mustNew(t, LennardJones, 6, 3.5)

	_, err := f.Evaluate(0, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, optimization.ErrNumericDomain))

	_, err = f.Evaluate(0, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "derivative")
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"polynomial", Polynomial},
		{"Sinus", Sinus},
		{"  interpolated ", Interpolated},
		{"lennard_jones", LennardJones},
		{"Lennard Jones Potential", LennardJones},
		{"bond-angle", BondAngle},
		{"torsion potential", Torsion},
		{"SIM_CRASH", SimCrash},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("rosenbrock")
	assert.True(t, errors.Is(err, optimization.ErrConfiguration))
}

func TestKindCoefficients(t *testing.T) {
	poly := Polynomial.Coefficients(0)
	require.Len(t, poly, DefaultPolynomialDegree)
	assert.Equal(t, "constant", poly[0].Name)
	assert.Equal(t, "x", poly[1].Name)
	assert.Equal(t, "x^2", poly[2].Name)
	assert.Len(t, Polynomial.Coefficients(6), 6)

	assert.Equal(t, []float64{1, 1, 1, 1}, Sinus.DefaultCoefficients(0))
	assert.Equal(t, []float64{6, 3.5}, LennardJones.DefaultCoefficients(0))
	assert.InDeltaSlice(t, []float64{3 * math.Pi / 4, 2.7}, Torsion.DefaultCoefficients(0), 1e-12)

	assert.Empty(t, SimCrash.Coefficients(0))
	assert.NotNil(t, SimCrash.Coefficients(0))
	assert.Empty(t, Interpolated.Coefficients(0))

	assert.True(t, Interpolated.SelectsPoints())
	assert.False(t, Polynomial.SelectsPoints())

	for _, k := range Kinds() {
		if k == Interpolated {
			continue
		}
		f, err := New(k, k.DefaultCoefficients(0))
		require.NoError(t, err, k.String())
		assert.Equal(t, k, f.Kind())
	}
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "lennard_jones", LennardJones.String())
	assert.Equal(t, "Bond Angle Potential", BondAngle.Title())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
