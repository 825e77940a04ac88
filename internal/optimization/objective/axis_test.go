package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisHint(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		coeffs []float64
		want   AxisHint
	}{
		{"polynomial", Polynomial, []float64{1, 1, 1}, AxisHint{YMin: 1, YMax: 10, XMin: -5, XMax: 5}},
		{"polynomial high constant", Polynomial, []float64{15}, AxisHint{YMin: 10, YMax: 15, XMin: -5, XMax: 5}},
		{"polynomial empty y range", Polynomial, []float64{10}, AxisHint{YMin: 9, YMax: 11, XMin: -5, XMax: 5}},
		{"sinus", Sinus, []float64{1, 2, 0, 1}, AxisHint{YMin: -2, YMax: 4, XMin: -1, XMax: 2 * math.Pi}},
		{"sinus inverted", Sinus, []float64{0, -2, 0, -1}, AxisHint{YMin: -3, YMax: 3, XMin: -2 * math.Pi, XMax: -1}},
		{"sinus zero period", Sinus, []float64{0, 1, 0, 0}, AxisHint{YMin: -1.5, YMax: 1.5, XMin: -5, XMax: 5}},
		{"lennard jones", LennardJones, []float64{6, 3.5}, AxisHint{YMin: -7, YMax: 6, XMin: 0, XMax: 7}},
		{"torsion", Torsion, []float64{1, 2.7}, AxisHint{YMin: -5.4, YMax: 5.4, XMin: -1, XMax: 10}},
		{"torsion negative k", Torsion, []float64{1, -1}, AxisHint{YMin: -2, YMax: 2, XMin: -1, XMax: 10}},
		{"bond angle", BondAngle, []float64{1, 2.7}, AxisHint{YMin: -1, YMax: 5.4, XMin: -1, XMax: 5}},
		{"sim crash", SimCrash, nil, AxisHint{YMin: -2, YMax: 2, XMin: -5, XMax: 5}},
		{"interpolated", Interpolated, []float64{2, 5, -1, 0, 0, -3}, AxisHint{YMin: -4, YMax: 6, XMin: -2, XMax: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AxisHintFor(tt.kind, tt.coeffs)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.YMin, got.YMin, 1e-9)
			assert.InDelta(t, tt.want.YMax, got.YMax, 1e-9)
			assert.InDelta(t, tt.want.XMin, got.XMin, 1e-9)
			assert.InDelta(t, tt.want.XMax, got.XMax, 1e-9)
		})
	}
}

// Whatever the coefficients, both ranges must be non-empty and ordered.
func TestAxisHintAlwaysOrdered(t *testing.T) {
	values := []float64{-10, -1, 0, 0.5, 1, 10}
	for _, k := range []Kind{Polynomial, Sinus, LennardJones, Torsion, BondAngle} {
		n := len(k.DefaultCoefficients(0))
		if k == Polynomial {
			n = 2
		}
		for _, a := range values {
			for _, b := range values {
				coeffs := make([]float64, n)
				for i := range coeffs {
					coeffs[i] = a
				}
				coeffs[n-1] = b
				h, err := AxisHintFor(k, coeffs)
				require.NoError(t, err)
				assert.Less(t, h.YMin, h.YMax, "%s %v", k, coeffs)
				assert.Less(t, h.XMin, h.XMax, "%s %v", k, coeffs)
			}
		}
	}
}

func TestAxisHintForErrors(t *testing.T) {
	_, err := AxisHintFor(Sinus, []float64{1, 2})
	assert.Error(t, err)

	_, err = AxisHintFor(Interpolated, []float64{1, 2})
	assert.Error(t, err)
}
