package optimization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTangentAt(t *testing.T) {
	f := quadratic{a: 1, c: 1}
	learningRate := 0.1

	for x := -10.0; x < 10; x++ {
		if x == 0 {
			continue
		}
		y, err := f.Evaluate(x, false)
		require.NoError(t, err)
		gradient, err := f.Evaluate(x, true)
		require.NoError(t, err)

		xNew := x - learningRate*gradient
		yTangent, err := TangentAt(f, x, y, xNew)
		require.NoError(t, err)

		assert.LessOrEqual(t, yTangent, y, "x=%v", x)
		assert.InDelta(t, y-learningRate*gradient*gradient, yTangent, 1e-9)
	}
}

func TestTangentAtPropagatesErrors(t *testing.T) {
	_, err := TangentAt(failingObjective{}, 1, 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNumericDomain))
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 2400, Capacity(300, 8))
	assert.Equal(t, 1300, Capacity(100, 13))
	assert.LessOrEqual(t, Capacity(MaxIterations, 13), MaxCapacity)
}

func TestParamHelpers(t *testing.T) {
	params := []Param{
		{Name: "Learning rate", Default: 0.01, Min: 0.001, Max: 0.1},
		{Name: "Max steps", Default: 300, Min: 1, Max: 1000},
	}

	assert.Equal(t, []float64{0.01, 300}, Defaults(params))
	assert.Equal(t, "Learning rate: 0.05\nMax steps: 300\n", ParamsString(params, []float64{0.05}))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "failed", StateFailed.String())
}
