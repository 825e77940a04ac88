package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/copyleftdev/noviz/internal/optimization"
	"github.com/copyleftdev/noviz/internal/optimization/objective"
)

func ptr[T any](v T) *T { return &v }

func squareSpec() *FunctionSpec {
	return &FunctionSpec{Kind: objective.Polynomial, Coefficients: []float64{0, 0, 1}}
}

func TestCalculateRequiresSelections(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		msg  string
	}{
		{"no function", Request{Method: ptr(GradientDescent), Start: ptr(1.0)}, "no objective function selected"},
		{"no method", Request{Function: squareSpec(), Start: ptr(1.0)}, "no method selected"},
		{"no start", Request{Function: squareSpec(), Method: ptr(GradientDescent)}, "no start point selected"},
		{"too few points", Request{
			Function: &FunctionSpec{Kind: objective.Interpolated, Points: []objective.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
			Method:   ptr(GradientDescent),
			Start:    ptr(0.5),
		}, "at least 3 points"},
		{"bad coefficients", Request{
			Function: &FunctionSpec{Kind: objective.Sinus, Coefficients: []float64{1}},
			Method:   ptr(GradientDescent),
			Start:    ptr(0.5),
		}, "expects 4 coefficients"},
		{"bad params", Request{Function: squareSpec(), Method: ptr(SimulatedAnnealing), Params: []float64{1}, Start: ptr(1.0)}, "expected 4 parameters"},
		{"unknown method", Request{Function: squareSpec(), Method: ptr(Method(9)), Start: ptr(1.0)}, "unknown method"},
		{"descent steps beyond int range", Request{Function: squareSpec(), Method: ptr(GradientDescent), Params: []float64{0.1, 1e17}, Start: ptr(1.0)}, "max steps must be at most"},
		{"annealing steps above ceiling", Request{Function: squareSpec(), Method: ptr(SimulatedAnnealing), Params: []float64{1e7, 1, 40, 0.8}, Start: ptr(1.0)}, "max steps must be at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := Calculate(tt.req)
			require.Error(t, err)
			assert.Nil(t, run)
			assert.True(t, errors.Is(err, optimization.ErrConfiguration))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestCalculateGradientDescent(t *testing.T) {
	run, err := Calculate(Request{
		Function: squareSpec(),
		Method:   ptr(GradientDescent),
		Params:   []float64{0.1, 50},
		Start:    ptr(4.0),
	})
	require.NoError(t, err)

	assert.Equal(t, GradientDescent, run.Method)
	assert.Equal(t, optimization.StateComplete, run.Algorithm.State())
	assert.Equal(t, "f(x) = x^2", run.Function.Formula())

	buf := run.Buffer()
	last, ok := buf.At(buf.Len() - 1)
	require.True(t, ok)
	assert.Less(t, math.Abs(last.Points[0].X), 0.01)
}

func TestCalculateAnnealingWithSeed(t *testing.T) {
	req := Request{
		Function: &FunctionSpec{Kind: objective.SimCrash},
		Method:   ptr(SimulatedAnnealing),
		Start:    ptr(-3.0),
		Seed:     99,
	}
	a, err := Calculate(req)
	require.NoError(t, err)
	b, err := Calculate(req)
	require.NoError(t, err)

	assert.Equal(t, a.Buffer().Records(), b.Buffer().Records())
	assert.Equal(t, 2*a.Algorithm.Iterations(), a.Buffer().ScatterLen())
}

func TestCalculateInterpolated(t *testing.T) {
	run, err := Calculate(Request{
		Function: &FunctionSpec{
			Kind:   objective.Interpolated,
			Points: []objective.Point{{X: -2, Y: 4}, {X: 0, Y: 0}, {X: 2, Y: 4}, {X: 1, Y: 1}},
		},
		Method: ptr(GradientDescent),
		Params: []float64{0.1, 200},
		Start:  ptr(1.5),
	})
	require.NoError(t, err)

	last, ok := run.Buffer().At(run.Buffer().Len() - 1)
	require.True(t, ok)
	assert.InDelta(t, 0, last.Points[0].X, 0.01)
}

func TestCalculateInterpolatedOutsidePoints(t *testing.T) {
	run, err := Calculate(Request{
		Function: &FunctionSpec{
			Kind:   objective.Interpolated,
			Points: []objective.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 4}},
		},
		Method: ptr(GradientDescent),
		Start:  ptr(3.0),
	})
	require.Error(t, err)
	assert.Nil(t, run)
	assert.True(t, errors.Is(err, optimization.ErrNumericDomain))
}

func TestCalculateNumericFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	e := New(zap.New(core))

	_, err := e.Calculate(Request{
		Function: &FunctionSpec{Kind: objective.LennardJones},
		Method:   ptr(GradientDescent),
		Start:    ptr(0.0),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, optimization.ErrNumericDomain))
	assert.Equal(t, 1, logs.FilterMessage("Calculation failed").Len())
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"gradient_descent", GradientDescent},
		{"Gradient Descent", GradientDescent},
		{"gd", GradientDescent},
		{"simulated-annealing", SimulatedAnnealing},
		{"SA", SimulatedAnnealing},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMethod("newton")
	assert.True(t, errors.Is(err, optimization.ErrConfiguration))
}

func TestMethodCatalog(t *testing.T) {
	assert.Equal(t, []float64{0.01, 300}, GradientDescent.DefaultParams())
	assert.Equal(t, []float64{100, 1, 40, 0.8}, SimulatedAnnealing.DefaultParams())
	assert.Len(t, GradientDescent.Pseudocode(), 8)
	assert.Len(t, SimulatedAnnealing.Pseudocode(), 13)
	assert.Equal(t, "Simulated Annealing", SimulatedAnnealing.Title())
	assert.Nil(t, Method(9).Params())
	assert.Equal(t, "method(9)", Method(9).String())
}
