// Package engine turns a function selection, a method selection and a
// start point into a completed, playback-ready run.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/copyleftdev/noviz/internal/optimization"
	"github.com/copyleftdev/noviz/internal/optimization/objective"
)

// FunctionSpec selects an objective function. Coefficients are used by
// typed kinds and default when nil; Points are used by Interpolated.
type FunctionSpec struct {
	Kind         objective.Kind
	Coefficients []float64
	Points       []objective.Point
}

// Request is everything a calculation needs. Nil pointers are missing
// selections.
type Request struct {
	Function *FunctionSpec
	Method   *Method
	// Params are the method parameters; nil selects the defaults.
	Params []float64
	Start  *float64
	// Seed fixes the random draws of stochastic methods; zero is random.
	Seed uint64
}

// Run is a completed calculation.
type Run struct {
	Function  objective.Function
	Method    Method
	Algorithm optimization.Algorithm
	Start     float64
	Duration  time.Duration
}

// Buffer returns the recorded steps of the run.
func (r *Run) Buffer() *optimization.Buffer { return r.Algorithm.Buffer() }

// Engine computes runs.
type Engine struct {
	logger *zap.Logger
}

// New creates an engine. A nil logger discards everything.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("engine")}
}

// Calculate computes a run with a discarding logger.
func Calculate(req Request) (*Run, error) {
	return New(nil).Calculate(req)
}

// Calculate validates the selections, builds the function and the
// algorithm, and runs it to completion on the calling goroutine.
func (e *Engine) Calculate(req Request) (*Run, error) {
	const op = "Calculate"

	switch {
	case req.Function == nil:
		return nil, optimization.ConfigurationError("no objective function selected").
			WithComponent("engine").WithOperation(op)
	case req.Method == nil:
		return nil, optimization.ConfigurationError("no method selected").
			WithComponent("engine").WithOperation(op)
	case req.Start == nil:
		return nil, optimization.ConfigurationError("no start point selected").
			WithComponent("engine").WithOperation(op)
	}

	f, err := BuildFunction(*req.Function)
	if err != nil {
		return nil, err
	}
	alg, err := req.Method.newAlgorithm(f, req.Params, req.Seed, e.logger)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	if err := alg.CreateArray(*req.Start); err != nil {
		e.logger.Warn("Calculation failed",
			zap.Stringer("function", f.Kind()),
			zap.Stringer("method", *req.Method),
			zap.Float64("start", *req.Start),
			zap.Error(err),
		)
		return nil, err
	}
	run := &Run{
		Function:  f,
		Method:    *req.Method,
		Algorithm: alg,
		Start:     *req.Start,
		Duration:  time.Since(began),
	}

	e.logger.Info("Calculation complete",
		zap.Stringer("function", f.Kind()),
		zap.Stringer("method", run.Method),
		zap.Int("iterations", alg.Iterations()),
		zap.Int("records", run.Buffer().Len()),
		zap.Duration("duration", run.Duration),
	)
	return run, nil
}

// BuildFunction builds the selected objective function. Interpolated
// functions need MinInterpolationPoints picked points.
func BuildFunction(spec FunctionSpec) (objective.Function, error) {
	if spec.Kind.SelectsPoints() {
		if len(spec.Points) < objective.MinInterpolationPoints {
			return nil, optimization.ConfigurationError("interpolation needs at least %d points, got %d",
				objective.MinInterpolationPoints, len(spec.Points)).
				WithComponent("engine").WithOperation("BuildFunction")
		}
		f, err := objective.NewInterpolated(spec.Points)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	coeffs := spec.Coefficients
	if coeffs == nil {
		coeffs = spec.Kind.DefaultCoefficients(0)
	}
	return objective.New(spec.Kind, coeffs)
}
