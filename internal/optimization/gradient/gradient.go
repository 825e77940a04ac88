// Package gradient implements fixed learning-rate gradient descent that
// records every pseudocode step of its run for playback.
package gradient

import (
	"math"

	"go.uber.org/zap"

	"github.com/copyleftdev/noviz/internal/optimization"
)

// Name is the display name of the method.
const Name = "Gradient Descent"

// Runs stop once x leaves this open interval.
const (
	lowerBound = -10000
	upperBound = 10000
)

var pseudocode = []string{
	"set iter_max, step = 0",
	"x = set starting point",
	"y = f(x)",
	"while (step < iter_max)",
	"    x_new = x - step size * f'(x)",
	"    x = x_new",
	"    y = f(x_new)",
	"    step += 1",
}

// Params returns the parameter descriptors: learning rate and max steps.
func Params() []optimization.Param {
	return []optimization.Param{
		{Name: "Learning rate", Default: 0.01, Min: 0.001, Max: 0.1},
		{Name: "Max steps", Default: 300, Min: 1, Max: 1000},
	}
}

// Pseudocode returns a copy of the displayed pseudocode lines.
func Pseudocode() []string { return append([]string(nil), pseudocode...) }

// phase is the sub-step of an iteration that emits a record.
type phase int

const (
	phaseInit phase = iota
	phaseLoopTop
	phaseComputeStep
	phaseApplyStep
)

// line maps a phase to the pseudocode line it highlights.
func (p phase) line() int {
	switch p {
	case phaseInit:
		return 2
	case phaseLoopTop:
		return 3
	case phaseComputeStep:
		return 4
	default:
		return 6
	}
}

// Option configures a GradientDescent.
type Option func(*GradientDescent)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *GradientDescent) {
		if logger != nil {
			g.logger = logger.Named("gradient_descent")
		}
	}
}

// GradientDescent walks downhill with x_new = x - lr * f'(x).
type GradientDescent struct {
	f            optimization.Objective
	learningRate float64
	maxSteps     int
	values       []float64

	state      optimization.State
	buffer     *optimization.Buffer
	iterations int

	logger *zap.Logger
}

var _ optimization.Algorithm = (*GradientDescent)(nil)

// New creates a gradient descent run over f. values holds learning rate
// and max steps; nil selects the defaults.
func New(f optimization.Objective, values []float64, opts ...Option) (*GradientDescent, error) {
	const op = "New"

	if f == nil {
		return nil, optimization.ConfigurationError("no objective function selected").
			WithComponent("gradient").WithOperation(op)
	}
	if values == nil {
		values = optimization.Defaults(Params())
	}
	if len(values) != len(Params()) {
		return nil, optimization.ConfigurationError("expected %d parameters, got %d", len(Params()), len(values)).
			WithComponent("gradient").WithOperation(op)
	}
	lr, steps := values[0], values[1]
	if math.IsNaN(lr) || math.IsInf(lr, 0) {
		return nil, optimization.ConfigurationError("learning rate must be finite, got %v", lr).
			WithComponent("gradient").WithOperation(op)
	}
	if !(steps >= 1) {
		return nil, optimization.ConfigurationError("max steps must be at least 1, got %v", steps).
			WithComponent("gradient").WithOperation(op)
	}
	if steps > optimization.MaxIterations {
		return nil, optimization.ConfigurationError("max steps must be at most %d, got %v", optimization.MaxIterations, steps).
			WithComponent("gradient").WithOperation(op)
	}

	g := &GradientDescent{
		f:            f,
		learningRate: lr,
		maxSteps:     int(steps),
		values:       append([]float64(nil), values...),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GradientDescent) Name() string                      { return Name }
func (g *GradientDescent) State() optimization.State         { return g.state }
func (g *GradientDescent) Params() []optimization.Param      { return Params() }
func (g *GradientDescent) Values() []float64                 { return append([]float64(nil), g.values...) }
func (g *GradientDescent) Pseudocode() []string              { return Pseudocode() }
func (g *GradientDescent) Scatter() optimization.ScatterSpec { return optimization.ScatterSpec{} }
func (g *GradientDescent) Iterations() int                   { return g.iterations }

// Buffer returns the recorded run, or nil until CreateArray succeeded.
func (g *GradientDescent) Buffer() *optimization.Buffer {
	if g.state != optimization.StateComplete {
		return nil
	}
	return g.buffer
}

// CreateArray runs the descent from start and records it.
func (g *GradientDescent) CreateArray(start float64) error {
	const op = "CreateArray"

	if g.state != optimization.StateUninitialized {
		return optimization.ConfigurationError("run already computed (state %s)", g.state).
			WithComponent("gradient").WithOperation(op)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) {
		return optimization.ConfigurationError("start point must be finite, got %v", start).
			WithComponent("gradient").WithOperation(op)
	}

	g.state = optimization.StateRunning
	buf, err := optimization.NewBuffer(optimization.Capacity(g.maxSteps, len(pseudocode)))
	if err == nil {
		err = g.run(buf, start)
	}
	if err != nil {
		g.state = optimization.StateFailed
		if optimization.KindOf(err) == optimization.KindBufferFull {
			g.logger.Error("Buffer overflow aborted run", zap.Error(err), zap.Int("iterations", g.iterations))
		} else {
			g.logger.Warn("Run failed", zap.Error(err), zap.Int("iterations", g.iterations))
		}
		return optimization.WrapErrorf(err, "gradient descent aborted after %d iterations", g.iterations).
			WithComponent("gradient").WithOperation(op)
	}

	g.buffer = buf
	g.state = optimization.StateComplete
	g.logger.Debug("Run complete",
		zap.Float64("start", start),
		zap.Int("iterations", g.iterations),
		zap.Int("records", buf.Len()),
	)
	return nil
}

func (g *GradientDescent) run(buf *optimization.Buffer, start float64) error {
	eval := func(x float64, derivative bool) (float64, error) {
		v, err := g.f.Evaluate(x, derivative)
		if err != nil {
			return 0, optimization.NumericDomainError(buf.Len(), err)
		}
		return v, nil
	}
	emit := func(p phase, e optimization.Entry) error {
		e.Line = p.line()
		return buf.Push(e)
	}

	x := start
	y, err := eval(x, false)
	if err != nil {
		return err
	}
	if err := emit(phaseInit, optimization.Entry{Points: []optimization.Point{{X: x, Y: y}}}); err != nil {
		return err
	}

	next := true
	for next && g.iterations < g.maxSteps && x > lowerBound && x < upperBound {
		here := []optimization.Point{{X: x, Y: y}}
		if err := emit(phaseLoopTop, optimization.Entry{Points: here}); err != nil {
			return err
		}

		grad, err := eval(x, true)
		if err != nil {
			return err
		}
		bounds := []optimization.Segment{
			{X0: x, Y0: y, X1: x - 1, Y1: y - grad},
			{X0: x, Y0: y, X1: x + 1, Y1: y + grad},
		}
		if err := emit(phaseComputeStep, optimization.Entry{Points: here, Lines: bounds}); err != nil {
			return err
		}

		xNew := x - g.learningRate*grad
		yNew, err := eval(xNew, false)
		if err != nil {
			return err
		}
		yTangent, err := optimization.TangentAt(g.f, x, y, xNew)
		if err != nil {
			return optimization.NumericDomainError(buf.Len(), err)
		}
		if err := emit(phaseApplyStep, optimization.Entry{
			Points:  []optimization.Point{{X: xNew, Y: yNew}},
			Vectors: []optimization.Vector{{X: x, Y: y, DX: xNew - x, DY: yTangent - y}},
			Lines:   bounds,
		}); err != nil {
			return err
		}

		g.iterations++
		// Halts only on exact equality of successive values.
		next = math.Abs(y-yNew) > 0
		x, y = xNew, yNew
	}
	return nil
}
