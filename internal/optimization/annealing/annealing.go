// Package annealing implements simulated annealing with Gaussian candidate
// moves and geometric cooling, recording every pseudocode step and a
// temperature-colored scatter trail for playback.
package annealing

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/copyleftdev/noviz/internal/optimization"
)

// Name is the display name of the method.
const Name = "Simulated Annealing"

// Colormap names the palette the scatter trail is drawn with.
const Colormap = "plasma"

var pseudocode = []string{
	"init: temperature T and starting point x",
	"y = f(x)",
	"step = 0",
	"while (T > 0) & (step < iter_max)",
	"    choose new point (x_new)",
	"    y_new = f(x_new)",
	"    if (y_new < y)",
	"        x = x_new, y = y_new",
	"        set new starting point at (x, y)",
	"    else",
	"        accept with prob. exp(-delta/T)",
	"    T_new = T * T decrease rate",
	"    step += 1",
}

// Params returns the parameter descriptors: max steps, standard deviation,
// start temperature and temperature decrease rate.
func Params() []optimization.Param {
	return []optimization.Param{
		{Name: "Max steps", Default: 100, Min: 100, Max: 10000},
		{Name: "Std. deviation", Default: 1.0, Min: 0.001, Max: 10},
		{Name: "Start temperature", Default: 40, Min: 0, Max: 500},
		{Name: "Temperature decr. rate", Default: 0.8, Min: 0.001, Max: 10},
	}
}

// Pseudocode returns a copy of the displayed pseudocode lines.
func Pseudocode() []string { return append([]string(nil), pseudocode...) }

// phase is the sub-step of an iteration that emits a record.
type phase int

const (
	phaseInit phase = iota
	phaseLoopTop
	phaseChoose
	phaseEvaluate
	phaseImproved
	phaseWorse
	phaseDecide
	phaseCool
	phaseStep
)

var phaseLines = map[phase]int{
	phaseInit:     0,
	phaseLoopTop:  3,
	phaseChoose:   5,
	phaseEvaluate: 6,
	phaseImproved: 8,
	phaseWorse:    9,
	phaseDecide:   10,
	phaseCool:     11,
	phaseStep:     12,
}

// Option configures a SimulatedAnnealing.
type Option func(*SimulatedAnnealing)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *SimulatedAnnealing) {
		if logger != nil {
			s.logger = logger.Named("simulated_annealing")
		}
	}
}

// WithSeed makes candidate and acceptance draws reproducible.
func WithSeed(seed uint64) Option {
	return func(s *SimulatedAnnealing) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// SimulatedAnnealing proposes x + N(0, sd) moves, always accepts downhill
// moves and accepts uphill ones with probability exp(-delta/T).
type SimulatedAnnealing struct {
	f          optimization.Objective
	maxSteps   int
	sd         float64
	startTemp  float64
	coolFactor float64
	values     []float64

	state      optimization.State
	buffer     *optimization.Buffer
	iterations int

	rng    *rand.Rand
	logger *zap.Logger
}

var _ optimization.Algorithm = (*SimulatedAnnealing)(nil)

// New creates an annealing run over f. values holds max steps, standard
// deviation, start temperature and decrease rate; nil selects the defaults.
func New(f optimization.Objective, values []float64, opts ...Option) (*SimulatedAnnealing, error) {
	const op = "New"

	if f == nil {
		return nil, optimization.ConfigurationError("no objective function selected").
			WithComponent("annealing").WithOperation(op)
	}
	if values == nil {
		values = optimization.Defaults(Params())
	}
	if len(values) != len(Params()) {
		return nil, optimization.ConfigurationError("expected %d parameters, got %d", len(Params()), len(values)).
			WithComponent("annealing").WithOperation(op)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, optimization.ConfigurationError("%s must be finite, got %v", Params()[i].Name, v).
				WithComponent("annealing").WithOperation(op)
		}
	}
	steps, sd, temp, rate := values[0], values[1], values[2], values[3]
	if steps < 1 {
		return nil, optimization.ConfigurationError("max steps must be at least 1, got %v", steps).
			WithComponent("annealing").WithOperation(op)
	}
	if steps > optimization.MaxIterations {
		return nil, optimization.ConfigurationError("max steps must be at most %d, got %v", optimization.MaxIterations, steps).
			WithComponent("annealing").WithOperation(op)
	}
	if sd <= 0 {
		return nil, optimization.ConfigurationError("standard deviation must be positive, got %v", sd).
			WithComponent("annealing").WithOperation(op)
	}

	seed := uint64(time.Now().UnixNano())
	s := &SimulatedAnnealing{
		f:          f,
		maxSteps:   int(steps),
		sd:         sd,
		startTemp:  temp,
		coolFactor: rate,
		values:     append([]float64(nil), values...),
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SimulatedAnnealing) Name() string                 { return Name }
func (s *SimulatedAnnealing) State() optimization.State    { return s.state }
func (s *SimulatedAnnealing) Params() []optimization.Param { return Params() }
func (s *SimulatedAnnealing) Values() []float64            { return append([]float64(nil), s.values...) }
func (s *SimulatedAnnealing) Pseudocode() []string         { return Pseudocode() }
func (s *SimulatedAnnealing) Iterations() int              { return s.iterations }

// Scatter reports the temperature trail, colored from 0 to the start
// temperature.
func (s *SimulatedAnnealing) Scatter() optimization.ScatterSpec {
	return optimization.ScatterSpec{Enabled: true, Colormap: Colormap, Min: 0, Max: s.startTemp}
}

// Buffer returns the recorded run, or nil until CreateArray succeeded.
func (s *SimulatedAnnealing) Buffer() *optimization.Buffer {
	if s.state != optimization.StateComplete {
		return nil
	}
	return s.buffer
}

// CreateArray runs the annealing schedule from start and records it.
func (s *SimulatedAnnealing) CreateArray(start float64) error {
	const op = "CreateArray"

	if s.state != optimization.StateUninitialized {
		return optimization.ConfigurationError("run already computed (state %s)", s.state).
			WithComponent("annealing").WithOperation(op)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) {
		return optimization.ConfigurationError("start point must be finite, got %v", start).
			WithComponent("annealing").WithOperation(op)
	}

	s.state = optimization.StateRunning
	buf, err := optimization.NewBuffer(optimization.Capacity(s.maxSteps, len(pseudocode)))
	if err == nil {
		err = s.run(buf, start)
	}
	if err != nil {
		s.state = optimization.StateFailed
		if optimization.KindOf(err) == optimization.KindBufferFull {
			s.logger.Error("Buffer overflow aborted run", zap.Error(err), zap.Int("iterations", s.iterations))
		} else {
			s.logger.Warn("Run failed", zap.Error(err), zap.Int("iterations", s.iterations))
		}
		return optimization.WrapErrorf(err, "simulated annealing aborted after %d iterations", s.iterations).
			WithComponent("annealing").WithOperation(op)
	}

	s.buffer = buf
	s.state = optimization.StateComplete
	s.logger.Debug("Run complete",
		zap.Float64("start", start),
		zap.Int("iterations", s.iterations),
		zap.Int("records", buf.Len()),
		zap.Int("scatter", buf.ScatterLen()),
	)
	return nil
}

func (s *SimulatedAnnealing) run(buf *optimization.Buffer, start float64) error {
	eval := func(x float64) (float64, error) {
		v, err := s.f.Evaluate(x, false)
		if err != nil {
			return 0, optimization.NumericDomainError(buf.Len(), err)
		}
		return v, nil
	}
	emit := func(p phase, e optimization.Entry) error {
		e.Line = phaseLines[p]
		return buf.Push(e)
	}
	candidate := func(x, y float64, state optimization.CandidateState) *optimization.Candidate {
		return &optimization.Candidate{Point: optimization.Point{X: x, Y: y}, State: state}
	}

	move := distuv.Normal{Mu: 0, Sigma: s.sd, Src: s.rng}
	temp := s.startTemp

	x := start
	y, err := eval(x)
	if err != nil {
		return err
	}
	if err := emit(phaseInit, optimization.Entry{Points: []optimization.Point{{X: x, Y: y}}}); err != nil {
		return err
	}

	for temp > 0 && s.iterations < s.maxSteps {
		if err := emit(phaseLoopTop, optimization.Entry{
			Points:  []optimization.Point{{X: x, Y: y}},
			Scatter: []optimization.ScatterPoint{{X: x, Y: y, Value: temp}},
		}); err != nil {
			return err
		}

		xNew := x + move.Rand()
		yNew, err := eval(xNew)
		if err != nil {
			return err
		}
		here := []optimization.Point{{X: x, Y: y}}
		for _, p := range []phase{phaseChoose, phaseEvaluate} {
			if err := emit(p, optimization.Entry{
				Points: here,
				Next:   candidate(xNew, yNew, optimization.CandidateProposed),
			}); err != nil {
				return err
			}
		}

		if yNew < y {
			x, y = xNew, yNew
			if err := emit(phaseImproved, optimization.Entry{
				Points: []optimization.Point{{X: x, Y: y}},
				Next:   candidate(xNew, yNew, optimization.CandidateAccepted),
			}); err != nil {
				return err
			}
		} else {
			if err := emit(phaseWorse, optimization.Entry{
				Points: here,
				Next:   candidate(xNew, yNew, optimization.CandidateProposed),
			}); err != nil {
				return err
			}
			verdict := optimization.CandidateRejected
			if s.rng.Float64() < math.Exp(-(yNew-y)/temp) {
				x, y = xNew, yNew
				verdict = optimization.CandidateAccepted
			}
			if err := emit(phaseDecide, optimization.Entry{
				Points: []optimization.Point{{X: x, Y: y}},
				Next:   candidate(xNew, yNew, verdict),
			}); err != nil {
				return err
			}
		}

		if err := emit(phaseCool, optimization.Entry{
			Points:  []optimization.Point{{X: x, Y: y}},
			Scatter: []optimization.ScatterPoint{{X: x, Y: y, Value: temp}},
		}); err != nil {
			return err
		}
		temp *= s.coolFactor

		if err := emit(phaseStep, optimization.Entry{Points: []optimization.Point{{X: x, Y: y}}}); err != nil {
			return err
		}
		s.iterations++
	}
	return nil
}
