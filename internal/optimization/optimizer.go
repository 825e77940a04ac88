package optimization

// Objective is the scalar function an algorithm walks. Evaluate returns
// f(x), or f'(x) when derivative is true.
type Objective interface {
	Evaluate(x float64, derivative bool) (float64, error)
}

// State is the lifecycle of a single optimization run.
type State int

const (
	// StateUninitialized is a constructed algorithm that has not run.
	StateUninitialized State = iota
	// StateRunning is set while CreateArray executes.
	StateRunning
	// StateComplete means the buffer is filled and playback-ready.
	StateComplete
	// StateFailed means the run aborted and its buffer was discarded.
	StateFailed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScatterSpec describes the colored trail an algorithm plots, if any.
type ScatterSpec struct {
	Enabled  bool    `json:"enabled"`
	Colormap string  `json:"colormap,omitempty"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Algorithm defines the contract every optimization method implements.
type Algorithm interface {
	// Name returns the display name of the method
	Name() string

	// State returns the lifecycle state of the run
	State() State

	// CreateArray runs the method from start to completion and records
	// every step into a fresh buffer. It is synchronous and cannot be
	// interrupted.
	CreateArray(start float64) error

	// Buffer returns the recorded steps, or nil unless State is StateComplete
	Buffer() *Buffer

	// Params returns the parameter descriptors of the method
	Params() []Param

	// Values returns the parameter values this instance was built with
	Values() []float64

	// Pseudocode returns the display lines that records index into
	Pseudocode() []string

	// Scatter describes the scatter trail capability
	Scatter() ScatterSpec

	// Iterations returns the number of outer iterations the run executed
	Iterations() int
}

const (
	// MaxIterations bounds the step count any method accepts.
	MaxIterations = 20000
	// MaxCapacity bounds the number of records a single buffer may hold.
	MaxCapacity = 1 << 19
)

// Capacity returns the buffer size for a run: each iteration emits at most
// one record per pseudocode line.
func Capacity(maxIterations, pseudocodeLines int) int {
	return maxIterations * pseudocodeLines
}

// TangentAt evaluates, at xNew, the line through (x, y) whose slope is
// f'(x).
func TangentAt(f Objective, x, y, xNew float64) (float64, error) {
	slope, err := f.Evaluate(x, true)
	if err != nil {
		return 0, err
	}
	intercept := y - slope*x
	return slope*xNew + intercept, nil
}
