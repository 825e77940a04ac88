package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/copyleftdev/noviz/internal/optimization"
	"github.com/copyleftdev/noviz/internal/optimization/annealing"
	"github.com/copyleftdev/noviz/internal/optimization/gradient"
)

// Method is the closed set of optimization methods.
type Method int

const (
	GradientDescent Method = iota
	SimulatedAnnealing
)

// Methods returns every method in display order.
func Methods() []Method { return []Method{GradientDescent, SimulatedAnnealing} }

// String returns the identifier used by the API and the CLI.
func (m Method) String() string {
	switch m {
	case GradientDescent:
		return "gradient_descent"
	case SimulatedAnnealing:
		return "simulated_annealing"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Title returns the display name.
func (m Method) Title() string {
	switch m {
	case GradientDescent:
		return gradient.Name
	case SimulatedAnnealing:
		return annealing.Name
	default:
		return m.String()
	}
}

// ParseMethod resolves an identifier or display name, case-insensitively.
// "gd" and "sa" are accepted as short forms.
func ParseMethod(s string) (Method, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "gd":
		return GradientDescent, nil
	case "sa":
		return SimulatedAnnealing, nil
	}
	for _, m := range Methods() {
		if norm == m.String() {
			return m, nil
		}
	}
	return 0, optimization.ConfigurationError("unknown method %q", s).
		WithComponent("engine").WithOperation("ParseMethod")
}

// Params returns the parameter descriptors of the method.
func (m Method) Params() []optimization.Param {
	switch m {
	case GradientDescent:
		return gradient.Params()
	case SimulatedAnnealing:
		return annealing.Params()
	default:
		return nil
	}
}

// DefaultParams returns the parameter defaults of the method.
func (m Method) DefaultParams() []float64 { return optimization.Defaults(m.Params()) }

// Pseudocode returns the displayed pseudocode lines of the method.
func (m Method) Pseudocode() []string {
	switch m {
	case GradientDescent:
		return gradient.Pseudocode()
	case SimulatedAnnealing:
		return annealing.Pseudocode()
	default:
		return nil
	}
}

// newAlgorithm builds an unstarted algorithm. seed is used by stochastic
// methods; zero picks a time-based seed.
func (m Method) newAlgorithm(f optimization.Objective, values []float64, seed uint64, logger *zap.Logger) (optimization.Algorithm, error) {
	switch m {
	case GradientDescent:
		g, err := gradient.New(f, values, gradient.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return g, nil
	case SimulatedAnnealing:
		opts := []annealing.Option{annealing.WithLogger(logger)}
		if seed != 0 {
			opts = append(opts, annealing.WithSeed(seed))
		}
		s, err := annealing.New(f, values, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, optimization.ConfigurationError("unknown method %d", int(m)).
			WithComponent("engine").WithOperation("newAlgorithm")
	}
}
