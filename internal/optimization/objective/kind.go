package objective

import (
	"fmt"
	"math"
	"strings"

	"github.com/copyleftdev/noviz/internal/optimization"
)

// Kind is the closed set of objective function variants.
type Kind int

const (
	Polynomial Kind = iota
	Sinus
	Interpolated
	LennardJones
	Torsion
	BondAngle
	SimCrash
)

var kindNames = map[Kind]string{
	Polynomial:   "polynomial",
	Sinus:        "sinus",
	Interpolated: "interpolated",
	LennardJones: "lennard_jones",
	Torsion:      "torsion",
	BondAngle:    "bond_angle",
	SimCrash:     "sim_crash",
}

var kindTitles = map[Kind]string{
	Polynomial:   "Polynomial",
	Sinus:        "Sinus",
	Interpolated: "Interpolated",
	LennardJones: "Lennard Jones Potential",
	Torsion:      "Torsion Potential",
	BondAngle:    "Bond Angle Potential",
	SimCrash:     "Sim Crash",
}

// Kinds returns every variant in display order.
func Kinds() []Kind {
	return []Kind{Polynomial, Sinus, Interpolated, LennardJones, Torsion, BondAngle, SimCrash}
}

// String returns the identifier used by the API and the CLI.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Title returns the human readable name.
func (k Kind) Title() string {
	if title, ok := kindTitles[k]; ok {
		return title
	}
	return k.String()
}

// ParseKind resolves an identifier or title, case-insensitively.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, k := range Kinds() {
		if norm == k.String() || norm == strings.ReplaceAll(strings.ToLower(k.Title()), " ", "_") {
			return k, nil
		}
	}
	return 0, optimization.ConfigurationError("unknown objective function %q", s).
		WithComponent("objective").WithOperation("ParseKind")
}

// SelectsPoints reports whether the function is defined by picked points
// rather than typed coefficients.
func (k Kind) SelectsPoints() bool { return k == Interpolated }

// DefaultPolynomialDegree is the coefficient count used when none is asked for.
const DefaultPolynomialDegree = 3

// Coefficients returns the tunable slots of the kind. count sizes the
// variable-arity Polynomial; it is ignored otherwise. Interpolated and
// SimCrash have no typed coefficients.
func (k Kind) Coefficients(count int) []Coeff {
	switch k {
	case Polynomial:
		if count < 1 {
			count = DefaultPolynomialDegree
		}
		coeffs := []Coeff{{Name: "constant", Label: "Constant", Default: 1, Min: -10, Max: 10}}
		for i := 1; i < count; i++ {
			name := "x"
			if i > 1 {
				name = fmt.Sprintf("x^%d", i)
			}
			coeffs = append(coeffs, Coeff{Name: name, Label: name, Default: 1, Min: -10, Max: 10})
		}
		return coeffs
	case Sinus:
		return []Coeff{
			{Name: "constant", Label: "Constant", Default: 1, Min: -10, Max: 10},
			{Name: "amplitude", Label: "Amplitude", Default: 1, Min: -10, Max: 10},
			{Name: "phase", Label: "Phase", Default: 1, Min: -10, Max: 10},
			{Name: "period", Label: "Period", Default: 1, Min: -10, Max: 10},
		}
	case LennardJones:
		return []Coeff{
			{Name: "epsilon", Label: "ε", Default: 6, Min: -10, Max: 10},
			{Name: "sigma", Label: "σ", Default: 3.5, Min: -10, Max: 10},
		}
	case Torsion, BondAngle:
		return []Coeff{
			{Name: "theta0", Label: "θ0", Default: math.Pi * 3 / 4, Min: -10, Max: 10},
			{Name: "k", Label: "k", Default: 2.7, Min: -10, Max: 10},
		}
	default:
		return []Coeff{}
	}
}

// DefaultCoefficients returns the defaults of Coefficients(count).
func (k Kind) DefaultCoefficients(count int) []float64 {
	return Defaults(k.Coefficients(count))
}

// arity returns the fixed coefficient count, or -1 for variable arity.
func (k Kind) arity() int {
	switch k {
	case Polynomial, Interpolated:
		return -1
	case Sinus:
		return 4
	case LennardJones, Torsion, BondAngle:
		return 2
	default:
		return 0
	}
}
