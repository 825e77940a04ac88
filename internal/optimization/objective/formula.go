package objective

import (
	"math"
	"strconv"
	"strings"
)

const simCrashFormula = "f(x) = -exp(-(x - 1)^2/0.02) - 0.5exp(-(x + 1)^2/18)"

// Formula renders the function of the given kind and coefficients without
// building it first. Interpolated functions have no formula.
func Formula(kind Kind, coeffs []float64) (string, error) {
	if kind == Interpolated {
		return "", nil
	}
	f, err := New(kind, coeffs)
	if err != nil {
		return "", err
	}
	return f.Formula(), nil
}

// round2 rounds to the two decimals shown in formulas. Negative zero
// becomes zero.
func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// formatNumber prints integers without decimals and everything else with
// at most two.
func formatNumber(v float64) string {
	r := round2(v)
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// term is coef*body; an empty body is a constant.
type term struct {
	coef float64
	body string
}

// joinTerms renders a signed sum. Terms that round to zero are dropped,
// unit multipliers are omitted, and a negative term is joined with " - ".
// An empty sum renders as "0".
func joinTerms(terms []term) string {
	var sb strings.Builder
	for _, t := range terms {
		c := round2(t.coef)
		if c == 0 {
			continue
		}
		neg := c < 0
		switch {
		case sb.Len() == 0 && neg:
			sb.WriteString("-")
		case sb.Len() > 0 && neg:
			sb.WriteString(" - ")
		case sb.Len() > 0:
			sb.WriteString(" + ")
		}
		mag := math.Abs(c)
		if t.body == "" || mag != 1 {
			sb.WriteString(formatNumber(mag))
		}
		sb.WriteString(t.body)
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

// factor renders a leading multiplier: "" for 1, "-" for -1.
func factor(v float64) string {
	switch c := round2(v); c {
	case 1:
		return ""
	case -1:
		return "-"
	default:
		return formatNumber(c)
	}
}

func polynomialFormula(coeffs []float64) string {
	terms := make([]term, 0, len(coeffs))
	for i := len(coeffs) - 1; i >= 0; i-- {
		var body string
		switch i {
		case 0:
		case 1:
			body = "x"
		default:
			body = "x^" + strconv.Itoa(i)
		}
		terms = append(terms, term{coef: coeffs[i], body: body})
	}
	return "f(x) = " + joinTerms(terms)
}

// sinusFormula renders a sin(b x + c) + d from [d, a, c, b].
func sinusFormula(coeffs []float64) string {
	constant, amplitude, phase, period := coeffs[0], coeffs[1], coeffs[2], coeffs[3]
	arg := joinTerms([]term{{coef: period, body: "x"}, {coef: phase}})
	return "f(x) = " + joinTerms([]term{
		{coef: amplitude, body: "sin(" + arg + ")"},
		{coef: constant},
	})
}

// power renders base^exp, parenthesizing negative bases.
func power(base float64, exp int) string {
	b := formatNumber(base)
	if round2(base) < 0 {
		b = "(" + b + ")"
	}
	return b + "^" + strconv.Itoa(exp)
}

func lennardJonesFormula(coeffs []float64) string {
	eps, sigma := coeffs[0], coeffs[1]
	if round2(4*eps) == 0 || round2(sigma) == 0 {
		return "f(x) = 0"
	}
	return "f(x) = " + factor(4*eps) +
		"(" + power(sigma, 12) + "/x^12 - " + power(sigma, 6) + "/x^6)"
}

func torsionFormula(coeffs []float64) string {
	theta0, k := coeffs[0], coeffs[1]
	if round2(k/2) == 0 {
		return "f(x) = 0"
	}
	return "f(x) = " + factor(k/2) + "(cos(x) - cos(" + formatNumber(theta0) + "))^2"
}

func bondAngleFormula(coeffs []float64) string {
	theta0, k := coeffs[0], coeffs[1]
	if round2(k/2) == 0 {
		return "f(x) = 0"
	}
	inner := joinTerms([]term{{coef: 1, body: "x"}, {coef: -theta0}})
	if round2(theta0) == 0 {
		return "f(x) = " + factor(k/2) + "x^2"
	}
	return "f(x) = " + factor(k/2) + "(" + inner + ")^2"
}
