package objective

import "math"

// polynomial is f(x) = sum c_i x^i.
type polynomial struct {
	coeffs []float64
}

func (p *polynomial) Kind() Kind { return Polynomial }

func (p *polynomial) Evaluate(x float64, derivative bool) (float64, error) {
	var res float64
	if derivative {
		for i := 1; i < len(p.coeffs); i++ {
			res += float64(i) * p.coeffs[i] * math.Pow(x, float64(i-1))
		}
	} else {
		for i, c := range p.coeffs {
			res += c * math.Pow(x, float64(i))
		}
	}
	return checked(Polynomial, x, res, derivative)
}

func (p *polynomial) Coefficients() []float64 { return append([]float64(nil), p.coeffs...) }

func (p *polynomial) Formula() string { return polynomialFormula(p.coeffs) }

func (p *polynomial) AxisHint() AxisHint { return axisHint(Polynomial, p.coeffs) }
