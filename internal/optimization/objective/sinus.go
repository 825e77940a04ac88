package objective

import "math"

// sinus is f(x) = amplitude * sin(period*x + phase) + constant, with the
// coefficients ordered constant, amplitude, phase, period.
type sinus struct {
	coeffs []float64
}

func (s *sinus) Kind() Kind { return Sinus }

func (s *sinus) Evaluate(x float64, derivative bool) (float64, error) {
	constant, amplitude, phase, period := s.coeffs[0], s.coeffs[1], s.coeffs[2], s.coeffs[3]
	var y float64
	if derivative {
		y = math.Cos(x*period+phase) * amplitude * period
	} else {
		y = math.Sin(x*period+phase)*amplitude + constant
	}
	return checked(Sinus, x, y, derivative)
}

func (s *sinus) Coefficients() []float64 { return append([]float64(nil), s.coeffs...) }

func (s *sinus) Formula() string { return sinusFormula(s.coeffs) }

func (s *sinus) AxisHint() AxisHint { return axisHint(Sinus, s.coeffs) }
