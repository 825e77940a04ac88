package objective

import "math"

// lennardJones is 4 eps ((sigma/x)^12 - (sigma/x)^6).
type lennardJones struct {
	coeffs []float64
}

func (l *lennardJones) Kind() Kind { return LennardJones }

func (l *lennardJones) Evaluate(x float64, derivative bool) (float64, error) {
	eps, sigma := l.coeffs[0], l.coeffs[1]
	s6 := math.Pow(sigma, 6)
	var y float64
	if derivative {
		y = 24 * eps * s6 * (math.Pow(x, 6) - 2*s6) / math.Pow(x, 13)
	} else {
		y = 4 * eps * (s6*s6/math.Pow(x, 12) - s6/math.Pow(x, 6))
	}
	return checked(LennardJones, x, y, derivative)
}

func (l *lennardJones) Coefficients() []float64 { return append([]float64(nil), l.coeffs...) }

func (l *lennardJones) Formula() string { return lennardJonesFormula(l.coeffs) }

func (l *lennardJones) AxisHint() AxisHint { return axisHint(LennardJones, l.coeffs) }

// torsion is k/2 (cos x - cos theta0)^2.
type torsion struct {
	coeffs []float64
}

func (t *torsion) Kind() Kind { return Torsion }

func (t *torsion) Evaluate(x float64, derivative bool) (float64, error) {
	theta0, k := t.coeffs[0], t.coeffs[1]
	d := math.Cos(x) - math.Cos(theta0)
	var y float64
	if derivative {
		y = -k * d * math.Sin(x)
	} else {
		y = k / 2 * d * d
	}
	return checked(Torsion, x, y, derivative)
}

func (t *torsion) Coefficients() []float64 { return append([]float64(nil), t.coeffs...) }

func (t *torsion) Formula() string { return torsionFormula(t.coeffs) }

func (t *torsion) AxisHint() AxisHint { return axisHint(Torsion, t.coeffs) }

// bondAngle is the harmonic k/2 (x - theta0)^2.
type bondAngle struct {
	coeffs []float64
}

func (b *bondAngle) Kind() Kind { return BondAngle }

func (b *bondAngle) Evaluate(x float64, derivative bool) (float64, error) {
	theta0, k := b.coeffs[0], b.coeffs[1]
	var y float64
	if derivative {
		y = k * (x - theta0)
	} else {
		y = k / 2 * (x - theta0) * (x - theta0)
	}
	return checked(BondAngle, x, y, derivative)
}

func (b *bondAngle) Coefficients() []float64 { return append([]float64(nil), b.coeffs...) }

func (b *bondAngle) Formula() string { return bondAngleFormula(b.coeffs) }

func (b *bondAngle) AxisHint() AxisHint { return axisHint(BondAngle, b.coeffs) }

// simCrash is a narrow deep well at x=1 beside a wide shallow basin at
// x=-1. Annealing with large steps tends to miss the narrow well.
type simCrash struct{}

func (simCrash) Kind() Kind { return SimCrash }

func (simCrash) Evaluate(x float64, derivative bool) (float64, error) {
	narrow := math.Exp(-(x - 1) * (x - 1) / (2 * 0.1 * 0.1))
	wide := math.Exp(-(x + 1) * (x + 1) / (2 * 3 * 3))
	var y float64
	if derivative {
		y = 100*(x-1)*narrow + (x+1)/18*wide
	} else {
		y = -narrow - 0.5*wide
	}
	return checked(SimCrash, x, y, derivative)
}

func (simCrash) Coefficients() []float64 { return []float64{} }

func (simCrash) Formula() string { return simCrashFormula }

func (simCrash) AxisHint() AxisHint { return axisHint(SimCrash, nil) }
