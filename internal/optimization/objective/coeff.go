package objective

// Coeff describes one tunable coefficient of an objective function. The
// bounds are form hints and are never enforced at evaluation time.
type Coeff struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Default float64 `json:"default"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Defaults returns the default value of every coefficient, in order.
func Defaults(coeffs []Coeff) []float64 {
	values := make([]float64, len(coeffs))
	for i, c := range coeffs {
		values[i] = c.Default
	}
	return values
}
