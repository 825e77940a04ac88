package optimization

import (
	"strconv"
	"strings"
)

// Param describes one tunable algorithm input. Bounds are hints for input
// forms and are not enforced.
type Param struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Default float64 `json:"default"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Defaults returns the default value of every descriptor, in order.
func Defaults(params []Param) []float64 {
	values := make([]float64, len(params))
	for i, p := range params {
		values[i] = p.Default
	}
	return values
}

// ParamsString renders "name: value" lines for display.
// Missing values fall back to the descriptor default.
func ParamsString(params []Param, values []float64) string {
	var b strings.Builder
	for i, p := range params {
		v := p.Default
		if i < len(values) {
			v = values[i]
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}
