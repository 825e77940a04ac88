package server

import (
	"time"

	"github.com/copyleftdev/noviz/internal/engine"
	"github.com/copyleftdev/noviz/internal/optimization"
	"github.com/copyleftdev/noviz/internal/optimization/annealing"
	"github.com/copyleftdev/noviz/internal/optimization/objective"
)

// calculateRequest is the body of POST /api/v1/runs and the parameter of
// run.calculate.
type calculateRequest struct {
	Function     string            `json:"function"`
	Coefficients []float64         `json:"coefficients,omitempty"`
	Points       []objective.Point `json:"points,omitempty"`
	Method       string            `json:"method"`
	Params       []float64         `json:"params,omitempty"`
	Start        *float64          `json:"start"`
	Seed         uint64            `json:"seed,omitempty"`
}

// toEngine resolves names into an engine request. Empty names stay
// unselected so the engine reports them.
func (c calculateRequest) toEngine(defaultSeed uint64) (engine.Request, error) {
	req := engine.Request{Params: c.Params, Start: c.Start, Seed: c.Seed}
	if req.Seed == 0 {
		req.Seed = defaultSeed
	}
	if c.Function != "" {
		kind, err := objective.ParseKind(c.Function)
		if err != nil {
			return req, err
		}
		req.Function = &engine.FunctionSpec{Kind: kind, Coefficients: c.Coefficients, Points: c.Points}
	}
	if c.Method != "" {
		m, err := engine.ParseMethod(c.Method)
		if err != nil {
			return req, err
		}
		req.Method = &m
	}
	return req, nil
}

// seekRequest is the body of POST /api/v1/runs/{id}/cursor and the
// parameter of run.seek.
type seekRequest struct {
	RunID  string `json:"run_id,omitempty"`
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
}

type functionView struct {
	Name          string              `json:"name"`
	Title         string              `json:"title"`
	SelectsPoints bool                `json:"selects_points"`
	MinPoints     int                 `json:"min_points,omitempty"`
	Coefficients  []objective.Coeff   `json:"coefficients"`
	Formula       string              `json:"formula,omitempty"`
	AxisHint      *objective.AxisHint `json:"axis_hint,omitempty"`
}

func newFunctionView(k objective.Kind) functionView {
	v := functionView{
		Name:          k.String(),
		Title:         k.Title(),
		SelectsPoints: k.SelectsPoints(),
		Coefficients:  k.Coefficients(0),
	}
	if k.SelectsPoints() {
		v.MinPoints = objective.MinInterpolationPoints
		return v
	}
	if f, err := objective.New(k, k.DefaultCoefficients(0)); err == nil {
		hint := f.AxisHint()
		v.Formula = f.Formula()
		v.AxisHint = &hint
	}
	return v
}

type methodView struct {
	Name       string                   `json:"name"`
	Title      string                   `json:"title"`
	Params     []optimization.Param     `json:"params"`
	Pseudocode []string                 `json:"pseudocode"`
	Scatter    optimization.ScatterSpec `json:"scatter"`
}

func newMethodView(m engine.Method) methodView {
	v := methodView{
		Name:       m.String(),
		Title:      m.Title(),
		Params:     m.Params(),
		Pseudocode: m.Pseudocode(),
	}
	if m == engine.SimulatedAnnealing {
		v.Scatter = optimization.ScatterSpec{Enabled: true, Colormap: annealing.Colormap, Min: 0, Max: m.DefaultParams()[2]}
	}
	return v
}

type candidateView struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	State string  `json:"state"`
	Color string  `json:"color"`
}

// stepView is one record. Vectors and lines are null when the step has
// none, and [] when it recorded an empty list.
type stepView struct {
	Index   int                         `json:"index"`
	Line    int                         `json:"line"`
	Code    string                      `json:"code"`
	Points  []optimization.Point        `json:"points"`
	Vectors []optimization.Vector       `json:"vectors"`
	Lines   []optimization.Segment      `json:"lines"`
	Next    *candidateView              `json:"next"`
	Lowest  *optimization.Point         `json:"lowest"`
	Scatter []optimization.ScatterPoint `json:"scatter,omitempty"`
}

func newStepView(run *engine.Run, i int, withScatter bool) (stepView, bool) {
	buf := run.Buffer()
	rec, ok := buf.At(i)
	if !ok {
		return stepView{}, false
	}
	code := run.Algorithm.Pseudocode()
	v := stepView{
		Index:   i,
		Line:    rec.Line,
		Points:  rec.Points,
		Vectors: rec.Vectors,
		Lines:   rec.Lines,
	}
	if rec.Line >= 0 && rec.Line < len(code) {
		v.Code = code[rec.Line]
	}
	if rec.HasNext() {
		v.Next = &candidateView{
			X:     rec.Next.Point.X,
			Y:     rec.Next.Point.Y,
			State: rec.Next.State.String(),
			Color: rec.Next.State.Color(),
		}
	}
	if p, ok := buf.LowestPoint(i); ok {
		v.Lowest = &p
	}
	if withScatter {
		v.Scatter = buf.ScatterPoints(rec.ScatterCount)
	}
	return v, true
}

type runView struct {
	ID         string                   `json:"id"`
	Function   string                   `json:"function"`
	Formula    string                   `json:"formula,omitempty"`
	AxisHint   objective.AxisHint       `json:"axis_hint"`
	Method     string                   `json:"method"`
	Params     []float64                `json:"params"`
	Start      float64                  `json:"start"`
	Iterations int                      `json:"iterations"`
	Length     int                      `json:"length"`
	Cursor     int                      `json:"cursor"`
	Pseudocode []string                 `json:"pseudocode"`
	Scatter    optimization.ScatterSpec `json:"scatter"`
	Created    time.Time                `json:"created"`
	Current    *stepView                `json:"current,omitempty"`
}

type seekView struct {
	Moved  bool      `json:"moved"`
	Cursor int       `json:"cursor"`
	Step   *stepView `json:"step"`
}
