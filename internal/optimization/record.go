package optimization

// Point is an (x, y) position on the objective curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is an arrow starting at (X, Y) with extent (DX, DY).
type Vector struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Segment is a line from (X0, Y0) to (X1, Y1).
type Segment struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// ScatterPoint is a trail point colored by Value (the annealing temperature).
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

// CandidateState is the display state of a proposed move.
type CandidateState int

const (
	// CandidateProposed is a move that has not been decided yet.
	CandidateProposed CandidateState = iota
	// CandidateAccepted is a move that was taken.
	CandidateAccepted
	// CandidateRejected is a move that was discarded.
	CandidateRejected
)

// String returns the name of the state.
func (c CandidateState) String() string {
	switch c {
	case CandidateAccepted:
		return "accepted"
	case CandidateRejected:
		return "rejected"
	default:
		return "proposed"
	}
}

// Color returns the display color of the state.
func (c CandidateState) Color() string {
	switch c {
	case CandidateAccepted:
		return "green"
	case CandidateRejected:
		return "red"
	default:
		return "black"
	}
}

// Candidate is the next point an algorithm is considering.
type Candidate struct {
	Point Point          `json:"point"`
	State CandidateState `json:"state"`
}

// Entry is the input of Buffer.Push. Nil slices mean "not recorded".
type Entry struct {
	Line    int
	Points  []Point
	Vectors []Vector
	Lines   []Segment
	Scatter []ScatterPoint
	Next    *Candidate
}

// Record is one recorded step. A nil Vectors or Lines slice means the step
// carries none, which is distinct from an empty recorded slice. Records are
// never mutated after they are pushed; callers must not modify the slices.
type Record struct {
	// Line is the pseudocode line index the step highlights.
	Line int
	// Points is the current state to plot.
	Points []Point
	// Vectors are gradient or tangent arrows.
	Vectors []Vector
	// Lines are auxiliary segments.
	Lines []Segment
	// ScatterCount is the length of the scatter trail as of this step.
	ScatterCount int
	// Next is the candidate point under consideration, if any.
	Next *Candidate
	// Lowest is the index of the record holding the running minimum as of
	// this step, or -1 when no record with points exists yet.
	Lowest int
}

// HasVectors reports whether the step recorded vectors.
func (r Record) HasVectors() bool { return r.Vectors != nil }

// HasLines reports whether the step recorded segments.
func (r Record) HasLines() bool { return r.Lines != nil }

// HasNext reports whether the step carries a candidate point.
func (r Record) HasNext() bool { return r.Next != nil }

// HasLowest reports whether a running minimum exists as of this step.
func (r Record) HasLowest() bool { return r.Lowest >= 0 }
