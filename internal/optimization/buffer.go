package optimization

import (
	"gonum.org/v1/gonum/floats"
)

// Buffer is a fixed-capacity, append-only log of Records with a cursor for
// playback. It has one writer (the algorithm during its run) and, once the
// run completes, one reader. It is not safe for concurrent use.
type Buffer struct {
	records []Record
	scatter []ScatterPoint
	next    int
	cursor  int
	minimum int
}

// NewBuffer allocates a buffer with capacity empty slots. Capacity must lie
// in [1, MaxCapacity].
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, ConfigurationError("buffer capacity must be positive, got %d", capacity).
			WithComponent("buffer").WithOperation("NewBuffer")
	}
	if capacity > MaxCapacity {
		return nil, ConfigurationError("buffer capacity must be at most %d, got %d", MaxCapacity, capacity).
			WithComponent("buffer").WithOperation("NewBuffer")
	}
	return &Buffer{
		records: make([]Record, capacity),
		minimum: -1,
	}, nil
}

// Push appends a record at the next empty slot. Scatter points are appended
// to the trail and the running minimum is updated by comparing the lowest
// incoming point against the record currently holding the minimum. A push
// beyond capacity fails and leaves every prior record untouched.
func (b *Buffer) Push(e Entry) error {
	if b.next >= len(b.records) {
		return BufferFullError(len(b.records)).WithComponent("buffer").WithOperation("Push")
	}

	b.scatter = append(b.scatter, e.Scatter...)

	if idx, ok := lowestIndex(e.Points); ok {
		if b.minimum < 0 || e.Points[idx].Y < b.lowestOf(b.minimum).Y {
			b.minimum = b.next
		}
	}

	b.records[b.next] = Record{
		Line:         e.Line,
		Points:       e.Points,
		Vectors:      e.Vectors,
		Lines:        e.Lines,
		ScatterCount: len(b.scatter),
		Next:         e.Next,
		Lowest:       b.minimum,
	}
	b.next++
	return nil
}

// lowestIndex returns the index of the point with the smallest y.
func lowestIndex(points []Point) (int, bool) {
	if len(points) == 0 {
		return 0, false
	}
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	return floats.MinIdx(ys), true
}

func (b *Buffer) lowestOf(i int) Point {
	points := b.records[i].Points
	idx, _ := lowestIndex(points)
	return points[idx]
}

// Len returns the number of records written.
func (b *Buffer) Len() int { return b.next }

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int { return len(b.records) }

// At returns the record at index i.
func (b *Buffer) At(i int) (Record, bool) {
	if i < 0 || i >= b.next {
		return Record{}, false
	}
	return b.records[i], true
}

// Current returns the record at the cursor.
func (b *Buffer) Current() (Record, bool) {
	return b.At(b.cursor)
}

// CurrentOffset returns the record offset steps away from the cursor.
func (b *Buffer) CurrentOffset(offset int) (Record, bool) {
	return b.At(b.cursor + offset)
}

// Cursor returns the current position.
func (b *Buffer) Cursor() int { return b.cursor }

// SetCursorFirst moves the cursor to the first record.
func (b *Buffer) SetCursorFirst() { b.cursor = 0 }

// SetCursorLast moves the cursor to the last written record.
func (b *Buffer) SetCursorLast() { b.cursor = b.next - 1 }

// SetCursor moves the cursor to i. It does not clamp; callers check bounds.
func (b *Buffer) SetCursor(i int) { b.cursor = i }

// Advance moves the cursor by delta. It does not clamp; callers check bounds.
func (b *Buffer) Advance(delta int) { b.cursor += delta }

// IsAtLast reports whether the cursor is on the last written record.
func (b *Buffer) IsAtLast() bool { return b.cursor == b.next-1 }

// Minimum returns the index of the record holding the lowest point seen so
// far, or -1 when no record has points.
func (b *Buffer) Minimum() int { return b.minimum }

// LowestPoint resolves the running minimum as of record i to its point.
func (b *Buffer) LowestPoint(i int) (Point, bool) {
	rec, ok := b.At(i)
	if !ok || !rec.HasLowest() {
		return Point{}, false
	}
	return b.lowestOf(rec.Lowest), true
}

// ScatterPoints returns the first count trail points. Use a record's
// ScatterCount to replay the trail up to that record.
func (b *Buffer) ScatterPoints(count int) []ScatterPoint {
	if count > len(b.scatter) {
		count = len(b.scatter)
	}
	if count <= 0 {
		return nil
	}
	out := make([]ScatterPoint, count)
	copy(out, b.scatter[:count])
	return out
}

// ScatterLen returns the length of the whole trail.
func (b *Buffer) ScatterLen() int { return len(b.scatter) }

// Records returns the written records in order.
func (b *Buffer) Records() []Record {
	out := make([]Record, b.next)
	copy(out, b.records[:b.next])
	return out
}
