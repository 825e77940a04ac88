package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/noviz/internal/optimization"
)

func newBuffer(t *testing.T, lines ...int) *optimization.Buffer {
	t.Helper()
	buf, err := optimization.NewBuffer(len(lines) + 2)
	require.NoError(t, err)
	for i, line := range lines {
		require.NoError(t, buf.Push(optimization.Entry{
			Line:   line,
			Points: []optimization.Point{{X: float64(i), Y: float64(-i)}},
		}))
	}
	return buf
}

func TestBoundaryMovesAreNoOps(t *testing.T) {
	c, err := New(newBuffer(t, 2, 3, 4))
	require.NoError(t, err)

	tests := []struct {
		name   string
		move   func() (int, bool)
		line   int
		ok     bool
		cursor int
	}{
		{"prev at first", c.Prev, -1, false, 0},
		{"first at first", c.First, -1, false, 0},
		{"jump to current", func() (int, bool) { return c.JumpTo(0) }, -1, false, 0},
		{"last", c.Last, 4, true, 2},
		{"next at last", c.Next, -1, false, 2},
		{"last at last", c.Last, -1, false, 2},
	}
	for _, tt := range tests {
		line, ok := tt.move()
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.line, line, tt.name)
		assert.Equal(t, tt.cursor, c.Cursor(), tt.name)
	}

	i, rec := c.Current()
	assert.Equal(t, 2, i)
	assert.Equal(t, 4, rec.Line)
}

func TestMoves(t *testing.T) {
	c, err := New(newBuffer(t, 2, 3, 4, 6))
	require.NoError(t, err)

	tests := []struct {
		name   string
		move   func() (int, bool)
		line   int
		ok     bool
		cursor int
	}{
		{"next", c.Next, 3, true, 1},
		{"next again", c.Next, 4, true, 2},
		{"prev", c.Prev, 3, true, 1},
		{"jump", func() (int, bool) { return c.JumpTo(3) }, 6, true, 3},
		{"jump past end", func() (int, bool) { return c.JumpTo(4) }, -1, false, 3},
		{"jump negative", func() (int, bool) { return c.JumpTo(-1) }, -1, false, 3},
		{"first", c.First, 2, true, 0},
		{"first again", c.First, -1, false, 0},
	}
	for _, tt := range tests {
		line, ok := tt.move()
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.line, line, tt.name)
		assert.Equal(t, tt.cursor, c.Cursor(), tt.name)
	}
	assert.Equal(t, 4, c.Len())
}

func TestNewNeedsRun(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.Is(err, optimization.ErrConfiguration))

	empty, err := optimization.NewBuffer(3)
	require.NoError(t, err)
	_, err = New(empty)
	assert.True(t, errors.Is(err, optimization.ErrConfiguration))
}

func TestNewRewindsCursor(t *testing.T) {
	buf := newBuffer(t, 1, 2, 3)
	buf.SetCursorLast()

	c, err := New(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Cursor())
}

func TestPlayToEnd(t *testing.T) {
	c, err := New(newBuffer(t, 2, 3, 4, 6), WithDelay(0))
	require.NoError(t, err)

	var visited, lines []int
	err = c.Play(context.Background(), func(i int, rec optimization.Record) {
		visited = append(visited, i)
		lines = append(lines, rec.Line)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, visited)
	assert.Equal(t, []int{3, 4, 6}, lines)
	assert.False(t, c.Playing())

	// already at the end
	require.NoError(t, c.Play(context.Background(), nil))
	assert.Equal(t, 3, c.Cursor())
}

func TestPlayCancelsWithinOneTick(t *testing.T) {
	c, err := New(newBuffer(t, 1, 2, 3), WithDelay(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Play(ctx, nil) }()

	require.Eventually(t, c.Playing, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("playback did not stop after cancel")
	}
	assert.Equal(t, 0, c.Cursor())
	assert.False(t, c.Playing())
}

func TestManualMovesRejectedWhilePlaying(t *testing.T) {
	c, err := New(newBuffer(t, 1, 2, 3), WithDelay(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Play(ctx, nil) }()
	require.Eventually(t, c.Playing, time.Second, time.Millisecond)

	_, ok := c.Next()
	assert.False(t, ok)
	_, ok = c.Last()
	assert.False(t, ok)
	assert.True(t, errors.Is(c.Play(ctx, nil), optimization.ErrConfiguration))

	cancel()
	<-done

	_, ok = c.Next()
	assert.True(t, ok)
}

func TestSpeed(t *testing.T) {
	c, err := New(newBuffer(t, 1))
	require.NoError(t, err)
	assert.Equal(t, DefaultDelay, c.Delay())

	tests := []struct {
		speed int
		delay time.Duration
	}{
		{0, time.Second},
		{50, 500 * time.Millisecond},
		{75, 250 * time.Millisecond},
		{100, 0},
	}
	for _, tt := range tests {
		require.NoError(t, c.SetSpeed(tt.speed))
		assert.Equal(t, tt.delay, c.Delay(), "speed %d", tt.speed)
	}

	assert.Error(t, c.SetSpeed(-1))
	assert.Error(t, c.SetSpeed(101))
	assert.Error(t, c.SetDelay(-time.Second))
	assert.Equal(t, time.Duration(0), c.Delay())
}
