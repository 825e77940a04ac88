// Package playback walks a cursor over a completed run: single steps,
// first/last, jumps and timed auto-play that can be paused at any tick.
package playback

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/copyleftdev/noviz/internal/optimization"
)

// DefaultDelay is the pause between auto-play steps at speed 50.
const DefaultDelay = 500 * time.Millisecond

// MaxSpeed is the fastest speed setting; it plays without pausing.
const MaxSpeed = 100

// StepFunc receives every step auto-play advances to.
type StepFunc func(index int, rec optimization.Record)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger.Named("playback")
		}
	}
}

// WithDelay sets the initial auto-play delay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// Controller owns the cursor of one buffer. Moves that would leave the
// recorded range are no-ops, and manual moves are rejected while auto-play
// runs. It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	buf     *optimization.Buffer
	delay   time.Duration
	playing bool
	logger  *zap.Logger
}

// New creates a controller positioned on the first record.
func New(buf *optimization.Buffer, opts ...Option) (*Controller, error) {
	if buf == nil || buf.Len() == 0 {
		return nil, optimization.ConfigurationError("nothing to play, calculate a run first").
			WithComponent("playback").WithOperation("New")
	}
	c := &Controller{
		buf:    buf,
		delay:  DefaultDelay,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	buf.SetCursorFirst()
	return c, nil
}

// Next steps forward. The returned line is the pseudocode line of the new
// current record; ok is false, and line -1, when nothing moved. Every move
// is a no-op when the target is outside the recorded range or is already
// under the cursor.
func (c *Controller) Next() (line int, ok bool) { return c.move(func(b *optimization.Buffer) int { return b.Cursor() + 1 }) }

// Prev steps back.
func (c *Controller) Prev() (line int, ok bool) { return c.move(func(b *optimization.Buffer) int { return b.Cursor() - 1 }) }

// First moves to the first record. It does not move, and reports false,
// when the cursor is already there.
func (c *Controller) First() (line int, ok bool) { return c.move(func(*optimization.Buffer) int { return 0 }) }

// Last moves to the last recorded step. It does not move, and reports
// false, when the cursor is already there.
func (c *Controller) Last() (line int, ok bool) { return c.move(func(b *optimization.Buffer) int { return b.Len() - 1 }) }

// JumpTo moves to record i.
func (c *Controller) JumpTo(i int) (line int, ok bool) { return c.move(func(*optimization.Buffer) int { return i }) }

func (c *Controller) move(target func(*optimization.Buffer) int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		c.logger.Debug("Move rejected while playing")
		return -1, false
	}
	i := target(c.buf)
	rec, ok := c.buf.At(i)
	if !ok {
		c.logger.Debug("Move outside recorded range", zap.Int("index", i), zap.Int("len", c.buf.Len()))
		return -1, false
	}
	if i == c.buf.Cursor() {
		return -1, false
	}
	c.buf.SetCursor(i)
	return rec.Line, true
}

// Current returns the record under the cursor and its index.
func (c *Controller) Current() (int, optimization.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, _ := c.buf.Current()
	return c.buf.Cursor(), rec
}

// Cursor returns the current index.
func (c *Controller) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Cursor()
}

// Len returns the number of recorded steps.
func (c *Controller) Len() int { return c.buf.Len() }

// Playing reports whether auto-play is running.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Delay returns the pause between auto-play steps.
func (c *Controller) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

// SetDelay sets the pause between auto-play steps. It takes effect at the
// next tick.
func (c *Controller) SetDelay(d time.Duration) error {
	if d < 0 {
		return optimization.ConfigurationError("delay must not be negative, got %s", d).
			WithComponent("playback").WithOperation("SetDelay")
	}
	c.mu.Lock()
	c.delay = d
	c.mu.Unlock()
	return nil
}

// SetSpeed maps a 0..100 speed setting to a delay of (100-speed)*10ms.
func (c *Controller) SetSpeed(speed int) error {
	if speed < 0 || speed > MaxSpeed {
		return optimization.ConfigurationError("speed must be within [0, %d], got %d", MaxSpeed, speed).
			WithComponent("playback").WithOperation("SetSpeed")
	}
	return c.SetDelay(time.Duration(MaxSpeed-speed) * 10 * time.Millisecond)
}

// Play advances one step per delay until the last record, calling onStep
// after every move. It returns nil at the last record and ctx.Err() when
// cancelled, which is checked at every tick. Only one Play runs at a time.
func (c *Controller) Play(ctx context.Context, onStep StepFunc) error {
	const op = "Play"

	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		return optimization.ConfigurationError("already playing").
			WithComponent("playback").WithOperation(op)
	}
	c.playing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
	}()

	c.logger.Debug("Playback started", zap.Int("cursor", c.Cursor()), zap.Duration("delay", c.Delay()))
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		c.mu.Lock()
		atLast := c.buf.IsAtLast()
		delay := c.delay
		c.mu.Unlock()
		if atLast {
			c.logger.Debug("Playback reached last step")
			return nil
		}

		timer.Reset(delay)
		select {
		case <-ctx.Done():
			c.logger.Debug("Playback paused", zap.Int("cursor", c.Cursor()))
			return ctx.Err()
		case <-timer.C:
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		c.mu.Lock()
		c.buf.Advance(1)
		i := c.buf.Cursor()
		rec, _ := c.buf.Current()
		c.mu.Unlock()

		if onStep != nil {
			onStep(i, rec)
		}
	}
}
