// Package carousel rotates through a small set of featured testimonials,
// one active at a time, moving on by itself on an interval and whenever
// the visitor navigates.
package carousel

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/herobrain/site/internal/metrics"
	"github.com/herobrain/site/internal/testimonial"
)

// DefaultInterval is how long a testimonial stays active before the carousel moves on.
const DefaultInterval = 10 * time.Second

var ErrAlreadyRunning = errors.New("carousel is already running")

// State is a snapshot of a Controller.
type State struct {
	Featured []testimonial.Testimonial
	Active   int
	// Running is true while the automatic timer is armed.
	Running bool
}

// Empty is true when there's nothing to show, the view renders its empty state.
func (s State) Empty() bool {
	return len(s.Featured) == 0
}

func (s State) Current() (testimonial.Testimonial, bool) {
	if s.Empty() {
		return testimonial.Testimonial{}, false
	}

	return s.Featured[s.Active], true
}

type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithInterval sets the time between automatic moves, anything but a positive duration keeps the default.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// Controller owns the active index into one view's featured set.
// Navigation may come from any goroutine, the automatic timer only runs inside Run.
type Controller struct {
	clock    clockwork.Clock
	interval time.Duration
	updates  chan struct{}

	mu       sync.Mutex
	featured []testimonial.Testimonial
	active   int
	timer    clockwork.Timer
	due      time.Time
}

func New(featured []testimonial.Testimonial, opts ...Option) *Controller {
	c := &Controller{
		clock:    clockwork.NewRealClock(),
		interval: DefaultInterval,
		updates:  make(chan struct{}, 1),
		featured: slices.Clone(featured),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Featured: slices.Clone(c.featured),
		Active:   c.active,
		Running:  c.timer != nil,
	}
}

// Updates receives after the state has changed. Several changes may be
// coalesced into one receive, read State for the latest.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Advance moves to the next testimonial, wrapping around to the first.
func (c *Controller) Advance() {
	c.manual(func() bool { return c.move(1) })
}

// Retreat moves to the previous testimonial, wrapping around to the last.
func (c *Controller) Retreat() {
	c.manual(func() bool { return c.move(-1) })
}

// JumpTo makes the testimonial at i active, an index outside the featured set is ignored.
func (c *Controller) JumpTo(i int) {
	c.manual(func() bool {
		if i < 0 || i >= len(c.featured) {
			return false
		}

		c.active = i
		return true
	})
}

// Replace swaps in a reloaded featured set, starting over from the first
// testimonial if the active one no longer exists.
func (c *Controller) Replace(featured []testimonial.Testimonial) {
	c.mu.Lock()
	c.featured = slices.Clone(featured)
	if c.active >= len(c.featured) {
		c.active = 0
	}
	c.mu.Unlock()

	c.notify()
}

// Run arms the automatic timer and moves to the next testimonial every
// interval until ctx is done. The timer is stopped before Run returns and
// no automatic move happens afterwards.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	timer := c.clock.NewTimer(c.interval)
	c.timer = timer
	c.due = c.clock.Now().Add(c.interval)
	c.mu.Unlock()

	metrics.CarouselViewsActive.Inc()
	defer func() {
		c.mu.Lock()
		timer.Stop()
		c.timer = nil
		c.mu.Unlock()

		metrics.CarouselViewsActive.Dec()
		c.notify()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.Chan():
			c.tick(ctx)
		}
	}
}

func (c *Controller) tick(ctx context.Context) {
	c.mu.Lock()
	// Shutting down, or a manual move re-armed the timer after this tick was sent.
	if ctx.Err() != nil || c.timer == nil || c.clock.Now().Before(c.due) {
		c.mu.Unlock()
		return
	}

	moved := c.move(1)
	c.rearm()
	c.mu.Unlock()

	if moved {
		metrics.CarouselMoves.WithLabelValues("auto").Inc()
		c.notify()
	}
}

func (c *Controller) manual(fn func() bool) {
	c.mu.Lock()
	moved := fn()
	if moved && c.timer != nil {
		c.rearm()
	}
	c.mu.Unlock()

	if moved {
		metrics.CarouselMoves.WithLabelValues("manual").Inc()
		c.notify()
	}
}

// move must be called with mu held.
func (c *Controller) move(step int) bool {
	n := len(c.featured)
	if n == 0 {
		return false
	}

	c.active = (c.active + step + n) % n

	return true
}

// rearm restarts the timer for a full interval, must be called with mu held.
func (c *Controller) rearm() {
	if !c.timer.Stop() {
		select {
		case <-c.timer.Chan():
		default:
		}
	}

	c.timer.Reset(c.interval)
	c.due = c.clock.Now().Add(c.interval)
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
