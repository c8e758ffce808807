// Package overlay drives the modal "please wait" overlay that rotates
// integrity quotations while a slow request is outstanding.
package overlay

import (
	"sync"
	"time"
)

// RotationPeriod is how long each quotation stays on screen.
const RotationPeriod = 5 * time.Second

// Quotes is the fixed rotation, shown in order and wrapping around.
var Quotes = [...]string{
	"“Integrity is doing the right thing, even when no one is watching.” – C.S. Lewis",
	"“Real integrity is doing the right thing, knowing that nobody’s going to know whether you did it or not.” – Oprah Winfrey",
	"“Wisdom is knowing the right path to take… Integrity is taking it.” – M.H. McKee",
	"“Integrity is choosing your thoughts and actions based on values, not personal gain.” – Unknown",
	"“The time is always right to do what is right.” – Martin Luther King Jr.",
	"“You are what you do, not what you say you’ll do.” – Carl Jung",
}

// Display receives overlay state. Implementations must not call back into
// the Controller.
type Display interface {
	SetLoading(visible bool, text string)
}

// Scheduler runs fn every d until the returned stop func is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// TickerScheduler is the wall-clock Scheduler.
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}

type Controller struct {
	mu      sync.Mutex
	display Display
	sched   Scheduler
	period  time.Duration

	visible bool
	index   int
	gen     uint64
	stop    func()
}

type Option func(*Controller)

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

func WithPeriod(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.period = d
		}
	}
}

func New(display Display, opts ...Option) *Controller {
	c := &Controller{
		display: display,
		sched:   TickerScheduler{},
		period:  RotationPeriod,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show displays the overlay with the first quotation and starts the
// rotation. Calling Show while already shown restarts from the first
// quotation; only one rotation task is ever active.
func (c *Controller) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.visible = true
	c.index = 0
	c.gen++
	gen := c.gen
	c.render()
	c.stop = c.sched.Every(c.period, func() { c.advance(gen) })
}

// Hide hides the overlay and cancels the rotation.
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.visible {
		return
	}
	c.cancelLocked()
	c.visible = false
	c.gen++
	c.render()
}

func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Current returns the quotation on display, or "" when hidden.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.visible {
		return ""
	}
	return Quotes[c.index]
}

func (c *Controller) advance(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A tick already in flight when Hide or a restarting Show ran.
	if !c.visible || gen != c.gen {
		return
	}
	c.index = (c.index + 1) % len(Quotes)
	c.render()
}

func (c *Controller) cancelLocked() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

func (c *Controller) render() {
	if c.display == nil {
		return
	}
	if !c.visible {
		c.display.SetLoading(false, "")
		return
	}
	c.display.SetLoading(true, Quotes[c.index])
}
