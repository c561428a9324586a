package input

import (
	"time"

	"github.com/kamstrup/intmap"
	"github.com/plus3/blockfall/engine"
)

// Default auto-repeat timing.
const (
	DefaultRepeatDelay    = 150 * time.Millisecond
	DefaultRepeatInterval = 50 * time.Millisecond
)

// Dispatcher receives the commands produced by the controller.
type Dispatcher interface {
	Dispatch(a Action)
}

// Timing configures auto-repeat.
type Timing struct {
	Delay    time.Duration
	Interval time.Duration
}

// DefaultTiming returns the stock repeat delays.
func DefaultTiming() Timing {
	return Timing{Delay: DefaultRepeatDelay, Interval: DefaultRepeatInterval}
}

// Controller maps press/release events to dispatched actions. Repeatable
// actions fire on press, again after Timing.Delay, then every
// Timing.Interval until released. Each held action owns one pending timer
// task, so a release cancels exactly that action's chain.
//
// A Controller must only be used from the goroutine that advances its timers.
type Controller struct {
	timers  *engine.Timers
	target  Dispatcher
	timing  Timing
	repeats *intmap.Map[Action, engine.TaskID]
	bound   bool
}

// NewController creates a bound controller.
func NewController(timers *engine.Timers, target Dispatcher, timing Timing) *Controller {
	return &Controller{
		timers:  timers,
		target:  target,
		timing:  timing,
		repeats: intmap.New[Action, engine.TaskID](len(Actions)),
		bound:   true,
	}
}

// SetTiming replaces the repeat timing for future presses.
func (c *Controller) SetTiming(t Timing) {
	c.timing = t
}

// Timing returns the active repeat timing.
func (c *Controller) Timing() Timing {
	return c.timing
}

// Press fires a once and, for repeatable actions, starts its repeat chain.
// A second press of an action that is already held is ignored.
func (c *Controller) Press(a Action) {
	if !c.bound {
		return
	}
	if a.Repeatable() && c.repeats.Has(a) {
		return
	}

	c.target.Dispatch(a)

	if a.Repeatable() {
		c.arm(a, c.timing.Delay)
	}
}

func (c *Controller) arm(a Action, delay time.Duration) {
	id := c.timers.After(delay, func() {
		c.target.Dispatch(a)
		c.arm(a, c.timing.Interval)
	})
	c.repeats.Put(a, id)
}

// Release stops the repeat chain of a. Releasing an action that is not held
// is a no-op.
func (c *Controller) Release(a Action) {
	if id, ok := c.repeats.Get(a); ok {
		c.timers.Cancel(id)
		c.repeats.Del(a)
	}
}

// Tap is a press immediately followed by a release, for sources that do not
// report key-up events.
func (c *Controller) Tap(a Action) {
	c.Press(a)
	c.Release(a)
}

// Held reports whether a has a live repeat chain.
func (c *Controller) Held(a Action) bool {
	return c.repeats.Has(a)
}

// ReleaseAll cancels every pending repeat.
func (c *Controller) ReleaseAll() {
	for id := range c.repeats.Values() {
		c.timers.Cancel(id)
	}
	c.repeats.Clear()
}

// Bind resumes accepting events after Unbind.
func (c *Controller) Bind() {
	c.bound = true
}

// Unbind drops every pending repeat and ignores events until Bind.
func (c *Controller) Unbind() {
	c.ReleaseAll()
	c.bound = false
}

// Bound reports whether events are accepted.
func (c *Controller) Bound() bool {
	return c.bound
}
