package engine

import (
	"time"

	"github.com/kamstrup/intmap"
)

// TaskID identifies a scheduled task. The zero value never names a task, so
// it doubles as "nothing scheduled".
type TaskID uint64

type task struct {
	id       TaskID
	deadline time.Duration
	period   time.Duration
	fn       func()
}

// Timers is a virtual clock with cancellable one-shot and periodic tasks.
// Time only moves when Advance is called, which keeps every continuation on
// the goroutine that owns the game state.
type Timers struct {
	now    time.Duration
	nextID TaskID
	tasks  *intmap.Map[TaskID, *task]
}

// NewTimers creates an empty timer set at virtual time zero.
func NewTimers() *Timers {
	return &Timers{
		tasks: intmap.New[TaskID, *task](16),
	}
}

// Now returns the current virtual time.
func (t *Timers) Now() time.Duration {
	return t.now
}

// After schedules fn to run once, d from now. Negative delays run on the
// next Advance.
func (t *Timers) After(d time.Duration, fn func()) TaskID {
	return t.schedule(max(d, 0), 0, fn)
}

// Every schedules fn to run each period, first firing one period from now.
func (t *Timers) Every(period time.Duration, fn func()) TaskID {
	if period <= 0 {
		panic("engine: non-positive timer period")
	}
	return t.schedule(period, period, fn)
}

func (t *Timers) schedule(delay, period time.Duration, fn func()) TaskID {
	t.nextID++
	tk := &task{
		id:       t.nextID,
		deadline: t.now + delay,
		period:   period,
		fn:       fn,
	}
	t.tasks.Put(tk.id, tk)
	return tk.id
}

// Cancel removes a pending task. It reports whether the task was pending.
func (t *Timers) Cancel(id TaskID) bool {
	if id == 0 {
		return false
	}
	return t.tasks.Del(id)
}

// CancelAll drops every pending task.
func (t *Timers) CancelAll() {
	t.tasks.Clear()
}

// Pending reports whether id is still scheduled.
func (t *Timers) Pending(id TaskID) bool {
	return id != 0 && t.tasks.Has(id)
}

// Len returns the number of scheduled tasks.
func (t *Timers) Len() int {
	return t.tasks.Len()
}

// Advance moves the clock forward by d and runs every task that comes due,
// in deadline order with ties broken by scheduling order. Tasks scheduled by
// a running task fire in the same call if they fall due before the new time.
// It returns the number of tasks run.
func (t *Timers) Advance(d time.Duration) int {
	target := t.now + max(d, 0)
	fired := 0

	for {
		due := t.nextDue(target)
		if due == nil {
			break
		}

		t.now = due.deadline
		if due.period > 0 {
			due.deadline += due.period
		} else {
			t.tasks.Del(due.id)
		}

		due.fn()
		fired++
	}

	t.now = target
	return fired
}

func (t *Timers) nextDue(target time.Duration) *task {
	var best *task
	t.tasks.ForEach(func(_ TaskID, tk *task) bool {
		if tk.deadline > target {
			return true
		}
		if best == nil || tk.deadline < best.deadline ||
			(tk.deadline == best.deadline && tk.id < best.id) {
			best = tk
		}
		return true
	})
	return best
}
