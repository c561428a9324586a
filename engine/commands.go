package engine

import "sync"

// Commands buffers work a system wants to run after every system of the
// current frame has executed.
type Commands struct {
	defers []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer queues fn for the end of the frame.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued functions.
func (c *Commands) Len() int {
	return len(c.defers)
}

// Flush runs queued functions in order and resets the buffer. Functions
// deferred while flushing run in the same call.
func (c *Commands) Flush() {
	for i := 0; i < len(c.defers); i++ {
		c.defers[i]()
	}
	c.defers = c.defers[:0]
}

// inbox collects commands posted from other goroutines. The scheduler drains
// it on its own goroutine, so posted functions never run concurrently with
// systems or timers.
type inbox struct {
	mu      sync.Mutex
	pending []func()
	spare   []func()
}

func (in *inbox) post(fn func()) {
	in.mu.Lock()
	in.pending = append(in.pending, fn)
	in.mu.Unlock()
}

func (in *inbox) drain() int {
	in.mu.Lock()
	batch := in.pending
	in.pending = in.spare[:0]
	in.mu.Unlock()

	for _, fn := range batch {
		fn()
	}

	clear(batch)
	in.spare = batch[:0]
	return len(batch)
}
