package engine_test

import (
	"fmt"
	"time"

	"github.com/plus3/blockfall/engine"
)

// ExampleTimers shows a periodic task and a cancellable one-shot sharing the
// same virtual clock. Nothing runs until the owner advances time.
func ExampleTimers() {
	timers := engine.NewTimers()

	timers.Every(time.Second, func() {
		fmt.Println("tick at", timers.Now())
	})
	pending := timers.After(1500*time.Millisecond, func() {
		fmt.Println("never printed")
	})

	timers.Advance(time.Second)
	timers.Cancel(pending)
	timers.Advance(time.Second)

	// Output:
	// tick at 1s
	// tick at 2s
}
