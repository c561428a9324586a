package engine

import "time"

// UpdateFrame carries the per-frame context handed to every system.
type UpdateFrame struct {
	DeltaTime float64
	Now       time.Duration
	Commands  *Commands
	Timers    *Timers
}

func newUpdateFrame(dt float64, timers *Timers) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Now:       timers.Now(),
		Commands:  newCommands(),
		Timers:    timers,
	}
}
