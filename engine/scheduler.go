// Package engine runs the single-writer game loop: a frame scheduler that
// drains posted commands, advances virtual timers and executes systems.
package engine

import (
	"context"
	"math"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          int64
	CommandsApplied int64
	TimersFired     int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler owns the loop. Every mutation of game state happens inside Once:
// first posted commands in arrival order, then due timers, then systems.
type Scheduler struct {
	timers      *Timers
	inbox       inbox
	systems     []System
	systemStats []*systemStatsInternal

	frames          int64
	commandsApplied int64
	timersFired     int64
}

// NewScheduler creates a scheduler driving the given timers.
func NewScheduler(timers *Timers) *Scheduler {
	return &Scheduler{
		timers:  timers,
		systems: make([]System, 0),
	}
}

// Timers returns the timer set advanced by this scheduler.
func (s *Scheduler) Timers() *Timers {
	return s.timers
}

// Register appends a system; systems run in registration order.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Enqueue posts fn to run on the loop goroutine at the start of the next
// frame. It is safe to call from any goroutine.
func (s *Scheduler) Enqueue(fn func()) {
	s.inbox.post(fn)
}

// Once executes a single frame of dt seconds.
func (s *Scheduler) Once(dt float64) {
	s.Step(time.Duration(math.Round(dt * float64(time.Second))))
}

// Step executes a single frame of length d.
func (s *Scheduler) Step(d time.Duration) {
	s.frames++
	s.commandsApplied += int64(s.inbox.drain())
	s.timersFired += int64(s.timers.Advance(d))

	frame := newUpdateFrame(d.Seconds(), s.timers)

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush()
}

// Run executes frames at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime)
			lastTime = now
			s.Step(dt)
		}
	}
}

// GetStats returns statistics about frame and system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount:     len(s.systems),
		Frames:          s.frames,
		CommandsApplied: s.commandsApplied,
		TimersFired:     s.timersFired,
		Systems:         make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
