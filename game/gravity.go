package game

import (
	"math"
	"time"
)

// MinTick is the floor applied to the gravity interval.
const MinTick = time.Millisecond

func tickBase(level int) float64 {
	return 0.8 - float64(level-1)*0.007
}

// TickSeconds is the gravity interval for a level:
// (0.8 - (level-1)*0.007) ^ (level-1).
func TickSeconds(level int) float64 {
	return math.Pow(tickBase(level), float64(level-1))
}

// TickInterval converts TickSeconds to a duration clamped to MinTick. Once
// the base reaches zero the interval stays at MinTick.
func TickInterval(level int) time.Duration {
	s := TickSeconds(level)
	if tickBase(level) <= 0 || !(s > 0) {
		return MinTick
	}
	return max(time.Duration(s*float64(time.Second)), MinTick)
}

func (g *Game) armGravity() {
	g.timers.Cancel(g.gravityTask)
	g.tick = TickInterval(g.score.Level)
	g.gravityTask = g.timers.Every(g.tick, g.gravityTick)
}

func (g *Game) gravityTick() {
	g.stepDown(true)
}
