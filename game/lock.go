package game

import (
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
	"github.com/sirupsen/logrus"
)

// stepDown advances the active piece one row. Gravity-driven steps add the
// tick to the lock timer. An obstructed piece is granted a renewal while its
// timer is within LockDelay and it has renewals left; otherwise it locks.
func (g *Game) stepDown(byGravity bool) {
	if g.state != StateStart || g.active == nil {
		return
	}

	if moved, ok := TryMove(*g.active, g.board, ActivePiece.MoveDown); ok {
		if byGravity {
			moved.Grace.Elapsed += g.tick
		}
		g.active = &moved
		return
	}

	grace := &g.active.Grace
	if grace.Elapsed <= g.cfg.LockDelay && grace.Renewals < g.cfg.MaxLockRenewals {
		grace.Elapsed = 0
		grace.Renewals++
		return
	}

	g.lock()
}

func (g *Game) hardDrop() {
	dropped := HardDrop(*g.active, g.board)
	g.active = &dropped
	g.totals.HardDrops++

	g.startShake()
	g.lock()
}

func (g *Game) startShake() {
	g.timers.Cancel(g.shakeTask)
	g.shake = true
	g.shakeTask = g.timers.After(g.cfg.ShakeDuration, func() {
		g.shake = false
		g.shakeTask = 0
	})
}

// lock fuses the active piece into the board. Without full rows the next
// piece spawns at once; otherwise the rows stay visible for ClearDelay and
// compaction runs as a deferred task while no piece is active.
func (g *Game) lock() {
	p := *g.active
	g.board.Stamp(p.Shape, p.Pos, p.Type)
	g.active = nil
	g.totals.Locks++

	mask := g.board.ScanFullRows()
	cleared := board.CountRows(mask)
	if cleared == 0 {
		g.spawnNext()
		return
	}

	level := g.score.Level
	leveledUp := g.score.Award(cleared)

	log := g.log.WithFields(logrus.Fields{
		"session": g.session,
		"rows":    cleared,
		"score":   g.score.Points,
		"lines":   g.score.Lines,
	})
	log.Debug("rows cleared")
	if leveledUp {
		log.WithField("level", g.score.Level).Infof("level up from %d", level)
		g.armGravity()
	}

	g.clear = mask
	g.clearTask = g.timers.After(g.cfg.ClearDelay, g.finishClear)
}

func (g *Game) finishClear() {
	g.clearTask = 0
	g.board.Compact(g.clear)
	g.clear = nil
	g.spawnNext()
}

// spawnNext brings the queued piece into play, re-enables hold and checks
// that the entry footprint is free; a blocked entry ends the game.
func (g *Game) spawnNext() {
	next := Spawn(g.seq.Take(), g.board.Width())
	g.seq.Unlock()

	if !g.entryClear() || !next.Fits(g.board) {
		g.gameOver()
		return
	}
	g.active = &next
}

func (g *Game) entryClear() bool {
	for _, col := range EntryColumns {
		if g.board.InBounds(EntryRow, col) && g.board.At(EntryRow, col) != piece.None {
			return false
		}
	}
	return true
}
