package game_test

import (
	"testing"
	"time"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/piece"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, opts ...game.Option) (*game.Game, *engine.Timers) {
	t.Helper()
	timers := engine.NewTimers()
	return game.New(timers, game.DefaultConfig(), opts...), timers
}

func activePiece(t *testing.T, g *game.Game) game.ActivePiece {
	t.Helper()
	p, ok := g.Active()
	require.True(t, ok, "expected an active piece")
	return p
}

// wellBoard returns a 20x10 board whose bottom rows are full except for the
// given columns.
func wellBoard(rows int, openCols ...int) *board.Board {
	b := board.New(board.DefaultHeight, board.DefaultWidth)
	open := make(map[int]bool)
	for _, c := range openCols {
		open[c] = true
	}
	for r := b.Height() - rows; r < b.Height(); r++ {
		for c := range b.Width() {
			if !open[c] {
				b.Set(r, c, piece.Z)
			}
		}
	}
	return b
}

func TestNewGameStartsRunning(t *testing.T) {
	g, timers := newGame(t, game.WithSource(game.Cycle(piece.T, piece.I)))

	snap := g.Snapshot()
	assert.Equal(t, game.StateStart, snap.State)
	assert.Equal(t, 1, snap.Level)
	assert.Zero(t, snap.Score)
	assert.Zero(t, snap.Lines)
	assert.Equal(t, piece.I, snap.Next)
	assert.Equal(t, piece.None, snap.Hold)
	assert.NotEmpty(t, snap.Session)

	assert.Equal(t, piece.T, activePiece(t, g).Type)
	assert.Equal(t, time.Second, g.TickInterval())
	assert.Equal(t, 1, timers.Len())
}

func TestSquareStopsAtLeftWall(t *testing.T) {
	g, _ := newGame(t, game.WithSource(game.Cycle(piece.O)))
	require.Equal(t, 4, activePiece(t, g).Pos.Col)

	for want := 3; want >= 0; want-- {
		g.Dispatch(input.Left)
		assert.Equal(t, want, activePiece(t, g).Pos.Col)
	}

	for range 3 {
		g.Dispatch(input.Left)
		assert.Equal(t, 0, activePiece(t, g).Pos.Col)
	}
}

func TestHoldScenario(t *testing.T) {
	g, _ := newGame(t, game.WithSource(game.Cycle(piece.T, piece.I, piece.S, piece.Z)))
	require.Equal(t, piece.T, activePiece(t, g).Type)

	g.Dispatch(input.Hold)
	snap := g.Snapshot()
	assert.Equal(t, piece.I, activePiece(t, g).Type)
	assert.Equal(t, piece.T, snap.Hold)
	assert.Equal(t, piece.S, snap.Next)
	assert.True(t, snap.HoldLocked)

	g.Dispatch(input.Hold)
	snap = g.Snapshot()
	assert.Equal(t, piece.I, activePiece(t, g).Type)
	assert.Equal(t, piece.T, snap.Hold)
	assert.Equal(t, piece.S, snap.Next)

	// locking re-enables hold; the next hold swaps with the held T
	g.Dispatch(input.HardDrop)
	assert.False(t, g.Snapshot().HoldLocked)
	assert.Equal(t, piece.S, activePiece(t, g).Type)

	g.Dispatch(input.Hold)
	assert.Equal(t, piece.T, activePiece(t, g).Type)
	assert.Equal(t, piece.S, g.Snapshot().Hold)
	assert.Equal(t, 2, g.Totals().Holds)
}

func TestHoldRefusedWhenIncomingBlocked(t *testing.T) {
	b := board.New(board.DefaultHeight, 8)
	b.Set(0, 2, piece.Z)
	g, _ := newGame(t, game.WithBoard(b), game.WithSource(game.Cycle(piece.O, piece.I)))
	require.Equal(t, piece.O, activePiece(t, g).Type)

	g.Dispatch(input.Hold)

	snap := g.Snapshot()
	assert.Equal(t, piece.O, activePiece(t, g).Type)
	assert.Equal(t, piece.None, snap.Hold)
	assert.Equal(t, piece.I, snap.Next)
	assert.False(t, snap.HoldLocked)
	assert.Zero(t, g.Totals().Holds)
}

func TestGameOverScenario(t *testing.T) {
	b := board.New(board.DefaultHeight, board.DefaultWidth)
	for r := 1; r < b.Height(); r++ {
		b.Set(r, 4, piece.J)
	}
	g, timers := newGame(t, game.WithBoard(b), game.WithSource(game.Cycle(piece.I)))
	require.Equal(t, game.StateStart, g.State())

	g.Dispatch(input.HardDrop)

	assert.Equal(t, game.StateGameOver, g.State())
	_, ok := g.Active()
	assert.False(t, ok)
	assert.Zero(t, timers.Len(), "game over must leave no pending tasks")
	assert.Equal(t, 1, g.Totals().GameOvers)

	view := g.ViewMatrix()
	assert.Equal(t, g.Board().Matrix(), view)

	before := g.Snapshot()
	for _, a := range []input.Action{input.Left, input.Right, input.Down, input.RotateCW, input.RotateCCW, input.HardDrop, input.Hold} {
		g.Dispatch(a)
	}
	timers.Advance(time.Minute)
	assert.Equal(t, before, g.Snapshot())
	assert.Equal(t, view, g.ViewMatrix())

	g.Dispatch(input.Confirm)
	snap := g.Snapshot()
	assert.Equal(t, game.StateStart, snap.State)
	assert.NotEqual(t, before.Session, snap.Session)
	assert.Zero(t, snap.Score)
	assert.Equal(t, board.New(board.DefaultHeight, board.DefaultWidth).Matrix(), g.Board().Matrix())
	assert.Equal(t, piece.I, activePiece(t, g).Type)
	assert.Equal(t, 2, g.Totals().Sessions)
}

func TestLineClearPipeline(t *testing.T) {
	g, timers := newGame(t,
		game.WithBoard(wellBoard(2, 4, 5)),
		game.WithSource(game.Cycle(piece.O, piece.T)),
	)

	g.Dispatch(input.HardDrop)

	snap := g.Snapshot()
	assert.Equal(t, 100, snap.Score)
	assert.Equal(t, 2, snap.Lines)
	assert.True(t, snap.Shake)
	require.Len(t, snap.RowsPendingClear, board.DefaultHeight)
	assert.True(t, snap.RowsPendingClear[18])
	assert.True(t, snap.RowsPendingClear[19])
	assert.Equal(t, 2, board.CountRows(snap.RowsPendingClear))

	_, ok := g.Active()
	assert.False(t, ok, "no active piece during the clear pause")

	// commands and gravity are no-ops while rows are pending
	g.Dispatch(input.Left)
	g.Dispatch(input.Hold)
	timers.Advance(399 * time.Millisecond)
	_, ok = g.Active()
	assert.False(t, ok)
	assert.False(t, g.Snapshot().HoldLocked)

	timers.Advance(time.Millisecond)
	snap = g.Snapshot()
	assert.Nil(t, snap.RowsPendingClear)
	assert.Equal(t, piece.T, activePiece(t, g).Type)
	assert.Equal(t, board.New(board.DefaultHeight, board.DefaultWidth).Matrix(), g.Board().Matrix())
}

func TestTetrisScoresTwelveHundred(t *testing.T) {
	g, _ := newGame(t,
		game.WithBoard(wellBoard(4, 4)),
		game.WithSource(game.Cycle(piece.I)),
	)

	g.Dispatch(input.RotateCW)
	p := activePiece(t, g)
	require.Equal(t, 4, p.Shape.Rows())
	require.Equal(t, 4, p.Pos.Col)

	g.Dispatch(input.HardDrop)
	snap := g.Snapshot()
	assert.Equal(t, 1200, snap.Score)
	assert.Equal(t, 4, snap.Lines)
	assert.Equal(t, 4, board.CountRows(snap.RowsPendingClear))
}

func TestShakeResets(t *testing.T) {
	g, timers := newGame(t, game.WithSource(game.Cycle(piece.O)))

	g.Dispatch(input.HardDrop)
	assert.True(t, g.Snapshot().Shake)

	timers.Advance(game.DefaultShakeDuration)
	assert.False(t, g.Snapshot().Shake)
}

func TestGravityLocksAfterLanding(t *testing.T) {
	g, timers := newGame(t, game.WithSource(game.Cycle(piece.O)))

	// the square falls from row -1 to row 18 in 19 ticks
	timers.Advance(19 * time.Second)
	p := activePiece(t, g)
	assert.Equal(t, 18, p.Pos.Row)
	assert.Zero(t, g.Totals().Locks)

	// it has spent well over the lock delay falling, so the first
	// obstructed tick locks it
	timers.Advance(time.Second)
	assert.Equal(t, 1, g.Totals().Locks)
	assert.Equal(t, piece.O, g.Board().At(19, 4))
	assert.Equal(t, -1, activePiece(t, g).Pos.Row)
}

func TestLockGraceRenewals(t *testing.T) {
	g, timers := newGame(t, game.WithSource(game.Cycle(piece.O)))

	timers.Advance(19 * time.Second)
	g.Dispatch(input.Left)
	assert.Zero(t, activePiece(t, g).Grace.Elapsed)

	timers.Advance(4 * time.Second)
	assert.Zero(t, g.Totals().Locks)
	assert.Equal(t, game.DefaultMaxLockRenewals, activePiece(t, g).Grace.Renewals)

	timers.Advance(time.Second)
	assert.Equal(t, 1, g.Totals().Locks)
	assert.Equal(t, piece.O, g.Board().At(19, 3))
}

func TestSoftDropDoesNotAccumulateLockTime(t *testing.T) {
	g, _ := newGame(t, game.WithSource(game.Cycle(piece.O)))

	for range 19 {
		g.Dispatch(input.Down)
	}
	p := activePiece(t, g)
	assert.Equal(t, 18, p.Pos.Row)
	assert.Zero(t, p.Grace.Elapsed)

	// obstructed down presses spend the renewals, then lock
	for range game.DefaultMaxLockRenewals {
		g.Dispatch(input.Down)
	}
	assert.Zero(t, g.Totals().Locks)

	g.Dispatch(input.Down)
	assert.Equal(t, 1, g.Totals().Locks)
}

func TestPauseAndResume(t *testing.T) {
	g, timers := newGame(t, game.WithSource(game.Cycle(piece.T)))
	start := activePiece(t, g)

	g.Dispatch(input.Confirm)
	assert.Equal(t, game.StatePause, g.State())
	assert.Zero(t, timers.Len())

	g.Dispatch(input.Left)
	g.Dispatch(input.HardDrop)
	timers.Advance(10 * time.Second)
	assert.Equal(t, start, activePiece(t, g))

	g.Dispatch(input.Confirm)
	assert.Equal(t, game.StateStart, g.State())
	timers.Advance(time.Second)
	assert.Equal(t, start.Pos.Row+1, activePiece(t, g).Pos.Row)
}

func TestPauseDuringClearDefersCompaction(t *testing.T) {
	g, timers := newGame(t,
		game.WithBoard(wellBoard(2, 4, 5)),
		game.WithSource(game.Cycle(piece.O)),
	)

	g.Dispatch(input.HardDrop)
	g.Dispatch(input.Confirm)
	timers.Advance(time.Minute)

	snap := g.Snapshot()
	assert.Equal(t, game.StatePause, snap.State)
	assert.Equal(t, 2, board.CountRows(snap.RowsPendingClear))
	assert.False(t, snap.Shake)

	g.Dispatch(input.Confirm)
	timers.Advance(game.DefaultClearDelay)
	assert.Nil(t, g.Snapshot().RowsPendingClear)
	activePiece(t, g)
}

func TestViewMatrix(t *testing.T) {
	g, _ := newGame(t, game.WithSource(game.Cycle(piece.O)))

	view := g.ViewMatrix()
	require.Len(t, view, board.DefaultHeight)
	require.Len(t, view[0], board.DefaultWidth)

	assert.Equal(t, piece.O, view[0][4])
	assert.Equal(t, piece.O, view[0][5])
	assert.Equal(t, piece.Ghost, view[18][4])
	assert.Equal(t, piece.Ghost, view[19][5])
	assert.Equal(t, piece.None, view[10][4])

	// the projection never touches the locked board
	assert.Equal(t, board.New(board.DefaultHeight, board.DefaultWidth).Matrix(), g.Board().Matrix())
}

func TestReconfigureAppliesOnNextSession(t *testing.T) {
	b := board.New(board.DefaultHeight, board.DefaultWidth)
	for r := 1; r < b.Height(); r++ {
		b.Set(r, 4, piece.J)
	}
	g, _ := newGame(t, game.WithBoard(b), game.WithSource(game.Cycle(piece.I)))

	cfg := game.DefaultConfig()
	cfg.Height = 24
	g.Reconfigure(cfg)
	assert.Equal(t, board.DefaultHeight, g.Board().Height())

	g.Dispatch(input.HardDrop)
	require.Equal(t, game.StateGameOver, g.State())
	g.Dispatch(input.Confirm)

	assert.Equal(t, 24, g.Board().Height())
}

func TestLevelUpRearmsGravity(t *testing.T) {
	// a 24-row board with a 20-row well in column 4 feeds five tetrises
	b := board.New(24, board.DefaultWidth)
	for r := 4; r < b.Height(); r++ {
		for c := range b.Width() {
			if c != 4 {
				b.Set(r, c, piece.L)
			}
		}
	}
	g, timers := newGame(t, game.WithBoard(b), game.WithSource(game.Cycle(piece.I)))
	require.Equal(t, time.Second, g.TickInterval())

	for i := range 5 {
		g.Dispatch(input.RotateCW)
		g.Dispatch(input.HardDrop)
		require.Equal(t, 4*(i+1), g.Snapshot().Lines)
		timers.Advance(game.DefaultClearDelay)
	}

	snap := g.Snapshot()
	assert.Equal(t, 2, snap.Level)
	// the fifth tetris is still scored at level 1
	assert.Equal(t, 5*1200, snap.Score)
	assert.Equal(t, game.TickInterval(2), g.TickInterval())
	assert.Equal(t, 1, timers.Len())
	assert.Equal(t, 24, g.Board().Height())
}
