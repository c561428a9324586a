// Package game is the falling-block simulation core: the active piece,
// lock and line-clear pipeline, sequencer, scoring and the state machine.
//
// A Game is owned by a single goroutine. Commands arrive through Dispatch and
// every continuation (gravity, clear delay, shake reset) runs as a task on
// the engine.Timers the game was built with, so events are applied one at a
// time against the state observed when they run.
package game

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/logging"
	"github.com/plus3/blockfall/piece"
	"github.com/sirupsen/logrus"
)

// Defaults for Config.
const (
	DefaultLockDelay       = 500 * time.Millisecond
	DefaultMaxLockRenewals = 4
	DefaultClearDelay      = 400 * time.Millisecond
	DefaultShakeDuration   = 200 * time.Millisecond
)

// Config holds the session rules.
type Config struct {
	Height          int
	Width           int
	LockDelay       time.Duration
	MaxLockRenewals int
	ClearDelay      time.Duration
	ShakeDuration   time.Duration
}

// DefaultConfig returns the canonical 20x10 rules.
func DefaultConfig() Config {
	return Config{
		Height:          board.DefaultHeight,
		Width:           board.DefaultWidth,
		LockDelay:       DefaultLockDelay,
		MaxLockRenewals: DefaultMaxLockRenewals,
		ClearDelay:      DefaultClearDelay,
		ShakeDuration:   DefaultShakeDuration,
	}
}

// Totals counts events across every session of a Game.
type Totals struct {
	Sessions  int
	Locks     int
	HardDrops int
	Holds     int
	GameOvers int
}

// Snapshot is a read-only view of the game for frontends.
type Snapshot struct {
	Session          string
	State            State
	Level            int
	Lines            int
	Score            int
	Next             piece.Type
	Hold             piece.Type
	HoldLocked       bool
	RowsPendingClear []bool
	Shake            bool
}

// Option customises a Game at construction.
type Option func(*Game)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *Game) { g.log = log }
}

// WithSource replaces the random piece source.
func WithSource(src Source) Option {
	return func(g *Game) { g.src = src }
}

// WithSeed seeds the default random piece source.
func WithSeed(seed uint64) Option {
	return func(g *Game) { g.src = RandomSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))) }
}

// WithBoard starts the first session on b instead of an empty board.
func WithBoard(b *board.Board) Option {
	return func(g *Game) { g.initialBoard = b }
}

// Game is the single owned state container of a play session.
type Game struct {
	cfg     Config
	pending *Config
	timers  *engine.Timers
	src     Source
	log     logrus.FieldLogger

	session uuid.UUID
	state   State
	board   *board.Board
	active  *ActivePiece
	seq     Sequencer
	score   Score
	clear   []bool
	shake   bool
	totals  Totals
	tick    time.Duration

	initialBoard *board.Board

	gravityTask engine.TaskID
	clearTask   engine.TaskID
	shakeTask   engine.TaskID
}

// New creates a game and starts its first session.
func New(timers *engine.Timers, cfg Config, opts ...Option) *Game {
	g := &Game{
		cfg:    cfg,
		timers: timers,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = RandomSource(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}

	g.startSession()
	return g
}

// Reconfigure stores cfg for the next fresh session. The running session
// keeps its rules.
func (g *Game) Reconfigure(cfg Config) {
	g.pending = &cfg
	g.log.WithField("session", g.session).Info("new rules queued for next session")
}

func (g *Game) startSession() {
	g.cancelTasks()

	if g.pending != nil {
		g.cfg = *g.pending
		g.pending = nil
	}

	if g.initialBoard != nil {
		g.board = g.initialBoard
		g.initialBoard = nil
	} else {
		g.board = board.New(g.cfg.Height, g.cfg.Width)
	}

	g.session = uuid.New()
	g.score = newScore()
	g.seq = NewSequencer(g.src)
	g.clear = nil
	g.shake = false
	g.state = StateStart
	g.totals.Sessions++

	g.log.WithFields(logrus.Fields{
		"session": g.session,
		"height":  g.cfg.Height,
		"width":   g.cfg.Width,
	}).Info("session started")

	g.spawnNext()
	if g.state == StateStart {
		g.armGravity()
	}
}

func (g *Game) cancelTasks() {
	g.timers.Cancel(g.gravityTask)
	g.timers.Cancel(g.clearTask)
	g.timers.Cancel(g.shakeTask)
	g.gravityTask, g.clearTask, g.shakeTask = 0, 0, 0
	g.shake = false
}

// Dispatch applies a command. Commands that do not apply to the current
// state are ignored; only Confirm is accepted while paused or over.
func (g *Game) Dispatch(a input.Action) {
	if a == input.Confirm {
		g.confirm()
		return
	}
	if g.state != StateStart || g.active == nil {
		return
	}

	switch a {
	case input.Left:
		g.shift(ActivePiece.MoveLeft)
	case input.Right:
		g.shift(ActivePiece.MoveRight)
	case input.Down:
		g.stepDown(false)
	case input.RotateCW:
		g.rotate(true)
	case input.RotateCCW:
		g.rotate(false)
	case input.HardDrop:
		g.hardDrop()
	case input.Hold:
		g.hold()
	}
}

func (g *Game) confirm() {
	switch g.state {
	case StateStart:
		g.pause()
	case StatePause:
		g.resume()
	case StateGameOver:
		g.startSession()
	}
}

func (g *Game) pause() {
	g.cancelTasks()
	g.state = StatePause
	g.log.WithField("session", g.session).Info("paused")
}

func (g *Game) resume() {
	g.state = StateStart
	g.armGravity()
	if g.clear != nil {
		g.clearTask = g.timers.After(g.cfg.ClearDelay, g.finishClear)
	}
	g.log.WithField("session", g.session).Info("resumed")
}

func (g *Game) gameOver() {
	g.cancelTasks()
	g.active = nil
	g.state = StateGameOver
	g.totals.GameOvers++

	g.log.WithFields(logrus.Fields{
		"session": g.session,
		"score":   g.score.Points,
		"lines":   g.score.Lines,
		"level":   g.score.Level,
	}).Info("game over")
}

func (g *Game) shift(op Move) {
	if moved, ok := TryMove(*g.active, g.board, op); ok {
		g.active = &moved
	}
}

func (g *Game) rotate(clockwise bool) {
	if turned, ok := Rotate(*g.active, g.board, clockwise); ok {
		g.active = &turned
	}
}

func (g *Game) hold() {
	fits := func(t piece.Type) bool {
		return Spawn(t, g.board.Width()).Fits(g.board)
	}
	incoming, ok := g.seq.SwapHold(g.active.Type, fits)
	if !ok {
		return
	}

	next := Spawn(incoming, g.board.Width())
	g.active = &next
	g.totals.Holds++
}

// State returns the current game state.
func (g *Game) State() State {
	return g.state
}

// Active returns a copy of the active piece, if one exists.
func (g *Game) Active() (ActivePiece, bool) {
	if g.active == nil {
		return ActivePiece{}, false
	}
	return *g.active, true
}

// Board returns a copy of the locked cells.
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// TickInterval returns the current gravity period.
func (g *Game) TickInterval() time.Duration {
	return g.tick
}

// Totals returns event counters across sessions.
func (g *Game) Totals() Totals {
	return g.totals
}

// Snapshot returns the read-only game status.
func (g *Game) Snapshot() Snapshot {
	var rows []bool
	if g.clear != nil {
		rows = make([]bool, len(g.clear))
		copy(rows, g.clear)
	}

	return Snapshot{
		Session:          g.session.String(),
		State:            g.state,
		Level:            g.score.Level,
		Lines:            g.score.Lines,
		Score:            g.score.Points,
		Next:             g.seq.Next(),
		Hold:             g.seq.Held(),
		HoldLocked:       g.seq.HoldLocked(),
		RowsPendingClear: rows,
		Shake:            g.shake,
	}
}

// ViewMatrix projects the board with the ghost and the active piece drawn
// on top. When the game is over only the locked board is shown.
func (g *Game) ViewMatrix() [][]piece.Type {
	if g.state == StateGameOver || g.active == nil {
		return g.board.Matrix()
	}

	view := g.board.Clone()
	ghost := HardDrop(*g.active, g.board)
	view.Stamp(ghost.Shape, ghost.Pos, piece.Ghost)
	view.Stamp(g.active.Shape, g.active.Pos, g.active.Type)
	return view.Matrix()
}
