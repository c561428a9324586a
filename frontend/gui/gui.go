// Package gui is the windowed frontend built on Ebiten. Unlike terminals it
// sees real key releases, so held keys auto-repeat through the input
// controller.
package gui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/frontend/gui/debugui"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/piece"
)

const (
	CellSize = 30
	offsetX  = 50
	offsetY  = 50
)

var pieceColors = map[piece.Type]color.RGBA{
	piece.I:     {0, 240, 240, 255},
	piece.L:     {240, 160, 0, 255},
	piece.J:     {0, 0, 240, 255},
	piece.Z:     {240, 0, 0, 255},
	piece.S:     {0, 240, 0, 255},
	piece.O:     {240, 240, 0, 255},
	piece.T:     {160, 0, 240, 255},
	piece.Ghost: {255, 255, 255, 80},
}

var (
	frameColor = color.RGBA{128, 128, 128, 255}
	flashColor = color.RGBA{255, 255, 255, 255}
)

// DefaultKeys binds arrows, space, z/x/c and enter/p.
func DefaultKeys() map[ebiten.Key]input.Action {
	return map[ebiten.Key]input.Action{
		ebiten.KeyArrowLeft:  input.Left,
		ebiten.KeyArrowRight: input.Right,
		ebiten.KeyArrowDown:  input.Down,
		ebiten.KeyArrowUp:    input.RotateCW,
		ebiten.KeyX:          input.RotateCW,
		ebiten.KeyZ:          input.RotateCCW,
		ebiten.KeySpace:      input.HardDrop,
		ebiten.KeyC:          input.Hold,
		ebiten.KeyEnter:      input.Confirm,
		ebiten.KeyP:          input.Confirm,
	}
}

// ParseKeys starts from DefaultKeys and replaces the keys of every action
// named in bindings. Key names are Ebiten's, such as "ArrowLeft" or "Space".
func ParseKeys(bindings map[string][]string) (map[ebiten.Key]input.Action, error) {
	keys := DefaultKeys()
	for name := range bindings {
		if _, err := input.ParseAction(name); err != nil {
			return nil, err
		}
	}

	for _, a := range input.Actions {
		names, ok := bindings[a.String()]
		if !ok {
			continue
		}
		for key, bound := range keys {
			if bound == a {
				delete(keys, key)
			}
		}
		for _, name := range names {
			var key ebiten.Key
			if err := key.UnmarshalText([]byte(name)); err != nil {
				return nil, fmt.Errorf("%s: %w", a, err)
			}
			keys[key] = a
		}
	}
	return keys, nil
}

// Game implements ebiten.Game around the scheduler. Update advances the loop
// by the wall time since the previous frame, so the scheduler is driven from
// Ebiten's update goroutine instead of Scheduler.Run.
type Game struct {
	sched *engine.Scheduler
	ctrl  *input.Controller
	game  *game.Game
	keys  map[ebiten.Key]input.Action
	timer *debugui.FrameTimer
	delta time.Duration
	frame int

	backend    *debugui.Backend
	inputState debugui.InputState
}

// Option customises the window frontend.
type Option func(*Game)

// WithOverlay adds the Dear ImGui performance and inspector windows. cfg is
// the rule set the inspector starts editing from.
func WithOverlay(backend *debugui.Backend, cfg game.Config) Option {
	return func(g *Game) {
		g.backend = backend

		stats := debugui.NewPerformanceStats(g.sched, 120)
		inspector := debugui.NewGameInspector(g.game, cfg)

		overlay := &debugui.ImguiSystem{State: &g.inputState}
		overlay.Add(func() { stats.Render(g.delta) })
		overlay.Add(inspector.Render)
		g.sched.Register(overlay)
	}
}

// WithKeys replaces the key bindings.
func WithKeys(keys map[ebiten.Key]input.Action) Option {
	return func(g *Game) { g.keys = keys }
}

// New creates the window frontend. The controller is bound for as long as the
// window runs.
func New(sched *engine.Scheduler, ctrl *input.Controller, g *game.Game, opts ...Option) *Game {
	out := &Game{
		sched: sched,
		ctrl:  ctrl,
		game:  g,
		keys:  DefaultKeys(),
		timer: debugui.NewFrameTimer(),
	}
	for _, opt := range opts {
		opt(out)
	}
	ctrl.Bind()
	return out
}

// WindowSize is the window needed for a board of the given dimensions.
func WindowSize(height, width int) (int, int) {
	return offsetX*2 + width*CellSize + 200, offsetY*2 + height*CellSize
}

func (g *Game) Update() error {
	if g.backend != nil {
		g.backend.BeginFrame()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.ctrl.Unbind()
		return ebiten.Termination
	}

	if !g.inputState.WantCaptureKeyboard {
		for key, a := range g.keys {
			if inpututil.IsKeyJustPressed(key) {
				g.ctrl.Press(a)
			}
			if inpututil.IsKeyJustReleased(key) {
				g.ctrl.Release(a)
			}
		}
	}

	g.delta = g.timer.Delta()
	g.frame++
	g.sched.Step(g.delta)

	if g.backend != nil {
		g.backend.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	view := g.game.ViewMatrix()
	snap := g.game.Snapshot()

	x0 := float32(offsetX)
	if snap.Shake {
		x0 += float32(4 * (1 - 2*(g.frame%2)))
	}
	y0 := float32(offsetY)

	height := len(view)
	width := 0
	if height > 0 {
		width = len(view[0])
	}
	vector.StrokeRect(screen, x0-2, y0-2, float32(width*CellSize+4), float32(height*CellSize+4), 1, frameColor, false)

	for r, cells := range view {
		flash := r < len(snap.RowsPendingClear) && snap.RowsPendingClear[r]
		for c, t := range cells {
			clr, ok := pieceColors[t]
			if flash {
				clr, ok = flashColor, true
			}
			if !ok {
				continue
			}
			x := x0 + float32(c*CellSize)
			y := y0 + float32(r*CellSize)
			vector.DrawFilledRect(screen, x, y, CellSize-1, CellSize-1, clr, false)
		}
	}

	textX := offsetX + width*CellSize + 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE\n%d", snap.Score), textX, offsetY)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LEVEL\n%d", snap.Level), textX, offsetY+40)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LINES\n%d", snap.Lines), textX, offsetY+80)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("NEXT  %s", pieceName(snap.Next)), textX, offsetY+120)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HOLD  %s", pieceName(snap.Hold)), textX, offsetY+140)

	switch snap.State {
	case game.StatePause:
		ebitenutil.DebugPrintAt(screen, "PAUSED\nenter to resume", offsetX+20, offsetY+height*CellSize/2)
	case game.StateGameOver:
		ebitenutil.DebugPrintAt(screen, "GAME OVER\nenter to restart", offsetX+20, offsetY+height*CellSize/2)
	}

	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func pieceName(t piece.Type) string {
	if t == piece.None {
		return "-"
	}
	return t.String()
}
