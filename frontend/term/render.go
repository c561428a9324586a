package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/piece"
)

const (
	originX = 2
	originY = 1
	// cellWidth is the number of terminal columns per board cell.
	cellWidth = 2
)

var pieceColors = map[piece.Type]tcell.Color{
	piece.I: tcell.NewRGBColor(0, 240, 240),
	piece.L: tcell.NewRGBColor(240, 160, 0),
	piece.J: tcell.NewRGBColor(0, 0, 240),
	piece.Z: tcell.NewRGBColor(240, 0, 0),
	piece.S: tcell.NewRGBColor(0, 240, 0),
	piece.O: tcell.NewRGBColor(240, 240, 0),
	piece.T: tcell.NewRGBColor(160, 0, 240),
}

var (
	frameStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	textStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	ghostStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	flashStyle = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
)

// RenderSystem draws the playfield and the status panel every frame.
type RenderSystem struct {
	Screen tcell.Screen
	Game   *game.Game

	frame int
}

func (s *RenderSystem) Execute(frame *engine.UpdateFrame) {
	s.frame++
	s.Screen.Clear()

	view := s.Game.ViewMatrix()
	snap := s.Game.Snapshot()

	x0 := originX
	if snap.Shake && s.frame%2 == 0 {
		x0++
	}
	s.drawBoard(x0, originY, view, snap.RowsPendingClear)

	width := 0
	if len(view) > 0 {
		width = len(view[0])
	}
	s.drawPanel(originX+width*cellWidth+4, originY, snap)
	s.Screen.Show()
}

func (s *RenderSystem) drawBoard(x0, y0 int, view [][]piece.Type, clearing []bool) {
	height := len(view)
	width := 0
	if height > 0 {
		width = len(view[0])
	}

	for row := -1; row <= height; row++ {
		s.Screen.SetContent(x0-1, y0+row+1, '|', nil, frameStyle)
		s.Screen.SetContent(x0+width*cellWidth, y0+row+1, '|', nil, frameStyle)
	}
	for col := 0; col < width*cellWidth; col++ {
		s.Screen.SetContent(x0+col, y0, '-', nil, frameStyle)
		s.Screen.SetContent(x0+col, y0+height+1, '-', nil, frameStyle)
	}

	for r, cells := range view {
		flash := r < len(clearing) && clearing[r]
		for c, t := range cells {
			left, right, style := cellGlyph(t)
			if flash {
				left, right, style = '[', ']', flashStyle
			}
			x := x0 + c*cellWidth
			y := y0 + r + 1
			s.Screen.SetContent(x, y, left, nil, style)
			s.Screen.SetContent(x+1, y, right, nil, style)
		}
	}
}

func cellGlyph(t piece.Type) (rune, rune, tcell.Style) {
	switch t {
	case piece.None:
		return ' ', ' ', tcell.StyleDefault
	case piece.Ghost:
		return '[', ']', ghostStyle
	default:
		return '[', ']', tcell.StyleDefault.Foreground(pieceColors[t])
	}
}

func (s *RenderSystem) drawPanel(x, y int, snap game.Snapshot) {
	lines := []string{
		fmt.Sprintf("Score  %d", snap.Score),
		fmt.Sprintf("Level  %d", snap.Level),
		fmt.Sprintf("Lines  %d", snap.Lines),
		"",
		fmt.Sprintf("Next   %s", pieceName(snap.Next)),
		fmt.Sprintf("Hold   %s", pieceName(snap.Hold)),
		"",
	}

	switch snap.State {
	case game.StatePause:
		lines = append(lines, "PAUSED", "enter to resume")
	case game.StateGameOver:
		lines = append(lines, "GAME OVER", "enter to restart")
	}

	for i, line := range lines {
		s.drawText(x, y+i, line, textStyle)
	}
	s.drawPreview(x, y+len(lines)+1, snap.Next)
}

func (s *RenderSystem) drawPreview(x, y int, t piece.Type) {
	if !t.IsPlayable() {
		return
	}
	style := tcell.StyleDefault.Foreground(pieceColors[t])
	for r, c := range piece.ShapeOf(t).Cells() {
		s.Screen.SetContent(x+c*cellWidth, y+r, '[', nil, style)
		s.Screen.SetContent(x+c*cellWidth+1, y+r, ']', nil, style)
	}
}

func (s *RenderSystem) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.Screen.SetContent(x+i, y, r, nil, style)
	}
}

func pieceName(t piece.Type) string {
	if t == piece.None {
		return "-"
	}
	return t.String()
}
