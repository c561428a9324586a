package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/piece"
)

const minimapCell = 8

var minimapColors = map[piece.Type]imgui.Vec4{
	piece.I:     imgui.NewVec4(0.0, 0.94, 0.94, 1),
	piece.L:     imgui.NewVec4(0.94, 0.63, 0.0, 1),
	piece.J:     imgui.NewVec4(0.0, 0.0, 0.94, 1),
	piece.Z:     imgui.NewVec4(0.94, 0.0, 0.0, 1),
	piece.S:     imgui.NewVec4(0.0, 0.94, 0.0, 1),
	piece.O:     imgui.NewVec4(0.94, 0.94, 0.0, 1),
	piece.T:     imgui.NewVec4(0.63, 0.0, 0.94, 1),
	piece.Ghost: imgui.NewVec4(1, 1, 1, 0.25),
}

// GameInspector shows the snapshot, lifetime totals and a minimap, and lets
// the developer fire actions and queue new rules for the next session.
type GameInspector struct {
	game *game.Game
	cfg  game.Config

	renewals int32
	lockMs   int32
}

func NewGameInspector(g *game.Game, cfg game.Config) *GameInspector {
	return &GameInspector{
		game:     g,
		cfg:      cfg,
		renewals: int32(cfg.MaxLockRenewals),
		lockMs:   int32(cfg.LockDelay.Milliseconds()),
	}
}

func (gi *GameInspector) Render() {
	if !imgui.BeginV("Game Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	snap := gi.game.Snapshot()
	imgui.Text(fmt.Sprintf("Session: %s", snap.Session))
	imgui.Text(fmt.Sprintf("State: %s", snap.State))
	imgui.Text(fmt.Sprintf("Score: %d  Level: %d  Lines: %d", snap.Score, snap.Level, snap.Lines))
	imgui.Text(fmt.Sprintf("Next: %s  Hold: %s (locked %t)", snap.Next, snap.Hold, snap.HoldLocked))
	imgui.Text(fmt.Sprintf("Gravity: %s", gi.game.TickInterval()))

	if p, ok := gi.game.Active(); ok {
		imgui.Text(fmt.Sprintf("Active: %s at (%d,%d) grace %s/%d", p.Type, p.Pos.Row, p.Pos.Col, p.Grace.Elapsed, p.Grace.Renewals))
	}

	if imgui.TreeNodeStr("Totals") {
		totals := gi.game.Totals()
		imgui.BulletText(fmt.Sprintf("Sessions: %d", totals.Sessions))
		imgui.BulletText(fmt.Sprintf("Locks: %d", totals.Locks))
		imgui.BulletText(fmt.Sprintf("Hard drops: %d", totals.HardDrops))
		imgui.BulletText(fmt.Sprintf("Holds: %d", totals.Holds))
		imgui.BulletText(fmt.Sprintf("Game overs: %d", totals.GameOvers))
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Actions") {
		for i, a := range input.Actions {
			if i > 0 {
				imgui.SameLine()
			}
			if imgui.Button(a.String()) {
				gi.game.Dispatch(a)
			}
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Rules") {
		imgui.Text("Lock renewals:")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		imgui.InputInt("##renewals", &gi.renewals)

		imgui.Text("Lock delay (ms):")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		imgui.InputInt("##lockdelay", &gi.lockMs)

		if imgui.Button("Apply at next session") {
			gi.game.Reconfigure(gi.rules())
		}
		imgui.TreePop()
	}

	imgui.Separator()
	gi.drawMinimap(gi.game.ViewMatrix(), snap.RowsPendingClear)

	imgui.End()
}

func (gi *GameInspector) rules() game.Config {
	cfg := gi.cfg
	cfg.MaxLockRenewals = max(int(gi.renewals), 0)
	cfg.LockDelay = time.Duration(max(gi.lockMs, 0)) * time.Millisecond
	return cfg
}

func (gi *GameInspector) drawMinimap(view [][]piece.Type, clearing []bool) {
	drawList := imgui.WindowDrawList()
	origin := imgui.CursorScreenPos()
	flash := imgui.ColorU32Vec4(imgui.NewVec4(1, 1, 1, 0.9))

	for r, cells := range view {
		for c, t := range cells {
			clr, ok := minimapColors[t]
			if !ok && !(r < len(clearing) && clearing[r]) {
				continue
			}
			x := origin.X + float32(c*minimapCell)
			y := origin.Y + float32(r*minimapCell)
			color := imgui.ColorU32Vec4(clr)
			if r < len(clearing) && clearing[r] {
				color = flash
			}
			drawList.AddRectFilled(imgui.NewVec2(x, y), imgui.NewVec2(x+minimapCell-1, y+minimapCell-1), color)
		}
	}
}
