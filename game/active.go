package game

import (
	"time"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
)

// EntryRow and EntryColumns describe the canonical entry footprint. Every
// spawn orientation rests its bottom row inside it, so a clear footprint
// means the next piece can enter.
const EntryRow = 0

var EntryColumns = [...]int{3, 4, 5, 6}

// KickOffsets is the ordered list of corrective translations tried when a
// rotated piece collides. The first offset that clears the collision wins.
var KickOffsets = [...]board.Point{
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: 0, Col: -2},
	{Row: 0, Col: 2},
	{Row: -1, Col: 0},
	{Row: -2, Col: 0},
}

// Grace tracks the lock delay of the active piece.
type Grace struct {
	// Elapsed is gravity time accumulated since the last player adjustment
	// or renewal.
	Elapsed time.Duration
	// Renewals counts how often an obstructed piece was granted more time.
	Renewals int
}

// ActivePiece is the falling piece. It is a value: every operation returns
// a new piece and leaves the receiver untouched.
type ActivePiece struct {
	Type  piece.Type
	Shape piece.Shape
	Pos   board.Point
	Grace Grace
}

// Spawn places a fresh piece of type t horizontally centred with its bottom
// row on the entry row of a board of the given width.
func Spawn(t piece.Type, width int) ActivePiece {
	shape := piece.ShapeOf(t)
	return ActivePiece{
		Type:  t,
		Shape: shape,
		Pos: board.Point{
			Row: EntryRow - (shape.Rows() - 1),
			Col: (width - shape.Cols()) / 2,
		},
	}
}

// Move is a pure translation of a piece.
type Move func(ActivePiece) ActivePiece

// MoveDown shifts the piece one row down. It leaves the lock timer alone.
func (p ActivePiece) MoveDown() ActivePiece {
	p.Pos.Row++
	return p
}

// MoveUp shifts the piece one row up and resets the lock timer.
func (p ActivePiece) MoveUp() ActivePiece {
	p.Pos.Row--
	p.Grace.Elapsed = 0
	return p
}

// MoveLeft shifts the piece one column left and resets the lock timer.
func (p ActivePiece) MoveLeft() ActivePiece {
	p.Pos.Col--
	p.Grace.Elapsed = 0
	return p
}

// MoveRight shifts the piece one column right and resets the lock timer.
func (p ActivePiece) MoveRight() ActivePiece {
	p.Pos.Col++
	p.Grace.Elapsed = 0
	return p
}

// Fits reports whether the piece occupies only free cells of b.
func (p ActivePiece) Fits(b *board.Board) bool {
	return b.IsEmptyPosition(p.Shape, p.Pos)
}

// TryMove applies op and returns the result if it fits; otherwise it returns
// p unchanged and false.
func TryMove(p ActivePiece, b *board.Board, op Move) (ActivePiece, bool) {
	next := op(p)
	if !next.Fits(b) {
		return p, false
	}
	return next, true
}

// rotated turns the shape and shifts the position so the pivot cell keeps
// its board coordinate. Shapes without a pivot stay where they are.
func rotated(p ActivePiece, clockwise bool) ActivePiece {
	shape := p.Shape.RotateCCW()
	if clockwise {
		shape = p.Shape.RotateCW()
	}

	out := p
	out.Shape = shape
	if pr, pc, ok := p.Shape.Pivot(); ok {
		nr, nc, _ := shape.Pivot()
		out.Pos = p.Pos.Add(board.Point{Row: pr - nr, Col: pc - nc})
	}
	return out
}

// Rotate turns the piece a quarter turn. When the turned piece collides the
// offsets of KickOffsets are tried in order; if none fits the rotation is
// rejected and p is returned unchanged with false. A successful rotation
// resets the lock timer.
func Rotate(p ActivePiece, b *board.Board, clockwise bool) (ActivePiece, bool) {
	turned := rotated(p, clockwise)
	turned.Grace.Elapsed = 0

	if turned.Fits(b) {
		return turned, true
	}
	for _, kick := range KickOffsets {
		kicked := turned
		kicked.Pos = turned.Pos.Add(kick)
		if kicked.Fits(b) {
			return kicked, true
		}
	}
	return p, false
}

// HardDrop moves the piece down for as long as it fits. The result always
// fits (given that p does) and cannot move down any further. It also serves
// as the ghost projection.
func HardDrop(p ActivePiece, b *board.Board) ActivePiece {
	for {
		next, ok := TryMove(p, b, ActivePiece.MoveDown)
		if !ok {
			return p
		}
		p = next
	}
}
