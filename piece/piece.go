// Package piece holds the fixed tetromino catalog: the closed set of piece
// types and their immutable shape matrices.
package piece

import (
	"fmt"
	"iter"
	"math/rand/v2"
)

// Type tags a board cell or a piece. None marks an empty cell and Ghost marks
// the hard-drop projection; neither is ever drawn by the sequencer.
type Type uint8

const (
	None Type = iota
	I
	L
	J
	Z
	S
	O
	T
	Ghost
)

// Playable lists the seven types the sequencer draws from.
var Playable = [...]Type{I, L, J, Z, S, O, T}

var typeNames = [...]string{
	None:  "None",
	I:     "I",
	L:     "L",
	J:     "J",
	Z:     "Z",
	S:     "S",
	O:     "O",
	T:     "T",
	Ghost: "Ghost",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// IsPlayable reports whether t is one of the seven tetrominoes.
func (t Type) IsPlayable() bool {
	return t >= I && t <= T
}

// Cell is a single entry of a shape matrix.
type Cell uint8

const (
	Empty  Cell = 0
	Filled Cell = 1
	Pivot  Cell = 2
)

// MaxSize bounds both dimensions of any shape matrix.
const MaxSize = 4

// Shape is an immutable rows x cols matrix of cells. It is a value type and
// comparable with ==.
type Shape struct {
	rows  int
	cols  int
	cells [MaxSize][MaxSize]Cell
}

func shapeFrom(rows ...[]Cell) Shape {
	s := Shape{rows: len(rows), cols: len(rows[0])}
	for r, row := range rows {
		if len(row) != s.cols {
			panic("piece: ragged shape literal")
		}
		copy(s.cells[r][:], row)
	}
	return s
}

// Rows returns the matrix height.
func (s Shape) Rows() int { return s.rows }

// Cols returns the matrix width.
func (s Shape) Cols() int { return s.cols }

// At returns the cell at the local coordinate (row, col).
func (s Shape) At(row, col int) Cell {
	return s.cells[row][col]
}

// Cells yields the local (row, col) of every occupied cell in row-major order.
func (s Shape) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for r := range s.rows {
			for c := range s.cols {
				if s.cells[r][c] == Empty {
					continue
				}
				if !yield(r, c) {
					return
				}
			}
		}
	}
}

// Pivot returns the local coordinate of the pivot cell, if the shape has one.
func (s Shape) Pivot() (row, col int, ok bool) {
	for r := range s.rows {
		for c := range s.cols {
			if s.cells[r][c] == Pivot {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// RotateCW returns the shape turned 90 degrees clockwise:
// new[y][h-1-x] = old[x][y].
func (s Shape) RotateCW() Shape {
	out := Shape{rows: s.cols, cols: s.rows}
	for x := range s.rows {
		for y := range s.cols {
			out.cells[y][s.rows-1-x] = s.cells[x][y]
		}
	}
	return out
}

// RotateCCW returns the shape turned 90 degrees counter-clockwise:
// new[w-1-y][x] = old[x][y].
func (s Shape) RotateCCW() Shape {
	out := Shape{rows: s.cols, cols: s.rows}
	for x := range s.rows {
		for y := range s.cols {
			out.cells[s.cols-1-y][x] = s.cells[x][y]
		}
	}
	return out
}

func (s Shape) String() string {
	buf := make([]byte, 0, s.rows*(s.cols+1))
	for r := range s.rows {
		for c := range s.cols {
			buf = append(buf, ".#@"[s.cells[r][c]])
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

var catalog = [...]Shape{
	I: shapeFrom(
		[]Cell{1, 2, 1, 1},
	),
	L: shapeFrom(
		[]Cell{0, 0, 1},
		[]Cell{1, 2, 1},
	),
	J: shapeFrom(
		[]Cell{1, 0, 0},
		[]Cell{1, 2, 1},
	),
	Z: shapeFrom(
		[]Cell{1, 2, 0},
		[]Cell{0, 1, 1},
	),
	S: shapeFrom(
		[]Cell{0, 2, 1},
		[]Cell{1, 1, 0},
	),
	O: shapeFrom(
		[]Cell{1, 1},
		[]Cell{1, 1},
	),
	T: shapeFrom(
		[]Cell{0, 1, 0},
		[]Cell{1, 2, 1},
	),
}

// ShapeOf returns the spawn orientation of t. The type set is closed, so an
// unknown type is a programming error and panics.
func ShapeOf(t Type) Shape {
	if !t.IsPlayable() {
		panic(fmt.Sprintf("piece: no shape for %v", t))
	}
	return catalog[t]
}

// Random draws a playable type uniformly.
func Random(r *rand.Rand) Type {
	return Playable[r.IntN(len(Playable))]
}
