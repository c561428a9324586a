// Package board models the fixed-size playfield of locked cells.
package board

import (
	"fmt"
	"strings"

	"github.com/plus3/blockfall/piece"
)

// Canonical playfield dimensions.
const (
	DefaultHeight = 20
	DefaultWidth  = 10
)

// Point is a board coordinate. Row grows downwards and may be negative for
// cells that have not entered the visible field yet.
type Point struct {
	Row, Col int
}

func (p Point) Add(q Point) Point {
	return Point{Row: p.Row + q.Row, Col: p.Col + q.Col}
}

func (p Point) Sub(q Point) Point {
	return Point{Row: p.Row - q.Row, Col: p.Col - q.Col}
}

// Board is a height x width grid of cells, each empty (piece.None) or tagged
// with the type of the piece that filled it. Dimensions never change.
type Board struct {
	height int
	width  int
	cells  []piece.Type
}

// New creates an empty board.
func New(height, width int) *Board {
	if height <= 0 || width <= 0 {
		panic(fmt.Sprintf("board: invalid dimensions %dx%d", height, width))
	}
	return &Board{
		height: height,
		width:  width,
		cells:  make([]piece.Type, height*width),
	}
}

// FromRows builds a board from text rows, one string per row. '.' is empty,
// '#' is an I cell and the letters I L J Z S O T G map to their types.
func FromRows(rows ...string) *Board {
	b := New(len(rows), len(rows[0]))
	for r, line := range rows {
		if len(line) != b.width {
			panic(fmt.Sprintf("board: row %d has width %d, want %d", r, len(line), b.width))
		}
		for c, ch := range line {
			b.cells[r*b.width+c] = typeForRune(ch)
		}
	}
	return b
}

func typeForRune(ch rune) piece.Type {
	switch ch {
	case '.':
		return piece.None
	case '#', 'I':
		return piece.I
	case 'L':
		return piece.L
	case 'J':
		return piece.J
	case 'Z':
		return piece.Z
	case 'S':
		return piece.S
	case 'O':
		return piece.O
	case 'T':
		return piece.T
	case 'G':
		return piece.Ghost
	}
	panic(fmt.Sprintf("board: unknown cell %q", ch))
}

func (b *Board) Height() int { return b.height }
func (b *Board) Width() int  { return b.width }

// InBounds reports whether (row, col) lies on the visible grid.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.height && col >= 0 && col < b.width
}

// At returns the tag of an in-bounds cell.
func (b *Board) At(row, col int) piece.Type {
	return b.cells[row*b.width+col]
}

// Set writes a single in-bounds cell.
func (b *Board) Set(row, col int, t piece.Type) {
	b.cells[row*b.width+col] = t
}

// IsEmptyPosition reports whether shape placed with its top-left corner at pos
// fits: every occupied cell must have a column in [0,width) and a row below
// height, and cells already inside the grid must land on empty cells. Cells
// above the top edge are exempt from the fill check.
func (b *Board) IsEmptyPosition(shape piece.Shape, pos Point) bool {
	for r, c := range shape.Cells() {
		row, col := pos.Row+r, pos.Col+c
		if col < 0 || col >= b.width || row >= b.height {
			return false
		}
		if row >= 0 && b.cells[row*b.width+col] != piece.None {
			return false
		}
	}
	return true
}

// Stamp writes tag into every occupied cell of shape at pos that falls inside
// the grid. Callers stamp into a Clone for read-only projections.
func (b *Board) Stamp(shape piece.Shape, pos Point, tag piece.Type) {
	for r, c := range shape.Cells() {
		row, col := pos.Row+r, pos.Col+c
		if b.InBounds(row, col) {
			b.cells[row*b.width+col] = tag
		}
	}
}

// ScanFullRows returns a mask with one entry per row, true where every cell
// of the row is filled.
func (b *Board) ScanFullRows() []bool {
	mask := make([]bool, b.height)
	for r := range b.height {
		mask[r] = b.rowFull(r)
	}
	return mask
}

func (b *Board) rowFull(r int) bool {
	for _, cell := range b.cells[r*b.width : (r+1)*b.width] {
		if cell == piece.None {
			return false
		}
	}
	return true
}

// CountRows returns the number of set entries in a row mask.
func CountRows(mask []bool) int {
	n := 0
	for _, full := range mask {
		if full {
			n++
		}
	}
	return n
}

// Compact removes every row flagged in mask and inserts the same number of
// empty rows at the top. Remaining rows keep their relative order. It returns
// the number of rows removed.
func (b *Board) Compact(mask []bool) int {
	removed := CountRows(mask)
	if removed == 0 {
		return 0
	}

	next := make([]piece.Type, len(b.cells))
	dst := b.height - 1
	for r := b.height - 1; r >= 0; r-- {
		if r < len(mask) && mask[r] {
			continue
		}
		copy(next[dst*b.width:(dst+1)*b.width], b.cells[r*b.width:(r+1)*b.width])
		dst--
	}
	b.cells = next
	return removed
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cells := make([]piece.Type, len(b.cells))
	copy(cells, b.cells)
	return &Board{height: b.height, width: b.width, cells: cells}
}

// Matrix copies the grid into a freshly allocated row slice.
func (b *Board) Matrix() [][]piece.Type {
	out := make([][]piece.Type, b.height)
	for r := range b.height {
		out[r] = make([]piece.Type, b.width)
		copy(out[r], b.cells[r*b.width:(r+1)*b.width])
	}
	return out
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := range b.height {
		for c := range b.width {
			sb.WriteByte(runeForType(b.At(r, c)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func runeForType(t piece.Type) byte {
	switch t {
	case piece.None:
		return '.'
	case piece.Ghost:
		return 'G'
	}
	return t.String()[0]
}
