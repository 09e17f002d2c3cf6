// Package board implements the row-major cell grid shared by the
// authoritative engine and the shadow engine: packed per-cell metadata,
// precomputed neighbor counts, and in-bounds neighbor enumeration.
package board

import (
	"fmt"

	"minefield/internal/point"
)

// CellState is the tagged numeric code stored in a Cell's state byte.
type CellState uint8

const (
	Zero CellState = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Bomb
	Hidden
	Marked
)

// ScoreZero..ScoreEight are the "completed" flavor of Zero..Eight: every
// neighbor of the opened cell that is not cleared is a bomb (see
// Cell.Complete), so no further opening around it is possible. The low
// nibble (state & 0x0F) equals the numeric count.
const ScoreZero CellState = 16

const (
	ScoreOne CellState = ScoreZero + iota + 1
	ScoreTwo
	ScoreThree
	ScoreFour
	ScoreFive
	ScoreSix
	ScoreSeven
	ScoreEight
)

// Count recovers the numeric bomb-neighbor count from a numeric or
// score-flavored state. Only meaningful when IsNumeric or IsScore is true.
func (s CellState) Count() int {
	return int(s & 0x0F)
}

// IsNumeric reports whether s is one of Zero..Eight.
func (s CellState) IsNumeric() bool {
	return s <= Eight
}

// IsScore reports whether s is one of ScoreZero..ScoreEight.
func (s CellState) IsScore() bool {
	return s >= ScoreZero && s <= ScoreEight
}

// ToScore converts a numeric state to its score-flavored equivalent.
func (s CellState) ToScore() CellState {
	return ScoreZero + CellState(s.Count())
}

func (s CellState) String() string {
	switch {
	case s.IsNumeric():
		return fmt.Sprintf("%d", s.Count())
	case s.IsScore():
		return fmt.Sprintf("score(%d)", s.Count())
	case s == Bomb:
		return "bomb"
	case s == Hidden:
		return "hidden"
	case s == Marked:
		return "marked"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Cell is a single board position's state plus packed metadata. It stays
// small and copyable: the board holds these by value in a flat slice.
type Cell struct {
	State     CellState
	Bomb      bool // ground truth; only the engine reads this
	Neighbors uint8
	Cleared   uint8
	Marked    uint8
	User      int
}

// HiddenCount returns the count of neighbors that are neither cleared nor marked.
func (c Cell) HiddenCount() int {
	return int(c.Neighbors) - int(c.Cleared) - int(c.Marked)
}

// Complete reports whether every remaining hidden neighbor of a numeric
// cell is known to be a bomb: neighbors == cleared + count.
func (c Cell) Complete() bool {
	if !c.State.IsNumeric() && !c.State.IsScore() {
		return false
	}
	return int(c.Neighbors) == int(c.Cleared)+c.State.Count()
}

// Board is the 2-D row-major grid of cells.
type Board struct {
	w, h  int
	cells []Cell
}

// New allocates a w x h board of Hidden cells with zeroed metadata.
func New(w, h int) *Board {
	b := &Board{w: w, h: h, cells: make([]Cell, w*h)}
	for i := range b.cells {
		b.cells[i].State = Hidden
	}
	b.computeNeighborCounts()
	return b
}

// Dims reports the board's width and height.
func (b *Board) Dims() (w, h int) {
	return b.w, b.h
}

func (b *Board) inBounds(p point.Point) bool {
	return p.X >= 0 && p.X < b.w && p.Y >= 0 && p.Y < b.h
}

func (b *Board) index(p point.Point) int {
	return p.Y*b.w + p.X
}

// At returns the cell at p. p must be in bounds: it is not checked, and
// an out-of-range point may read another cell or panic.
func (b *Board) At(p point.Point) Cell {
	return b.cells[b.index(p)]
}

// Set overwrites the cell at p.
func (b *Board) Set(p point.Point, c Cell) {
	b.cells[b.index(p)] = c
}

// Mutate applies fn to the cell at p in place.
func (b *Board) Mutate(p point.Point, fn func(*Cell)) {
	fn(&b.cells[b.index(p)])
}

// Neighbors appends the up-to-9 in-bounds neighbors of p in {-1,0,1}^2 to
// dst, optionally including p itself, and returns the extended slice.
func (b *Board) Neighbors(p point.Point, includeCenter bool, dst []point.Point) []point.Point {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 && !includeCenter {
				continue
			}
			n := point.Point{X: p.X + dx, Y: p.Y + dy}
			if b.inBounds(n) {
				dst = append(dst, n)
			}
		}
	}
	return dst
}

// computeNeighborCounts fills in each cell's precomputed Neighbors field.
func (b *Board) computeNeighborCounts() {
	var buf [8]point.Point
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			p := point.Point{X: x, Y: y}
			ns := b.Neighbors(p, false, buf[:0])
			b.cells[b.index(p)].Neighbors = uint8(len(ns))
		}
	}
}

// Iterate walks every cell in row-major order, calling fn with a pointer
// to the live cell so callers can mutate in place. Stops early if fn
// returns false.
func (b *Board) Iterate(fn func(point.Point, *Cell) bool) {
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			p := point.Point{X: x, Y: y}
			if !fn(p, &b.cells[b.index(p)]) {
				return
			}
		}
	}
}

// Bounds returns the board's full extent as a Rect.
func (b *Board) Bounds() point.Rect {
	return point.NewRect(point.Point{}, point.Point{X: b.w, Y: b.h})
}
