// Package shadow implements the engine stripped of bomb knowledge: a
// board replica driven entirely by a stream of engine.Update values,
// applying the same cleared/marked bookkeeping so any observer (the
// solver, a remote client) converges on an identical Cell view.
package shadow

import (
	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
)

// Engine is a read-only replica of the authoritative board. It never
// generates updates; it only consumes them.
type Engine struct {
	board *board.Board
}

// New allocates a w x h shadow board, all cells Hidden.
func New(w, h int) *Engine {
	return &Engine{board: board.New(w, h)}
}

// Board exposes the underlying board for read-only inspection.
func (e *Engine) Board() *board.Board { return e.board }

// Reset discards all state and reallocates a fresh w x h board, used
// when the authoritative engine restarts a session.
func (e *Engine) Reset(w, h int) {
	e.board = board.New(w, h)
}

// Apply folds one authoritative update into the shadow board, inferring
// the same neighbor-count side effects the authoritative engine applied
// when it produced this update.
func (e *Engine) Apply(u engine.Update) {
	if !e.board.Bounds().Contains(u.Point) {
		return
	}
	prev := e.board.At(u.Point)

	switch {
	case prev.State == board.Hidden && u.State == board.Marked:
		e.adjustNeighborMarked(u.Point, 1)
		e.board.Mutate(u.Point, func(c *board.Cell) {
			c.State = board.Marked
			c.User = u.User
		})

	case prev.State == board.Marked && u.State == board.Hidden:
		e.adjustNeighborMarked(u.Point, -1)
		e.board.Mutate(u.Point, func(c *board.Cell) { c.State = board.Hidden })

	case prev.State == board.Hidden && u.State == board.Bomb:
		e.adjustNeighborMarked(u.Point, 1)
		e.board.Mutate(u.Point, func(c *board.Cell) {
			c.State = board.Bomb
			c.User = u.User
		})

	case prev.State == board.Hidden && (u.State.IsNumeric() || u.State.IsScore()):
		// A fresh OPEN: p's own neighbors each gain one cleared.
		e.adjustNeighborCleared(u.Point, 1)
		e.board.Mutate(u.Point, func(c *board.Cell) {
			c.State = u.State
			c.User = u.User
		})

	case prev.State.IsNumeric() && u.State.IsScore() && u.State.Count() == prev.State.Count():
		// A previously-opened cell just became complete because one of its
		// neighbors was opened. That neighbor's own fresh-OPEN update
		// follows the promotions in this batch (per the authoritative
		// engine's applyOpen ordering) and bumps our Cleared via
		// adjustNeighborCleared above; only the state changes here.
		e.board.Mutate(u.Point, func(c *board.Cell) {
			c.State = u.State
		})

	default:
		// No bookkeeping applies (e.g. duplicate or out-of-order replay);
		// still adopt the reported state so the view stays current.
		e.board.Mutate(u.Point, func(c *board.Cell) { c.State = u.State })
	}
}

func (e *Engine) adjustNeighborMarked(p point.Point, delta int8) {
	var buf [8]point.Point
	for _, n := range e.board.Neighbors(p, false, buf[:0]) {
		e.board.Mutate(n, func(c *board.Cell) {
			c.Marked = uint8(int8(c.Marked) + delta)
		})
	}
}

func (e *Engine) adjustNeighborCleared(p point.Point, delta int8) {
	var buf [8]point.Point
	for _, n := range e.board.Neighbors(p, false, buf[:0]) {
		e.board.Mutate(n, func(c *board.Cell) {
			c.Cleared = uint8(int8(c.Cleared) + delta)
		})
	}
}
