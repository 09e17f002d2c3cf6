// Package engine implements the authoritative board engine: it owns
// bomb ground truth, applies Actions via a LIFO worklist, and emits the
// Update stream that the coordination server fans out and the shadow
// engine replays.
package engine

import (
	"fmt"
	"time"

	"minefield/internal/board"
	"minefield/internal/point"
)

// murmurHash3_64 finalizer, used to mix a nanosecond clock read into a
// usable seed when the caller passes seed == 0.
func murmurHash3_64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// Engine owns the board, bomb ground truth, and the PRNG used to lay
// bombs.
type Engine struct {
	board *board.Board
	w, h  int
	p     float64
	seed  uint64
	rng   *xoshiro256pp

	// PanicOnInvalid makes Validate abort on the first violation
	// instead of returning it; tests and debug harnesses opt in.
	PanicOnInvalid bool

	worklist []Action
}

// New creates an engine over a w x h board with bomb probability p,
// seeded deterministically from seed (or from a clock read if seed==0).
func New(w, h int, p float64, seed uint64) *Engine {
	if seed == 0 {
		seed = murmurHash3_64(uint64(time.Now().UnixNano()))
	}
	e := &Engine{
		board: board.New(w, h),
		w:     w,
		h:     h,
		p:     p,
		seed:  seed,
		rng:   newXoshiro256pp(seed),
	}
	return e
}

// Seed reports the seed the engine was (re)started with.
func (e *Engine) Seed() uint64 { return e.seed }

// Board exposes the underlying board store for read-only inspection
// (server full-dump, tests).
func (e *Engine) Board() *board.Board { return e.board }

// Reset lays bombs, recomputes neighbor counts, finds a bomb-free
// starting neighborhood, and performs an implicit OPEN there. It may be
// called on a live engine to restart a session.
func (e *Engine) Reset() []Update {
	e.board = board.New(e.w, e.h)

	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		c.Bomb = e.rng.Float64() < e.p
		return true
	})

	start := e.findSafeStart()
	return e.Apply(Action{Kind: Open, Point: start, User: 0})
}

// findSafeStart searches for a cell whose 3x3 neighborhood (including
// itself) contains no bombs. Falls back to the first cell found with
// the fewest bomb neighbors if no perfectly clear cell exists (can
// happen on tiny or very dense boards).
func (e *Engine) findSafeStart() point.Point {
	best := point.Point{}
	bestBombs := -1
	var buf [9]point.Point

	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		ns := e.board.Neighbors(p, true, buf[:0])
		bombs := 0
		for _, n := range ns {
			if e.board.At(n).Bomb {
				bombs++
			}
		}
		if bestBombs == -1 || bombs < bestBombs {
			bestBombs = bombs
			best = p
		}
		return bestBombs != 0
	})
	return best
}

// Apply pushes action onto the worklist and drains it, returning the
// resulting update stream. The worklist is a stack: update ordering is
// depth-first from the initiating action, a multiset otherwise.
func (e *Engine) Apply(action Action) []Update {
	e.worklist = append(e.worklist[:0], action)
	var updates []Update

	for len(e.worklist) > 0 {
		n := len(e.worklist) - 1
		a := e.worklist[n]
		e.worklist = e.worklist[:n]
		updates = e.step(a, updates)
	}
	return updates
}

// push enqueues a follow-up action onto the worklist (LIFO).
func (e *Engine) push(a Action) {
	e.worklist = append(e.worklist, a)
}

func (e *Engine) step(a Action, updates []Update) []Update {
	if !e.board.Bounds().Contains(a.Point) {
		return updates
	}
	c := e.board.At(a.Point)

	switch a.Kind {
	case Mark:
		switch {
		case c.State == board.Hidden:
			return e.applyMark(a, updates)
		case c.Complete():
			// Every remaining hidden neighbor of a complete cell is a
			// bomb; cascade the mark onto all of them.
			var buf [8]point.Point
			for _, n := range e.board.Neighbors(a.Point, false, buf[:0]) {
				if e.board.At(n).State == board.Hidden {
					e.push(Action{Kind: Mark, Point: n, User: a.User})
				}
			}
			return updates
		default:
			return updates
		}

	case Unmark:
		if c.State != board.Marked {
			return updates
		}
		e.board.Mutate(a.Point, func(cell *board.Cell) { cell.State = board.Hidden })
		e.adjustNeighborMarked(a.Point, -1)
		updates = append(updates, Update{State: board.Hidden, Point: a.Point, User: a.User})
		return updates

	case Open:
		switch {
		case c.State == board.Hidden:
			return e.applyOpen(a, c, updates)
		case (c.State.IsNumeric() || c.State.IsScore()) && int(c.Marked) == c.State.Count():
			// Chord: open every still-hidden neighbor.
			var buf [8]point.Point
			for _, n := range e.board.Neighbors(a.Point, false, buf[:0]) {
				if e.board.At(n).State == board.Hidden {
					e.push(Action{Kind: Open, Point: n, User: a.User})
				}
			}
			return updates
		default:
			return updates
		}

	default:
		return updates
	}
}

func (e *Engine) applyMark(a Action, updates []Update) []Update {
	e.board.Mutate(a.Point, func(cell *board.Cell) {
		cell.State = board.Marked
		cell.User = a.User
	})
	e.adjustNeighborMarked(a.Point, 1)
	return append(updates, Update{State: board.Marked, Point: a.Point, User: a.User})
}

func (e *Engine) applyOpen(a Action, c board.Cell, updates []Update) []Update {
	if c.Bomb {
		e.board.Mutate(a.Point, func(cell *board.Cell) {
			cell.State = board.Bomb
			cell.User = a.User
		})
		e.adjustNeighborMarked(a.Point, 1)
		updates = append(updates, Update{State: board.Bomb, Point: a.Point, User: a.User})
		return updates
	}

	var buf [8]point.Point
	neighbors := e.board.Neighbors(a.Point, false, buf[:0])
	bombs := 0
	for _, n := range neighbors {
		if e.board.At(n).Bomb {
			bombs++
		}
	}

	for _, n := range neighbors {
		var becameComplete bool
		var newState board.CellState
		e.board.Mutate(n, func(cell *board.Cell) {
			cell.Cleared++
			if cell.Complete() && cell.State.IsNumeric() {
				cell.State = cell.State.ToScore()
				becameComplete = true
				newState = cell.State
			}
		})
		if becameComplete {
			nc := e.board.At(n)
			updates = append(updates, Update{State: newState, Point: n, User: nc.User})
		}
	}

	state := board.CellState(bombs)
	e.board.Mutate(a.Point, func(cell *board.Cell) {
		cell.State = state
		cell.User = a.User
		if cell.Complete() {
			cell.State = state.ToScore()
		}
	})
	updates = append(updates, Update{State: e.board.At(a.Point).State, Point: a.Point, User: a.User})

	if bombs == 0 {
		for _, n := range neighbors {
			if e.board.At(n).State == board.Hidden {
				e.push(Action{Kind: Open, Point: n, User: a.User})
			}
		}
	}
	return updates
}

// adjustNeighborMarked increments (delta=1) or decrements (delta=-1)
// the Marked count of every neighbor of p.
func (e *Engine) adjustNeighborMarked(p point.Point, delta int8) {
	var buf [8]point.Point
	for _, n := range e.board.Neighbors(p, false, buf[:0]) {
		e.board.Mutate(n, func(cell *board.Cell) {
			cell.Marked = uint8(int8(cell.Marked) + delta)
		})
	}
}

// Validate scans the entire board and returns every invariant
// violation found. An empty slice means the board is consistent.
func (e *Engine) Validate() []error {
	var errs []error
	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		if int(c.Cleared)+int(c.Marked)+c.HiddenCount() != int(c.Neighbors) {
			errs = append(errs, fmt.Errorf("%s: cleared+marked+hidden != neighbors", p))
		}
		if c.State.IsNumeric() || c.State.IsScore() {
			if c.State.Count() != e.trueBombCount(p) {
				errs = append(errs, fmt.Errorf("%s: state count %d != true bomb count %d", p, c.State.Count(), e.trueBombCount(p)))
			}
		}
		if c.State == board.Bomb && !c.Bomb {
			errs = append(errs, fmt.Errorf("%s: state BOMB but bomb=false", p))
		}
		if (c.State >= board.ScoreZero) != c.Complete() {
			errs = append(errs, fmt.Errorf("%s: state>=SCORE_ZERO XOR complete", p))
		}
		return true
	})
	if e.PanicOnInvalid && len(errs) > 0 {
		panic(errs[0])
	}
	return errs
}

func (e *Engine) trueBombCount(p point.Point) int {
	var buf [8]point.Point
	bombs := 0
	for _, n := range e.board.Neighbors(p, false, buf[:0]) {
		if e.board.At(n).Bomb {
			bombs++
		}
	}
	return bombs
}
