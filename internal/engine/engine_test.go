package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"minefield/internal/board"
	"minefield/internal/point"
)

func TestDeterministicResetSameSeed(t *testing.T) {
	e1 := New(20, 20, 0.1, 42)
	e2 := New(20, 20, 0.1, 42)

	u1 := e1.Reset()
	u2 := e2.Reset()
	require.Equal(t, len(u1), len(u2))

	var mismatches int
	e1.Board().Iterate(func(p point.Point, c *board.Cell) bool {
		other := e2.Board().At(p)
		if c.State != other.State || c.Bomb != other.Bomb {
			mismatches++
		}
		return true
	})
	assert.Zero(t, mismatches)
}

func TestFloodFillNoBombsNeighborhood(t *testing.T) {
	e := New(5, 5, 0, 1)
	e.Reset()
	errs := e.Validate()
	assert.Empty(t, errs)

	opened := 0
	e.Board().Iterate(func(p point.Point, c *board.Cell) bool {
		if c.State.IsNumeric() || c.State.IsScore() {
			opened++
		}
		return true
	})
	assert.Equal(t, 25, opened, "zero-probability board should fully flood-fill open")
}

func TestMarkUnmarkRoundTrip(t *testing.T) {
	e := New(5, 5, 0, 1)
	e.Reset()

	// Find a still-hidden cell to mark; with p=0 there are none, so use
	// a board with bombs instead.
	e = New(8, 8, 0.3, 7)
	e.Reset()

	var target point.Point
	found := false
	e.Board().Iterate(func(p point.Point, c *board.Cell) bool {
		if c.State == board.Hidden {
			target = p
			found = true
			return false
		}
		return true
	})
	require.True(t, found)

	updates := e.Apply(Action{Kind: Mark, Point: target, User: 5})
	require.NotEmpty(t, updates)
	assert.Equal(t, board.Marked, e.Board().At(target).State)

	e.Apply(Action{Kind: Unmark, Point: target, User: 5})
	assert.Equal(t, board.Hidden, e.Board().At(target).State)
	assert.Empty(t, e.Validate())
}

func TestOpenBombSetsBombState(t *testing.T) {
	e := New(4, 4, 1.0, 3) // all bombs
	// Bypass Reset's safe-start search (impossible on an all-bomb board)
	// by laying bombs directly and opening a known bomb cell.
	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		c.Bomb = true
		return true
	})

	target := point.Point{X: 1, Y: 1}
	updates := e.Apply(Action{Kind: Open, Point: target, User: 9})
	require.Len(t, updates, 1)
	assert.Equal(t, board.Bomb, updates[0].State)
	assert.Equal(t, 9, e.Board().At(target).User)
}

func TestChordWithNoHiddenNeighborsIsNoOp(t *testing.T) {
	// 3x3 board, single bomb in a corner: opening the opposite corner
	// floods the rest open except the bomb, leaving the bomb's numeric
	// neighbors complete; marking the bomb satisfies their counts, and
	// re-opening one of them (a chord) has nothing left to do but must
	// not panic or corrupt state.
	e := New(3, 3, 0, 11)
	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		c.Bomb = p == (point.Point{X: 0, Y: 0})
		return true
	})

	e.Apply(Action{Kind: Open, Point: point.Point{X: 2, Y: 2}, User: 1})
	require.Equal(t, board.Hidden, e.Board().At(point.Point{X: 0, Y: 0}).State)

	e.Apply(Action{Kind: Mark, Point: point.Point{X: 0, Y: 0}, User: 1})
	assert.Equal(t, board.Marked, e.Board().At(point.Point{X: 0, Y: 0}).State)

	// Chord on the complete (1,0) neighbor should be a no-op since it
	// has no hidden neighbor left.
	e.Apply(Action{Kind: Open, Point: point.Point{X: 1, Y: 0}, User: 1})
	assert.Empty(t, e.Validate())
}

// TestFloodFillAroundSingleBomb is the 5x5 flood-fill scenario: one
// bomb in a corner, opening the far corner reveals all 24 safe cells.
func TestFloodFillAroundSingleBomb(t *testing.T) {
	e := New(5, 5, 0, 1)
	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		c.Bomb = p == (point.Point{X: 0, Y: 0})
		return true
	})

	updates := e.Apply(Action{Kind: Open, Point: point.Point{X: 4, Y: 4}, User: 1})

	opened := map[point.Point]bool{}
	for _, u := range updates {
		require.True(t, u.State.IsNumeric() || u.State.IsScore(),
			"flood fill must only emit open/promotion updates, got %v", u.State)
		opened[u.Point] = true
	}
	assert.Len(t, opened, 24)
	assert.False(t, opened[point.Point{X: 0, Y: 0}])
	assert.Equal(t, board.Hidden, e.Board().At(point.Point{X: 0, Y: 0}).State)
	assert.Empty(t, e.Validate())
}

// TestScorePromotionOnLastClear drives a cell through the SCORE_THREE
// promotion: a 3x3 board whose top row is bombs, center opened first,
// bombs marked, then the two side cells opened one by one; the final
// open of the bottom-middle cell flood-fills the bomb-free bottom row,
// which completes the center and must emit its score update.
func TestScorePromotionOnLastClear(t *testing.T) {
	e := New(3, 3, 0, 1)
	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		c.Bomb = p.Y == 0
		return true
	})

	center := point.Point{X: 1, Y: 1}
	updates := e.Apply(Action{Kind: Open, Point: center, User: 4})
	require.Len(t, updates, 1)
	assert.Equal(t, board.Three, updates[0].State)

	for x := 0; x < 3; x++ {
		e.Apply(Action{Kind: Mark, Point: point.Point{X: x, Y: 0}, User: 4})
	}

	safe := []point.Point{{X: 0, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}}
	var last []Update
	for _, p := range safe {
		last = e.Apply(Action{Kind: Open, Point: p, User: 4})
		assert.Empty(t, e.Validate())
	}

	var promoted bool
	for _, u := range last {
		if u.Point == center && u.State == board.ScoreThree {
			promoted = true
		}
	}
	assert.True(t, promoted, "the final clear must promote the center to SCORE_THREE")
	assert.Equal(t, board.ScoreThree, e.Board().At(center).State)
}

// TestMarkCascadeOnCompleteCell checks the MARK-on-complete rule: every
// still-hidden neighbor of a complete cell is a bomb, so marking the
// cell marks them all.
func TestMarkCascadeOnCompleteCell(t *testing.T) {
	e := New(3, 3, 0, 1)
	e.board.Iterate(func(p point.Point, c *board.Cell) bool {
		c.Bomb = p == (point.Point{X: 0, Y: 0})
		return true
	})

	// Opening the far corner floods every safe cell; the bomb's three
	// neighbors end up complete (their counts fully explained by the one
	// hidden cell).
	e.Apply(Action{Kind: Open, Point: point.Point{X: 2, Y: 2}, User: 6})
	require.Equal(t, board.Hidden, e.Board().At(point.Point{X: 0, Y: 0}).State)
	require.Equal(t, board.ScoreOne, e.Board().At(point.Point{X: 1, Y: 1}).State)

	updates := e.Apply(Action{Kind: Mark, Point: point.Point{X: 1, Y: 1}, User: 6})
	require.Len(t, updates, 1)
	assert.Equal(t, board.Marked, updates[0].State)
	assert.Equal(t, point.Point{X: 0, Y: 0}, updates[0].Point)
	assert.Equal(t, board.Marked, e.Board().At(point.Point{X: 0, Y: 0}).State)
	assert.Empty(t, e.Validate())
}

// TestDeterministicUpdateStreams: two engines with the same seed fed the
// same action sequence must emit identical update streams throughout.
func TestDeterministicUpdateStreams(t *testing.T) {
	e1 := New(16, 12, 0.15, 77)
	e2 := New(16, 12, 0.15, 77)
	require.Equal(t, e1.Reset(), e2.Reset())

	actions := []Action{
		{Kind: Open, Point: point.Point{X: 3, Y: 3}, User: 1},
		{Kind: Mark, Point: point.Point{X: 8, Y: 8}, User: 2},
		{Kind: Open, Point: point.Point{X: 15, Y: 11}, User: 1},
		{Kind: Unmark, Point: point.Point{X: 8, Y: 8}, User: 2},
		{Kind: Open, Point: point.Point{X: 0, Y: 11}, User: 2},
	}
	for _, a := range actions {
		assert.Equal(t, e1.Apply(a), e2.Apply(a))
		assert.Empty(t, e1.Validate())
	}
}

func TestOutOfBoundsActionsAreNoOps(t *testing.T) {
	e := New(5, 5, 0.2, 13)
	e.Reset()

	for _, p := range []point.Point{{X: -1, Y: 0}, {X: 5, Y: 0}, {X: 0, Y: -1}, {X: 2, Y: 99}} {
		assert.Empty(t, e.Apply(Action{Kind: Open, Point: p, User: 1}))
		assert.Empty(t, e.Apply(Action{Kind: Mark, Point: p, User: 1}))
	}
	assert.Empty(t, e.Validate())
}
