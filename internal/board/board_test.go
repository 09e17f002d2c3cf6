package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"minefield/internal/point"
)

func TestNewBoardAllHidden(t *testing.T) {
	b := New(5, 5)
	w, h := b.Dims()
	assert.Equal(t, 5, w)
	assert.Equal(t, 5, h)

	count := 0
	b.Iterate(func(p point.Point, c *Cell) bool {
		assert.Equal(t, Hidden, c.State)
		count++
		return true
	})
	assert.Equal(t, 25, count)
}

func TestNeighborCountsCorners(t *testing.T) {
	b := New(5, 5)
	assert.Equal(t, 3, int(b.At(point.Point{0, 0}).Neighbors))
	assert.Equal(t, 5, int(b.At(point.Point{0, 2}).Neighbors))
	assert.Equal(t, 8, int(b.At(point.Point{2, 2}).Neighbors))
	assert.Equal(t, 3, int(b.At(point.Point{4, 4}).Neighbors))
}

func TestNeighborsEnumeration(t *testing.T) {
	b := New(3, 3)
	ns := b.Neighbors(point.Point{1, 1}, false, nil)
	assert.Len(t, ns, 8)

	withCenter := b.Neighbors(point.Point{1, 1}, true, nil)
	assert.Len(t, withCenter, 9)

	corner := b.Neighbors(point.Point{0, 0}, false, nil)
	assert.Len(t, corner, 3)
}

func TestCellCompleteAndHidden(t *testing.T) {
	c := Cell{State: Three, Neighbors: 8, Cleared: 5, Marked: 3}
	assert.True(t, c.Complete())
	assert.Equal(t, 0, c.HiddenCount())

	c2 := Cell{State: Three, Neighbors: 8, Cleared: 4, Marked: 3}
	assert.False(t, c2.Complete())
	assert.Equal(t, 1, c2.HiddenCount())
}

func TestStateCountAndToScore(t *testing.T) {
	require.Equal(t, 3, Three.Count())
	assert.Equal(t, ScoreThree, Three.ToScore())
	assert.True(t, ScoreThree.IsScore())
	assert.False(t, ScoreThree.IsNumeric())
	assert.True(t, Three.IsNumeric())
}

func TestMutateAndSet(t *testing.T) {
	b := New(2, 2)
	p := point.Point{X: 1, Y: 1}
	b.Mutate(p, func(c *Cell) {
		c.State = Marked
		c.User = 7
	})
	got := b.At(p)
	assert.Equal(t, Marked, got.State)
	assert.Equal(t, 7, got.User)

	b.Set(p, Cell{State: Hidden})
	assert.Equal(t, Hidden, b.At(p).State)
}

func TestBoundsMatchesDims(t *testing.T) {
	b := New(7, 4)
	r := b.Bounds()
	assert.Equal(t, point.NewRect(point.Point{0, 0}, point.Point{7, 4}), r)
}
