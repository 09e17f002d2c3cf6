package point

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManhattanDist(t *testing.T) {
	assert.Equal(t, 0, ManhattanDist(Point{1, 1}, Point{1, 1}))
	assert.Equal(t, 7, ManhattanDist(Point{0, 0}, Point{3, 4}))
	assert.Equal(t, 7, ManhattanDist(Point{3, 4}, Point{0, 0}))
}

func TestManhattanDistF(t *testing.T) {
	assert.InDelta(t, 0.0, ManhattanDistF(PointF{1.5, 2.5}, PointF{1.5, 2.5}), 1e-9)
	assert.InDelta(t, 4.0, ManhattanDistF(PointF{0, 0}, PointF{1.5, 2.5}), 1e-9)
	assert.InDelta(t, 4.0, ManhattanDistF(PointF{1.5, 2.5}, PointF{0, 0}), 1e-9)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, Point{2, -2}, PointF{1.5, -1.5}.Round())
	assert.Equal(t, Point{1, -1}, PointF{1.4, -1.4}.Round())
	assert.Equal(t, Point{0, 0}, PointF{0.4, -0.4}.Round())
}

func TestRectContains(t *testing.T) {
	r := NewRect(Point{0, 0}, Point{10, 10})
	assert.True(t, r.Contains(Point{0, 0}))
	assert.True(t, r.Contains(Point{9, 9}))
	assert.False(t, r.Contains(Point{10, 10}))
	assert.False(t, r.Contains(Point{-1, 0}))
}

func TestRectIntersectionUnion(t *testing.T) {
	a := NewRect(Point{0, 0}, Point{10, 10})
	b := NewRect(Point{5, 5}, Point{15, 15})

	inter, ok := a.Intersection(b)
	require.True(t, ok)
	assert.Equal(t, NewRect(Point{5, 5}, Point{10, 10}), inter)

	union := a.Union(b)
	assert.Equal(t, NewRect(Point{0, 0}, Point{15, 15}), union)

	c := NewRect(Point{20, 20}, Point{30, 30})
	_, ok = a.Intersection(c)
	assert.False(t, ok)
}

// TestRectDifference exercises the four-band case: a hole strictly
// inside the rectangle carves top, left, right, and bottom strips.
func TestRectDifference(t *testing.T) {
	a := NewRect(Point{5, 6}, Point{10, 15})
	b := NewRect(Point{7, 8}, Point{9, 10})

	got := a.Difference(b)
	want := []Rect{
		NewRect(Point{5, 6}, Point{10, 8}),
		NewRect(Point{5, 8}, Point{7, 10}),
		NewRect(Point{9, 8}, Point{10, 10}),
		NewRect(Point{5, 10}, Point{10, 15}),
	}
	assert.ElementsMatch(t, want, got)
	assertPartition(t, a, b, got)
}

func TestRectDifferenceNoOverlap(t *testing.T) {
	a := NewRect(Point{0, 0}, Point{5, 5})
	b := NewRect(Point{10, 10}, Point{15, 15})
	got := a.Difference(b)
	assert.Equal(t, []Rect{a}, got)
}

func TestRectDifferenceFullyContained(t *testing.T) {
	a := NewRect(Point{5, 5}, Point{10, 10})
	b := NewRect(Point{0, 0}, Point{20, 20})
	got := a.Difference(b)
	assert.Empty(t, got)
}

// assertPartition checks the difference's disjointness and union
// invariant by exhaustively walking every point in a.
func assertPartition(t *testing.T, a, b Rect, parts []Rect) {
	t.Helper()
	seen := map[Point]int{}
	for _, r := range parts {
		for x := r.TL.X; x < r.BR.X; x++ {
			for y := r.TL.Y; y < r.BR.Y; y++ {
				seen[Point{x, y}]++
			}
		}
	}
	for x := a.TL.X; x < a.BR.X; x++ {
		for y := a.TL.Y; y < a.BR.Y; y++ {
			p := Point{x, y}
			inB := b.Contains(p)
			count := seen[p]
			if inB {
				assert.Equalf(t, 0, count, "point %v should be excluded (in b)", p)
			} else {
				assert.Equalf(t, 1, count, "point %v should be covered exactly once", p)
			}
		}
	}
}
