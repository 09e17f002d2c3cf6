// Package point implements the board's coordinate types: integer and
// float points, and axis-aligned half-open rectangles with the set
// operations the viewport and board-store code need.
package point

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Point is an integer 2-D coordinate.
type Point struct {
	X, Y int
}

// PointF is a float 2-D coordinate, used for mouse positions and the
// solver's rolling target.
type PointF struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("{%d, %d}", p.X, p.Y)
}

func (p PointF) String() string {
	return fmt.Sprintf("{%.1f, %.1f}", p.X, p.Y)
}

// ToF converts an integer point to its float equivalent.
func (p Point) ToF() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

// Round converts a float point to the nearest integer point.
func (p PointF) Round() Point {
	return Point{X: int(roundHalfAwayFromZero(p.X)), Y: int(roundHalfAwayFromZero(p.Y))}
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int(v + 0.5))
	}
	return float64(int(v - 0.5))
}

// manhattan is the L1 distance over any signed numeric coordinate type;
// both point variants route through it.
func manhattan[T constraints.Signed | constraints.Float](ax, ay, bx, by T) T {
	return abs(ax-bx) + abs(ay-by)
}

func abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// ManhattanDist returns the L1 distance between two integer points.
func ManhattanDist(a, b Point) int {
	return manhattan(a.X, a.Y, b.X, b.Y)
}

// ManhattanDistF returns the L1 distance between two float points.
func ManhattanDistF(a, b PointF) float64 {
	return manhattan(a.X, a.Y, b.X, b.Y)
}

// Rect is a half-open axis-aligned rectangle: it contains every point p
// with tl.X <= p.X < br.X and tl.Y <= p.Y < br.Y.
type Rect struct {
	TL, BR Point
}

// NewRect builds a rectangle from its top-left and bottom-right corners.
func NewRect(tl, br Point) Rect {
	return Rect{TL: tl, BR: br}
}

func (r Rect) String() string {
	return fmt.Sprintf("{%s, %s}", r.TL, r.BR)
}

func (r Rect) top() int    { return r.TL.Y }
func (r Rect) left() int   { return r.TL.X }
func (r Rect) right() int  { return r.BR.X }
func (r Rect) bottom() int { return r.BR.Y }

// Width and Height report the rectangle's span along each axis.
func (r Rect) Width() int  { return r.BR.X - r.TL.X }
func (r Rect) Height() int { return r.BR.Y - r.TL.Y }

// Area reports the number of integer points the rectangle covers.
func (r Rect) Area() int {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Center returns the (float) midpoint of the rectangle.
func (r Rect) Center() PointF {
	return PointF{
		X: float64(r.TL.X+r.BR.X) / 2,
		Y: float64(r.TL.Y+r.BR.Y) / 2,
	}
}

// Empty reports whether the rectangle covers no points.
func (r Rect) Empty() bool {
	return r.Area() == 0
}

// Contains reports whether p lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.TL.X && p.X < r.BR.X && p.Y >= r.TL.Y && p.Y < r.BR.Y
}

// ContainsRect reports whether o is entirely contained within r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.TL.X >= r.TL.X && o.TL.Y >= r.TL.Y && o.BR.X <= r.BR.X && o.BR.Y <= r.BR.Y
}

// Intersection returns the overlap of r and o, and whether they overlap
// at all. An empty-but-nonzero overlap (touching edges) is reported as
// not intersecting, matching the half-open convention.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	tl := Point{X: maxInt(r.TL.X, o.TL.X), Y: maxInt(r.TL.Y, o.TL.Y)}
	br := Point{X: minInt(r.BR.X, o.BR.X), Y: minInt(r.BR.Y, o.BR.Y)}
	result := Rect{TL: tl, BR: br}
	if result.Empty() {
		return Rect{}, false
	}
	return result, true
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		TL: Point{X: minInt(r.TL.X, o.TL.X), Y: minInt(r.TL.Y, o.TL.Y)},
		BR: Point{X: maxInt(r.BR.X, o.BR.X), Y: maxInt(r.BR.Y, o.BR.Y)},
	}
}

// Difference returns the set difference r \ o as up to four disjoint
// rectangles: treat the intersection as a hole and carve off up to four
// bands (top, left, right, bottom) around it.
func (r Rect) Difference(o Rect) []Rect {
	if o.ContainsRect(r) {
		return nil
	}
	inner, ok := r.Intersection(o)
	if !ok || o.Empty() {
		return []Rect{r}
	}

	var result []Rect
	if r.top() < inner.top() {
		result = append(result, Rect{TL: r.TL, BR: Point{X: r.right(), Y: inner.top()}})
	}
	if r.left() < inner.left() {
		result = append(result, Rect{
			TL: Point{X: r.left(), Y: inner.top()},
			BR: Point{X: inner.left(), Y: inner.bottom()},
		})
	}
	if r.right() > inner.right() {
		result = append(result, Rect{
			TL: Point{X: inner.right(), Y: inner.top()},
			BR: Point{X: r.right(), Y: inner.bottom()},
		})
	}
	if r.bottom() > inner.bottom() {
		result = append(result, Rect{TL: Point{X: r.left(), Y: inner.bottom()}, BR: r.BR})
	}
	return result
}

// Clamp constrains p to lie within r (inclusive of the half-open bounds).
func (r Rect) Clamp(p Point) Point {
	out := p
	if out.X < r.TL.X {
		out.X = r.TL.X
	}
	if out.X >= r.BR.X {
		out.X = r.BR.X - 1
	}
	if out.Y < r.TL.Y {
		out.Y = r.TL.Y
	}
	if out.Y >= r.BR.Y {
		out.Y = r.BR.Y - 1
	}
	return out
}

// ClampRect constrains r so it fits entirely within bounds.
func ClampRect(r, bounds Rect) Rect {
	tl := bounds.Clamp(r.TL)
	// BR is exclusive, so it is clamped into [bounds.TL, bounds.BR] and
	// then kept from falling before tl, which guards degenerate input.
	brX, brY := r.BR.X, r.BR.Y
	if brX > bounds.BR.X {
		brX = bounds.BR.X
	}
	if brX < bounds.TL.X {
		brX = bounds.TL.X
	}
	if brY > bounds.BR.Y {
		brY = bounds.BR.Y
	}
	if brY < bounds.TL.Y {
		brY = bounds.TL.Y
	}
	if brX < tl.X {
		brX = tl.X
	}
	if brY < tl.Y {
		brY = tl.Y
	}
	return Rect{TL: tl, BR: Point{X: brX, Y: brY}}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
