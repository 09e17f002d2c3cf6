// Package kdtree implements a 2-D k-d tree keyed by integer point,
// storing an application-defined payload per point. It supports
// insertion, point lookup, Manhattan nearest-neighbor queries,
// removal, in-order iteration, and an incremental rebalance triggered
// by a cheap average-depth heuristic.
package kdtree

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"minefield/internal/point"
	"golang.org/x/exp/slices"
)

// Value is one stored (payload, point) pair.
type Value[T any] struct {
	Value T
	Point point.Point
}

type node[T any] struct {
	val         Value[T]
	depth       int
	left, right *node[T]
}

// Tree is a 2-D k-d tree keyed by point.Point, with at most one value
// per point. Not safe for concurrent use; callers serialize access
// (the solver is single-writer).
type Tree[T any] struct {
	root     *node[T]
	count    int
	sumDepth int
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{}
}

// Size returns the number of stored values.
func (t *Tree[T]) Size() int { return t.count }

// Empty reports whether the tree holds no values.
func (t *Tree[T]) Empty() bool { return t.root == nil }

// Insert adds v, keyed by v.Point. Returns false without modifying the
// tree if a value already exists at that point.
func (t *Tree[T]) Insert(v Value[T]) bool {
	ok := t.insert(&t.root, v, 0)
	if ok {
		// The threshold is a cheap proxy for "average depth exceeds
		// optimum by about one level".
		if t.sumDepth > bits.Len(uint(t.count))*t.count+1 {
			t.Rebalance()
		}
	}
	return ok
}

func (t *Tree[T]) insert(np **node[T], v Value[T], depth int) bool {
	n := *np
	if n == nil {
		*np = &node[T]{val: v, depth: depth}
		t.count++
		t.sumDepth += depth
		return true
	}
	if n.val.Point == v.Point {
		return false
	}
	axis := depth % 2
	if coord(v.Point, axis) < coord(n.val.Point, axis) {
		return t.insert(&n.left, v, depth+1)
	}
	return t.insert(&n.right, v, depth+1)
}

func coord(p point.Point, axis int) int {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// Find reports the value stored at p, if any.
func (t *Tree[T]) Find(p point.Point) (Value[T], bool) {
	n := t.root
	depth := 0
	for n != nil {
		if n.val.Point == p {
			return n.val, true
		}
		axis := depth % 2
		if coord(p, axis) < coord(n.val.Point, axis) {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	var zero Value[T]
	return zero, false
}

// FindClosest returns the value whose point is nearest to p under
// Manhattan distance. Panics if the tree is empty.
func (t *Tree[T]) FindClosest(p point.Point) Value[T] {
	if t.root == nil {
		panic("kdtree: FindClosest on empty tree")
	}
	best := bestSearch[T]{dist: math.MaxInt}
	t.findClosest(&t.root, p, &best)
	return (*best.node).val
}

type bestSearch[T any] struct {
	node **node[T]
	dist int
}

func (t *Tree[T]) findClosest(np **node[T], p point.Point, best *bestSearch[T]) {
	n := *np
	if n == nil {
		return
	}
	d := point.ManhattanDist(p, n.val.Point)
	if d < best.dist {
		best.dist = d
		best.node = np
	}
	axis := n.depth % 2
	var first, second **node[T]
	if coord(p, axis) < coord(n.val.Point, axis) {
		first, second = &n.left, &n.right
	} else {
		first, second = &n.right, &n.left
	}
	t.findClosest(first, p, best)
	if absInt(coord(p, axis)-coord(n.val.Point, axis)) < best.dist {
		t.findClosest(second, p, best)
	}
}

// PopClosest finds the value nearest to p, removes it, and returns it.
// Panics if the tree is empty.
func (t *Tree[T]) PopClosest(p point.Point) Value[T] {
	if t.root == nil {
		panic("kdtree: PopClosest on empty tree")
	}
	best := bestSearch[T]{dist: math.MaxInt}
	t.findClosest(&t.root, p, &best)
	v := (*best.node).val
	t.removeNode(best.node)
	return v
}

// Remove deletes the value at p, if present, and reports whether it
// was found.
func (t *Tree[T]) Remove(p point.Point) bool {
	np := &t.root
	depth := 0
	for *np != nil {
		n := *np
		if n.val.Point == p {
			t.removeNode(np)
			return true
		}
		axis := depth % 2
		if coord(p, axis) < coord(n.val.Point, axis) {
			np = &n.left
		} else {
			np = &n.right
		}
		depth++
	}
	return false
}

// removeNode deletes the node at *np, preserving the left-strict,
// right-inclusive invariant. Three cases:
//   - leaf: drop it.
//   - only a left child: the subtree must be rebuilt from its
//     collected values (promoting the rightmost of the left subtree
//     would place a point equal to the axis coordinate on the wrong
//     side).
//   - has a right child: replace this node's payload with the
//     leftmost-along-axis candidate from the right subtree (ties
//     broken by greatest depth, to minimize cascading rebuilds), then
//     recursively delete that candidate.
func (t *Tree[T]) removeNode(np **node[T]) {
	n := *np
	if n.left == nil && n.right == nil {
		t.count--
		t.sumDepth -= n.depth
		*np = nil
		return
	}
	if n.right == nil {
		oldCount := subtreeCount(n)
		oldSum := subtreeSumDepth(n)
		values := collectValues(n.left, nil)
		newRoot, newSum := buildBalanced[T](values, n.depth)
		t.count -= oldCount - len(values)
		t.sumDepth += newSum - oldSum
		*np = newRoot
		return
	}
	axis := n.depth % 2
	targetCoord := coord(n.val.Point, axis)
	best := axisBest[T]{dist: math.MaxInt}
	findLeftmostAlongAxis(&n.right, axis, targetCoord, &best)
	n.val = (*best.node).val
	t.removeNode(best.node)
}

type axisBest[T any] struct {
	node  **node[T]
	dist  int
	depth int
}

// findLeftmostAlongAxis finds the node whose coordinate along axis is
// closest to (and, by construction of the caller, never less than)
// targetCoord, preferring greater depth on ties.
func findLeftmostAlongAxis[T any](np **node[T], axis, targetCoord int, best *axisBest[T]) {
	n := *np
	if n == nil {
		return
	}
	d := absInt(targetCoord - coord(n.val.Point, axis))
	if d < best.dist || (d == best.dist && n.depth > best.depth) {
		best.dist = d
		best.depth = n.depth
		best.node = np
	}
	if axis == n.depth%2 {
		var first, second **node[T]
		if targetCoord < coord(n.val.Point, axis) {
			first, second = &n.left, &n.right
		} else {
			first, second = &n.right, &n.left
		}
		findLeftmostAlongAxis(first, axis, targetCoord, best)
		if absInt(targetCoord-coord(n.val.Point, axis)) < best.dist {
			findLeftmostAlongAxis(second, axis, targetCoord, best)
		}
	} else {
		findLeftmostAlongAxis(&n.left, axis, targetCoord, best)
		findLeftmostAlongAxis(&n.right, axis, targetCoord, best)
	}
}

func subtreeCount[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return 1 + subtreeCount(n.left) + subtreeCount(n.right)
}

func subtreeSumDepth[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.depth + subtreeSumDepth(n.left) + subtreeSumDepth(n.right)
}

func collectValues[T any](n *node[T], out []Value[T]) []Value[T] {
	if n == nil {
		return out
	}
	out = append(out, n.val)
	out = collectValues(n.left, out)
	out = collectValues(n.right, out)
	return out
}

// InOrder returns every stored value, in tree in-order sequence.
func (t *Tree[T]) InOrder() []Value[T] {
	var out []Value[T]
	var walk func(n *node[T])
	walk = func(n *node[T]) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.val)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// Rebalance rebuilds the entire tree as a median-split balanced tree.
func (t *Tree[T]) Rebalance() {
	if t.root == nil {
		return
	}
	values := collectValues(t.root, nil)
	newRoot, newSum := buildBalanced[T](values, 0)
	t.root = newRoot
	t.sumDepth = newSum
}

// buildBalanced recursively partitions values by the median along the
// current axis and builds a balanced subtree, returning the new root
// and the sum of depths of every node it built.
func buildBalanced[T any](values []Value[T], depth int) (*node[T], int) {
	if len(values) == 0 {
		return nil, 0
	}
	axis := depth % 2
	mid := len(values) / 2

	// Sort along the axis so the median sits at `mid`; ties on the axis are
	// pushed to the right half so equal-valued points land in the
	// right subtree, honoring the left-strict/right-inclusive rule.
	slices.SortFunc(values, func(a, b Value[T]) int {
		return coord(a.Point, axis) - coord(b.Point, axis)
	})
	pivotCoord := coord(values[mid].Point, axis)
	for mid > 0 && coord(values[mid-1].Point, axis) == pivotCoord {
		mid--
	}

	left, leftSum := buildBalanced[T](values[:mid], depth+1)
	right, rightSum := buildBalanced[T](values[mid+1:], depth+1)
	n := &node[T]{val: values[mid], depth: depth, left: left, right: right}
	return n, depth + leftSum + rightSum
}

// Stats is a snapshot of the tree's shape.
type Stats struct {
	Size          int
	MaxDepth      int
	AvgDepth      float64
	StddevDepth   float64
	BalanceFactor float64
}

// Stats computes size, max/avg/stddev depth, and the leaf-count-based
// balance factor (2*leaves/count; 1.0 for a perfectly balanced tree).
func (t *Tree[T]) Stats() Stats {
	if t.root == nil {
		return Stats{BalanceFactor: 1}
	}
	maxDepth := maxDepth(t.root)
	avg := float64(t.sumDepth) / float64(t.count)
	sumSq := 0
	depthSquares(t.root, &sumSq)
	stddev := math.Sqrt(math.Max(0, float64(sumSq)/float64(t.count)-avg*avg))
	leaves := leafCount(t.root)
	return Stats{
		Size:          t.count,
		MaxDepth:      maxDepth,
		AvgDepth:      avg,
		StddevDepth:   stddev,
		BalanceFactor: 2 * float64(leaves) / float64(t.count),
	}
}

func maxDepth[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	switch {
	case n.left != nil && n.right != nil:
		return maxInt(maxDepth(n.left), maxDepth(n.right))
	case n.left != nil:
		return maxDepth(n.left)
	case n.right != nil:
		return maxDepth(n.right)
	default:
		return n.depth
	}
}

func leafCount[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	if n.left == nil && n.right == nil {
		return 1
	}
	return leafCount(n.left) + leafCount(n.right)
}

func depthSquares[T any](n *node[T], sumSq *int) {
	if n == nil {
		return
	}
	*sumSq += n.depth * n.depth
	depthSquares(n.left, sumSq)
	depthSquares(n.right, sumSq)
}

// String renders the tree as an indented pretty-print, root first.
func (t *Tree[T]) String() string {
	var b strings.Builder
	var walk func(n *node[T], depth int)
	walk = func(n *node[T], depth int) {
		if n == nil {
			return
		}
		fmt.Fprintf(&b, "%s%v\n", strings.Repeat("  ", depth), n.val)
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(t.root, 0)
	return b.String()
}

// Validate walks the tree checking the axis-ordering invariant against
// every ancestor split (not just the immediate parent) and that each
// node's stored depth equals its actual depth. Intended for tests.
func (t *Tree[T]) Validate() bool {
	lo := [2]int{math.MinInt, math.MinInt}
	hi := [2]int{math.MaxInt, math.MaxInt}
	return validate(t.root, 0, lo, hi)
}

// validate checks that every point in the subtree lies in the half-open
// box lo (inclusive) .. hi (exclusive) accumulated from ancestor splits:
// a left child's subtree is strictly below the split, a right child's is
// at or above it.
func validate[T any](n *node[T], depth int, lo, hi [2]int) bool {
	if n == nil {
		return true
	}
	if n.depth != depth {
		return false
	}
	for axis := 0; axis < 2; axis++ {
		c := coord(n.val.Point, axis)
		if c < lo[axis] || (c >= hi[axis] && hi[axis] != math.MaxInt) {
			return false
		}
	}
	axis := depth % 2
	split := coord(n.val.Point, axis)

	leftHi := hi
	leftHi[axis] = minInt(leftHi[axis], split)
	rightLo := lo
	rightLo[axis] = maxInt(rightLo[axis], split)

	return validate(n.left, depth+1, lo, leftHi) && validate(n.right, depth+1, rightLo, hi)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
