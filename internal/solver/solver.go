// Package solver implements deductive agents that consume the shadow
// engine's update stream and emit provably safe OPEN/MARK actions,
// choosing which pending action to emit via a spatial priority
// structure so a single agent's action stream stays spatially coherent.
package solver

import (
	"math/rand"

	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/kdtree"
	"minefield/internal/point"
	"minefield/internal/shadow"
)

// Agent consumes a batch of updates and returns the next action to take.
type Agent interface {
	Step(updates []engine.Update) engine.Action
}

var (
	_ Agent = (*DeductiveAgent)(nil)
	_ Agent = (*RandomAgent)(nil)
)

// pendingValue is the payload the k-d tree stores at each pending point:
// the deduced action kind (MARK or OPEN).
type pendingValue = engine.ActionKind

// DeductiveAgent is the constraint-propagation solver: a shadow replica
// plus a k-d tree of pending actions, with a rolling target that biases
// emission toward spatial continuity.
type DeductiveAgent struct {
	user   int
	shadow *shadow.Engine
	pend   *kdtree.Tree[pendingValue]

	target      point.PointF
	targetDecay float64
}

// NewDeductiveAgent creates an agent for user over a shadow replica of
// the given dimensions. The rolling target starts at a random point so
// multiple concurrent agents spread out rather than collide.
func NewDeductiveAgent(user, w, h int) *DeductiveAgent {
	return &DeductiveAgent{
		user:   user,
		shadow: shadow.New(w, h),
		pend:   kdtree.New[pendingValue](),
		target: point.PointF{
			X: rand.Float64() * float64(w),
			Y: rand.Float64() * float64(h),
		},
		targetDecay: 0.05,
	}
}

// Step folds updates into the shadow board, updates the rolling target,
// deduces new pending actions, and returns the nearest one to the
// target, or PASS if nothing is pending.
func (a *DeductiveAgent) Step(updates []engine.Update) engine.Action {
	for _, u := range updates {
		a.shadow.Apply(u)

		if u.User == a.user {
			a.updateTarget(u.Point)
		}

		a.pend.Remove(u.Point)
		a.deduceFrom(u.Point)
	}

	return a.pop()
}

func (a *DeductiveAgent) updateTarget(p point.Point) {
	pf := p.ToF()
	a.target.X += (pf.X - a.target.X) * a.targetDecay
	a.target.Y += (pf.Y - a.target.Y) * a.targetDecay
}

// deduceFrom examines p and each of its neighbors (including itself);
// for every revealed neighbor n with hidden neighbors, apply the two
// safe deductions: marks satisfy the count (open the rest) or hidden
// cells are all bombs (mark the rest).
func (a *DeductiveAgent) deduceFrom(p point.Point) {
	b := a.shadow.Board()
	var centerBuf [9]point.Point
	for _, n := range b.Neighbors(p, true, centerBuf[:0]) {
		nc := b.At(n)
		if !(nc.State.IsNumeric() || nc.State.IsScore()) {
			continue
		}
		if nc.HiddenCount() == 0 {
			continue
		}

		var act engine.ActionKind
		switch {
		case int(nc.Marked) == nc.State.Count():
			act = engine.Open
		case nc.Complete():
			act = engine.Mark
		default:
			continue
		}

		var nbuf [8]point.Point
		for _, hn := range b.Neighbors(n, false, nbuf[:0]) {
			if b.At(hn).State == board.Hidden {
				a.pend.Insert(kdtree.Value[pendingValue]{Value: act, Point: hn})
			}
		}
	}
}

// pop removes and returns the pending action nearest (Manhattan) to the
// rounded rolling target, discarding and retrying stale entries whose
// cell is no longer Hidden. Returns PASS once the tree is empty.
func (a *DeductiveAgent) pop() engine.Action {
	target := a.target.Round()
	for !a.pend.Empty() {
		v := a.pend.PopClosest(target)
		if a.shadow.Board().At(v.Point).State != board.Hidden {
			continue
		}
		return engine.Action{Kind: v.Value, Point: v.Point, User: a.user}
	}
	return engine.Action{Kind: engine.Pass, User: a.user}
}
