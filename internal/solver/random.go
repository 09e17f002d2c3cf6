package solver

import (
	"math/rand"

	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
	"minefield/internal/shadow"
)

// pendingRandom is the bookkeeping entry RandomAgent queues: no k-d
// tree, just a flat slice, since this variant exists purely for
// benchmarking against the spatially-coherent DeductiveAgent.
type pendingRandom struct {
	kind  engine.ActionKind
	point point.Point
}

// RandomAgent picks any deduced pending action via random swap-and-pop
// instead of nearest-neighbor. It implements the same deduction rules
// as DeductiveAgent but without spatial prioritization.
type RandomAgent struct {
	user    int
	shadow  *shadow.Engine
	pending []pendingRandom
}

// NewRandomAgent creates a benchmarking agent for user over a shadow
// replica of the given dimensions.
func NewRandomAgent(user, w, h int) *RandomAgent {
	return &RandomAgent{
		user:   user,
		shadow: shadow.New(w, h),
	}
}

func (a *RandomAgent) Step(updates []engine.Update) engine.Action {
	for _, u := range updates {
		a.shadow.Apply(u)
		a.deduceFrom(u.Point)
	}
	return a.pop()
}

func (a *RandomAgent) deduceFrom(p point.Point) {
	b := a.shadow.Board()
	var centerBuf [9]point.Point
	for _, n := range b.Neighbors(p, true, centerBuf[:0]) {
		nc := b.At(n)
		if !(nc.State.IsNumeric() || nc.State.IsScore()) || nc.HiddenCount() == 0 {
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
				a.pending = append(a.pending, pendingRandom{kind: act, point: hn})
			}
		}
	}
}

func (a *RandomAgent) pop() engine.Action {
	for len(a.pending) > 0 {
		i := rand.Intn(len(a.pending))
		last := len(a.pending) - 1
		a.pending[i], a.pending[last] = a.pending[last], a.pending[i]
		p := a.pending[last]
		a.pending = a.pending[:last]

		if a.shadow.Board().At(p.point).State == board.Hidden {
			return engine.Action{Kind: p.kind, Point: p.point, User: a.user}
		}
	}
	return engine.Action{Kind: engine.Pass, User: a.user}
}
