// Package sim drives the authoritative engine and a set of agents in
// lock-step frames without any network in between: each frame, every
// agent is stepped with the updates accumulated since the previous
// frame, the actions they return are applied in FIFO order, and the
// updates those actions produce feed the next frame.
package sim

import (
	"sync/atomic"
	"time"

	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
	"minefield/internal/solver"
)

// Simulation owns one engine and the agents playing it.
type Simulation struct {
	engine *engine.Engine
	agents []solver.Agent

	updates []engine.Update
	paused  bool

	// stopped may be flipped from a signal handler; every other field
	// is touched only by the goroutine calling Run/StepFrame.
	stopped atomic.Bool

	frames  int
	actions int
}

// New wraps e and agents into a simulation. The engine must not have
// been Reset yet; Start performs the initial reset.
func New(e *engine.Engine, agents ...solver.Agent) *Simulation {
	return &Simulation{engine: e, agents: agents}
}

// Engine exposes the simulation's engine for inspection.
func (s *Simulation) Engine() *engine.Engine { return s.engine }

// Start lays the board and queues the implicit opening move's updates
// as the first frame's input.
func (s *Simulation) Start() {
	s.updates = s.engine.Reset()
}

// RequestStop asks the simulation to halt after the current frame.
// Safe to call from any goroutine, including a signal handler.
func (s *Simulation) RequestStop() {
	s.stopped.Store(true)
}

// StepFrame runs one frame and reports whether the simulation should
// continue: false once every agent passes with no pending updates, or
// after RequestStop.
func (s *Simulation) StepFrame() bool {
	if s.stopped.Load() {
		return false
	}
	s.frames++

	batch := s.updates
	s.updates = nil
	if s.paused {
		// Board state is frozen while paused; hold the batch for the
		// frame that unpauses and only honor PAUSE/QUIT actions.
		s.updates = batch
		batch = nil
	}

	actions := make([]engine.Action, 0, len(s.agents))
	for _, a := range s.agents {
		actions = append(actions, a.Step(batch))
	}

	anyAction := false
	for _, a := range actions {
		switch a.Kind {
		case engine.Pass:
			continue
		case engine.Pause:
			s.paused = !s.paused
		case engine.Quit:
			s.stopped.Store(true)
		case engine.Reset:
			if !s.paused {
				s.updates = append(s.updates, s.engine.Reset()...)
			}
		default:
			if s.paused {
				continue
			}
			s.actions++
			s.updates = append(s.updates, s.engine.Apply(a)...)
		}
		anyAction = true
	}

	if s.stopped.Load() {
		return false
	}
	return anyAction || s.paused || len(s.updates) > 0
}

// Run steps frames until the simulation quiesces or is stopped. A
// positive frame duration paces the loop at that soft rate (~16ms for
// 60 Hz); zero runs flat out for benchmarking.
func (s *Simulation) Run(frame time.Duration, maxFrames int) {
	for s.frames < maxFrames || maxFrames <= 0 {
		start := time.Now()
		if !s.StepFrame() {
			return
		}
		if frame > 0 {
			if left := frame - time.Since(start); left > 0 {
				time.Sleep(left)
			}
		}
	}
}

// Stats is a snapshot of simulation progress.
type Stats struct {
	Frames  int
	Actions int
	Hidden  int
	Marked  int
	Opened  int
	Bombs   int
}

// Stats scans the board and reports progress counters.
func (s *Simulation) Stats() Stats {
	st := Stats{Frames: s.frames, Actions: s.actions}
	s.engine.Board().Iterate(func(p point.Point, c *board.Cell) bool {
		switch {
		case c.State == board.Hidden:
			st.Hidden++
		case c.State == board.Marked:
			st.Marked++
		case c.State == board.Bomb:
			st.Bombs++
		default:
			st.Opened++
		}
		return true
	})
	return st
}
