package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"minefield/internal/engine"
	"minefield/internal/solver"
)

// TestSimulationSolvesKnownBoard is the deterministic-solve scenario
// run through the frame loop instead of a hand-rolled step loop: a
// 35x20 board at p=0.1, seed 42 must quiesce with every cell either
// marked or score-promoted.
func TestSimulationSolvesKnownBoard(t *testing.T) {
	e := engine.New(35, 20, 0.1, 42)
	s := New(e, solver.NewDeductiveAgent(1, 35, 20))
	s.Start()
	s.Run(0, 200000)

	st := s.Stats()
	assert.Zero(t, st.Hidden)
	assert.Zero(t, st.Bombs)
	assert.Positive(t, st.Opened)
	assert.Empty(t, e.Validate())
}

// TestTwoConcurrentAgents runs two deductive agents against the same
// known-solvable board; both see the full update stream, so every
// deduction stays sound and the board still quiesces fully solved.
func TestTwoConcurrentAgents(t *testing.T) {
	e := engine.New(35, 20, 0.1, 42)
	s := New(e,
		solver.NewDeductiveAgent(1, 35, 20),
		solver.NewDeductiveAgent(2, 35, 20),
	)
	s.Start()
	s.Run(0, 200000)

	st := s.Stats()
	assert.Zero(t, st.Hidden)
	assert.Zero(t, st.Bombs)
	assert.Empty(t, e.Validate())
}

func TestNoAgentsQuiescesImmediately(t *testing.T) {
	e := engine.New(10, 10, 0.1, 3)
	s := New(e)
	s.Start()

	require.False(t, s.StepFrame(), "a frame with no agents and no pending updates must quiesce")
	assert.Equal(t, 1, s.Stats().Frames)
}

func TestRequestStopHaltsRun(t *testing.T) {
	e := engine.New(50, 50, 0.15, 9)
	s := New(e, solver.NewRandomAgent(1, 50, 50))
	s.Start()
	s.RequestStop()
	s.Run(0, 0)

	assert.Zero(t, s.Stats().Frames, "a stopped simulation must not step any frame")
}

// TestStatsCountsStates checks the stats scan against the board a p=0
// reset leaves behind: every cell opened.
func TestStatsCountsStates(t *testing.T) {
	e := engine.New(5, 5, 0, 1)
	s := New(e)
	s.Start() // p=0 flood-fills the whole board open

	st := s.Stats()
	assert.Equal(t, 25, st.Opened)
	assert.Zero(t, st.Hidden)
	assert.Zero(t, st.Marked)
	assert.Zero(t, st.Bombs)
}
