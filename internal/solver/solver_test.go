package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
)

// TestDeductiveAgentSolvesBoard: a 35x20 board, p=0.1, seed 42.
// Repeatedly stepping a single deductive agent must terminate with
// PASS, zero hidden cells, and zero detonated bombs, leaving every
// cell either marked or score-promoted.
func TestDeductiveAgentSolvesBoard(t *testing.T) {
	e := engine.New(35, 20, 0.1, 42)
	agent := NewDeductiveAgent(1, 35, 20)

	updates := e.Reset()
	const maxSteps = 100000
	i := 0
	for ; i < maxSteps; i++ {
		action := agent.Step(updates)
		if action.Kind == engine.Pass {
			break
		}
		updates = e.Apply(action)
	}

	require.Lessf(t, i, maxSteps, "solver did not terminate within %d steps", maxSteps)

	hidden, bombs := 0, 0
	e.Board().Iterate(func(p point.Point, c *board.Cell) bool {
		switch c.State {
		case board.Hidden:
			hidden++
		case board.Bomb:
			bombs++
		default:
			require.True(t, c.State == board.Marked || c.State.IsScore(),
				"cell %v left in non-terminal state %v", p, c.State)
		}
		return true
	})
	assert.Zero(t, hidden)
	assert.Zero(t, bombs)
	assert.Empty(t, e.Validate())
}

func TestRandomAgentTerminates(t *testing.T) {
	e := engine.New(20, 15, 0.12, 7)
	agent := NewRandomAgent(1, 20, 15)

	updates := e.Reset()
	const maxSteps = 50000
	i := 0
	for ; i < maxSteps; i++ {
		action := agent.Step(updates)
		if action.Kind == engine.Pass {
			break
		}
		updates = e.Apply(action)
	}
	require.Lessf(t, i, maxSteps, "random agent did not terminate within %d steps", maxSteps)
}

func TestDeductiveAgentRollingTargetNoPanicEmptyUpdates(t *testing.T) {
	agent := NewDeductiveAgent(1, 10, 10)
	action := agent.Step(nil)
	assert.Equal(t, engine.Pass, action.Kind)
}
