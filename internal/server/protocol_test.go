package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
)

func TestParseClientMessage(t *testing.T) {
	msg, ok := parseClientMessage("act 1 10 20")
	require.True(t, ok)
	assert.Equal(t, "act", msg.verb)
	assert.Equal(t, []string{"1", "10", "20"}, msg.args)

	_, ok = parseClientMessage("   ")
	assert.False(t, ok)

	msg, ok = parseClientMessage("ping")
	require.True(t, ok)
	assert.Empty(t, msg.args)
}

func TestArgParsing(t *testing.T) {
	msg, _ := parseClientMessage("mouse 3.5 nope")

	v, ok := msg.argFloat(0)
	require.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = msg.argFloat(1)
	assert.False(t, ok)
	_, ok = msg.argInt(5)
	assert.False(t, ok)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short"))
	long := strings.Repeat("x", 50)
	assert.Len(t, truncateName(long), maxNameLen)
}

func TestActionKindWireCodes(t *testing.T) {
	for code, want := range map[int]engine.ActionKind{1: engine.Open, 2: engine.Mark, 3: engine.Unmark} {
		got, ok := actionKindFromWire(code)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := actionKindFromWire(0)
	assert.False(t, ok)
	_, ok = actionKindFromWire(4)
	assert.False(t, ok)
}

func TestWireFormats(t *testing.T) {
	assert.Equal(t, "grid 200 100", fmtGrid(200, 100))
	assert.Equal(t, "userid 7", fmtUserID(7))
	assert.Equal(t, "update 18 3 4 7",
		fmtUpdate(engine.Update{State: board.ScoreTwo, Point: point.Point{X: 3, Y: 4}, User: 7}))
	assert.Equal(t, "score 9 2 2", fmtScore(9, point.Point{X: 2, Y: 2}))
	assert.Equal(t, "mouse 7 3.5 4.2", fmtMouse(7, point.PointF{X: 3.5, Y: 4.25}))
	assert.Equal(t, "reset", fmtReset())
	assert.Equal(t, "pong abc", fmtPong("abc"))
}

func TestScoreDelta(t *testing.T) {
	d, ok := scoreDelta(board.ScoreThree, 0)
	require.True(t, ok)
	assert.Equal(t, 9, d)

	d, ok = scoreDelta(board.ScoreZero, 0)
	require.True(t, ok)
	assert.Zero(t, d)

	d, ok = scoreDelta(board.Bomb, 250)
	require.True(t, ok)
	assert.Equal(t, -250, d)

	d, ok = scoreDelta(board.Bomb, 30)
	require.True(t, ok)
	assert.Equal(t, -100, d, "penalty floor is 100")

	_, ok = scoreDelta(board.Three, 0)
	assert.False(t, ok)
	_, ok = scoreDelta(board.Hidden, 0)
	assert.False(t, ok)
}
