package main

import (
	"fmt"
	"strconv"
	"strings"

	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
)

// serverMessage is a parsed server->client line: verb plus raw args,
// the mirror image of internal/server's clientMessage.
type serverMessage struct {
	verb string
	args []string
}

func parseServerMessage(line string) (serverMessage, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return serverMessage{}, false
	}
	return serverMessage{verb: fields[0], args: fields[1:]}, true
}

func (m serverMessage) argInt(i int) (int, bool) {
	if i >= len(m.args) {
		return 0, false
	}
	v, err := strconv.Atoi(m.args[i])
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseUpdate decodes an `update <state> <x> <y> <user>` line into an
// engine.Update.
func parseUpdate(m serverMessage) (engine.Update, bool) {
	if len(m.args) < 4 {
		return engine.Update{}, false
	}
	state, ok1 := m.argInt(0)
	x, ok2 := m.argInt(1)
	y, ok3 := m.argInt(2)
	user, ok4 := m.argInt(3)
	if !(ok1 && ok2 && ok3 && ok4) {
		return engine.Update{}, false
	}
	return engine.Update{
		State: board.CellState(state),
		Point: point.Point{X: x, Y: y},
		User:  user,
	}, true
}

// --- client -> server formatting ---

func fmtLogin(name string) string {
	return "login " + name
}

func fmtView(r point.Rect, force bool) string {
	f := 0
	if force {
		f = 1
	}
	return fmt.Sprintf("view %d %d %d %d %d", r.TL.X, r.TL.Y, r.BR.X, r.BR.Y, f)
}

// actionWireCode maps an engine.ActionKind onto the `act` verb's 1/2/3
// code; only Open/Mark/Unmark are ever sent by a solver agent.
func actionWireCode(k engine.ActionKind) (int, bool) {
	switch k {
	case engine.Open:
		return 1, true
	case engine.Mark:
		return 2, true
	case engine.Unmark:
		return 3, true
	default:
		return 0, false
	}
}

func fmtAct(k engine.ActionKind, p point.Point) (string, bool) {
	code, ok := actionWireCode(k)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("act %d %d %d", code, p.X, p.Y), true
}
