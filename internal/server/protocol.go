package server

import (
	"fmt"
	"strconv"
	"strings"

	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
)

// clientMessage is a parsed client->server line: verb plus raw args.
type clientMessage struct {
	verb string
	args []string
}

func parseClientMessage(line string) (clientMessage, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return clientMessage{}, false
	}
	return clientMessage{verb: fields[0], args: fields[1:]}, true
}

func (m clientMessage) argInt(i int) (int, bool) {
	if i >= len(m.args) {
		return 0, false
	}
	v, err := strconv.Atoi(m.args[i])
	if err != nil {
		return 0, false
	}
	return v, true
}

func (m clientMessage) argFloat(i int) (float64, bool) {
	if i >= len(m.args) {
		return 0, false
	}
	v, err := strconv.ParseFloat(m.args[i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

const maxNameLen = 32

func truncateName(name string) string {
	if len(name) > maxNameLen {
		return name[:maxNameLen]
	}
	return name
}

// actionKindFromWire maps the 1/2/3 act-verb codes onto engine.ActionKind.
func actionKindFromWire(k int) (engine.ActionKind, bool) {
	switch k {
	case 1:
		return engine.Open, true
	case 2:
		return engine.Mark, true
	case 3:
		return engine.Unmark, true
	default:
		return 0, false
	}
}

// --- server -> client formatting ---

func fmtGrid(w, h int) string {
	return fmt.Sprintf("grid %d %d", w, h)
}

func fmtUserID(id int) string {
	return fmt.Sprintf("userid %d", id)
}

func fmtUpdate(u engine.Update) string {
	return fmt.Sprintf("update %d %d %d %d", u.State, u.Point.X, u.Point.Y, u.User)
}

func fmtUserRow(u *User, secondsSinceActive int) string {
	return fmt.Sprintf("user %d %s %d %d %d %d %d %d %d %d",
		u.ID, u.Name, u.Color, u.Emoji, u.Score,
		u.View.TL.X, u.View.TL.Y, u.View.BR.X, u.View.BR.Y,
		secondsSinceActive)
}

func fmtScore(delta int, p point.Point) string {
	return fmt.Sprintf("score %d %d %d", delta, p.X, p.Y)
}

func fmtMouse(userID int, m point.PointF) string {
	return fmt.Sprintf("mouse %d %.1f %.1f", userID, m.X, m.Y)
}

func fmtReset() string {
	return "reset"
}

func fmtPong(tag string) string {
	return "pong " + tag
}

// scoreDelta computes the score change an update causes: count^2 on a
// score event, minus max(100, current) on a self-detonated bomb.
func scoreDelta(state board.CellState, currentScore int) (delta int, applies bool) {
	switch {
	case state.IsScore():
		count := state.Count()
		return count * count, true
	case state == board.Bomb:
		d := currentScore
		if d < 100 {
			d = 100
		}
		return -d, true
	default:
		return 0, false
	}
}
