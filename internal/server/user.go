package server

import (
	"time"

	"minefield/internal/point"
)

// User is the server-side record for a logged-in player: identity,
// avatar settings, score, and the viewport/cursor state the fanout
// logic reads every time the engine emits an update.
type User struct {
	ID          int
	Name        string
	Color       int
	Emoji       int
	Score       int
	View        point.Rect
	Mouse       point.PointF
	LastActive  time.Time
	ConnectedAt time.Time
	SessionID   string
}

// Active reports whether the user has been seen within d.
func (u *User) Active(d time.Duration, now time.Time) bool {
	return now.Sub(u.LastActive) <= d
}
