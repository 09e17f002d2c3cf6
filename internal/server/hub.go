// Package server implements the multi-user coordination layer: the
// authoritative Engine lives behind a single-writer Hub, connections
// speak the line-oriented ASCII protocol over WebSockets, and every
// finished session is appended to the store's ledger when its client
// disconnects.
package server

import (
	"log"
	"strconv"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"minefield/internal/board"
	"minefield/internal/engine"
	"minefield/internal/point"
	"minefield/internal/store"
)

const (
	liveBroadcastPeriod = 1 * time.Second
	activeWindow        = 2 * time.Second
	mouseActiveWindow   = 60 * time.Second
	loginDumpWindow     = 7 * 24 * time.Hour
)

// messageWrapper carries one raw client line into the Hub's single
// select loop.
type messageWrapper struct {
	client *Client
	line   string
}

// Hub owns the authoritative engine and every piece of global,
// single-writer state: the session table, user registry, and the name
// index that makes `login` a reattach rather than always-fresh.
type Hub struct {
	engine *engine.Engine
	w, h   int
	ledger *store.Ledger // nil when no ledger is configured

	clients   map[string]*Client // session id -> client
	users     map[int]*User      // userid -> user
	usernames map[string]int     // name -> userid
	nextUser  int

	register      chan *Client
	unregister    chan *Client
	handleMessage chan messageWrapper
	resetRequest  chan struct{}
}

// NewHub constructs a hub over a freshly reset w x h engine. ledger may be
// nil, in which case finished sessions are simply not recorded.
func NewHub(w, h int, p float64, seed uint64, ledger *store.Ledger) *Hub {
	h2 := &Hub{
		engine:        engine.New(w, h, p, seed),
		w:             w,
		h:             h,
		ledger:        ledger,
		clients:       make(map[string]*Client),
		users:         make(map[int]*User),
		usernames:     make(map[string]int),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		handleMessage: make(chan messageWrapper, 256),
		resetRequest:  make(chan struct{}, 1),
	}
	h2.engine.Reset()
	return h2
}

// RequestReset asks the hub to reset the board on its next select-loop
// iteration. Safe to call from any goroutine, including a signal
// handler: it never touches hub state directly, only enqueues a
// request.
func (h *Hub) RequestReset() {
	select {
	case h.resetRequest <- struct{}{}:
	default:
	}
}

// Run is the hub's single select loop: every mutation of engine, client,
// or user state happens on this goroutine.
func (h *Hub) Run() {
	liveTicker := time.NewTicker(liveBroadcastPeriod)
	defer liveTicker.Stop()

	for {
		select {
		case c := <-h.register:
			h.clients[c.sessionID] = c
			c.trySend(fmtGrid(h.w, h.h))

		case c := <-h.unregister:
			if _, ok := h.clients[c.sessionID]; ok {
				delete(h.clients, c.sessionID)
				h.recordSession(c)
				close(c.send)
			}

		case wrapper := <-h.handleMessage:
			h.handleLine(wrapper.client, wrapper.line)

		case <-h.resetRequest:
			h.doReset()

		case <-liveTicker.C:
			h.broadcastLiveUsers()
		}
	}
}

// doReset broadcasts "reset" to every connected client, then re-lays the
// board and fans out the implicit opening move like any other action.
func (h *Hub) doReset() {
	log.Printf("hub: resetting %dx%d board (seed %d)", h.w, h.h, h.engine.Seed())
	for _, c := range h.clients {
		c.trySend(fmtReset())
	}
	h.fanout(h.engine.Reset())
}

func (h *Hub) handleLine(c *Client, line string) {
	msg, ok := parseClientMessage(line)
	if !ok {
		return
	}

	if c.userID == 0 && msg.verb != "login" && msg.verb != "register" && msg.verb != "ping" {
		log.Printf("client %s: protocol violation before login: %q", c.sessionID, line)
		return
	}

	switch msg.verb {
	case "ping":
		if len(msg.args) > 0 {
			c.trySend(fmtPong(msg.args[0]))
		}
	case "login":
		h.handleLogin(c, msg)
	case "register":
		h.handleRegister(c, msg)
	case "act":
		h.handleAct(c, msg)
	case "view":
		h.handleView(c, msg)
	case "mouse":
		h.handleMouse(c, msg)
	case "settings":
		h.handleSettings(c, msg)
	default:
		log.Printf("client %s: malformed or unknown verb: %q", c.sessionID, line)
	}
}

func (h *Hub) touchUser(u *User) {
	u.LastActive = time.Now()
}

// handleLogin reattaches an existing user by name if one exists,
// otherwise mints a fresh one.
func (h *Hub) handleLogin(c *Client, msg clientMessage) {
	if len(msg.args) == 0 {
		return
	}
	name := truncateName(msg.args[0])

	if existing, ok := h.usernames[name]; ok {
		c.userID = existing
		u := h.users[existing]
		u.SessionID = c.sessionID
		h.touchUser(u)
		c.trySend(fmtUserID(u.ID))
		h.dumpActiveUsers(c)
		h.broadcastUser(u)
		return
	}

	u := h.newUser(name, 0, 0, c.sessionID)
	c.userID = u.ID
	c.trySend(fmtUserID(u.ID))
	h.dumpActiveUsers(c)
	h.broadcastUser(u)
}

// dumpActiveUsers sends the freshly logged-in client one user row for
// every user seen within the last 7 days, in userid order.
func (h *Hub) dumpActiveUsers(c *Client) {
	now := time.Now()
	ids := maps.Keys(h.users)
	slices.Sort(ids)
	for _, id := range ids {
		u := h.users[id]
		if id == c.userID || !u.Active(loginDumpWindow, now) {
			continue
		}
		c.trySend(fmtUserRow(u, int(now.Sub(u.LastActive).Seconds())))
	}
}

// handleRegister always creates a fresh user even if the name exists.
func (h *Hub) handleRegister(c *Client, msg clientMessage) {
	if len(msg.args) < 3 {
		return
	}
	name := truncateName(msg.args[0])
	color, _ := strconv.Atoi(msg.args[1])
	emoji, _ := strconv.Atoi(msg.args[2])

	u := h.newUser(name, color, emoji, c.sessionID)
	c.userID = u.ID
	c.trySend(fmtUserID(u.ID))
	h.dumpActiveUsers(c)
	h.broadcastUser(u)
}

func (h *Hub) newUser(name string, color, emoji int, sessionID string) *User {
	h.nextUser++
	now := time.Now()
	u := &User{
		ID:          h.nextUser,
		Name:        name,
		Color:       color,
		Emoji:       emoji,
		LastActive:  now,
		ConnectedAt: now,
		SessionID:   sessionID,
	}
	h.users[u.ID] = u
	h.usernames[name] = u.ID
	return u
}

// recordSession appends c's user (if logged in) to the ledger as a
// finished session. A no-op when no ledger is configured or the client
// never logged in.
func (h *Hub) recordSession(c *Client) {
	if h.ledger == nil || c.userID == 0 {
		return
	}
	u := h.users[c.userID]
	if u == nil {
		return
	}
	h.ledger.RecordSession(store.Session{
		UserID:         u.ID,
		Name:           u.Name,
		ConnectedAt:    u.ConnectedAt,
		DisconnectedAt: time.Now(),
		FinalScore:     u.Score,
		BoardW:         h.w,
		BoardH:         h.h,
		Seed:           h.engine.Seed(),
	})
}

func (h *Hub) handleAct(c *Client, msg clientMessage) {
	kindCode, ok1 := msg.argInt(0)
	x, ok2 := msg.argInt(1)
	y, ok3 := msg.argInt(2)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	kind, ok := actionKindFromWire(kindCode)
	if !ok {
		return
	}
	u := h.users[c.userID]
	if u == nil {
		return
	}
	h.touchUser(u)

	updates := h.engine.Apply(engine.Action{Kind: kind, Point: point.Point{X: x, Y: y}, User: c.userID})
	h.fanout(updates)
}

func (h *Hub) handleView(c *Client, msg clientMessage) {
	x1, ok1 := msg.argInt(0)
	y1, ok2 := msg.argInt(1)
	x2, ok3 := msg.argInt(2)
	y2, ok4 := msg.argInt(3)
	force, ok5 := msg.argInt(4)
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return
	}
	u := h.users[c.userID]
	if u == nil {
		return
	}
	h.touchUser(u)

	bounds := h.engine.Board().Bounds()
	newView := point.ClampRect(point.NewRect(point.Point{X: x1, Y: y1}, point.Point{X: x2, Y: y2}), bounds)
	oldView := u.View
	u.View = newView

	if force != 0 {
		h.dumpView(c, newView)
		return
	}

	for _, r := range newView.Difference(oldView) {
		h.dumpView(c, r)
	}
}

// dumpView sends every non-Hidden cell within r to c, used both for a
// forced full-view dump and for the new-minus-old viewport delta.
func (h *Hub) dumpView(c *Client, r point.Rect) {
	b := h.engine.Board()
	for x := r.TL.X; x < r.BR.X; x++ {
		for y := r.TL.Y; y < r.BR.Y; y++ {
			p := point.Point{X: x, Y: y}
			cell := b.At(p)
			if cell.State == board.Hidden {
				continue
			}
			c.trySend(fmtUpdate(engine.Update{State: cell.State, Point: p, User: cell.User}))
		}
	}
}

func (h *Hub) handleMouse(c *Client, msg clientMessage) {
	x, ok1 := msg.argFloat(0)
	y, ok2 := msg.argFloat(1)
	if !(ok1 && ok2) {
		return
	}
	u := h.users[c.userID]
	if u == nil {
		return
	}
	h.touchUser(u)
	u.Mouse = point.PointF{X: x, Y: y}
	mp := u.Mouse.Round()

	now := time.Now()
	for _, other := range h.clients {
		if other.sessionID == c.sessionID || other.userID == 0 {
			continue
		}
		ou := h.users[other.userID]
		if ou == nil || !ou.Active(mouseActiveWindow, now) || !ou.View.Contains(mp) {
			continue
		}
		other.trySend(fmtMouse(c.userID, u.Mouse))
	}
}

func (h *Hub) handleSettings(c *Client, msg clientMessage) {
	color, ok1 := msg.argInt(0)
	emoji, ok2 := msg.argInt(1)
	if !(ok1 && ok2) {
		return
	}
	u := h.users[c.userID]
	if u == nil {
		return
	}
	u.Color = color
	u.Emoji = emoji
	h.touchUser(u)
}

// fanout delivers one action's emitted updates: plain cell updates go
// to every logged-in client whose viewport contains the point, scoring
// events go unicast to the scoring user only.
func (h *Hub) fanout(updates []engine.Update) {
	for _, u := range updates {
		if u.State.IsScore() {
			h.applyScore(u)
			continue
		}
		if u.State == board.Bomb {
			// The detonation still fans out as a cell update below; the
			// penalty is unicast like any other score event.
			h.applyScore(u)
		}
		for _, c := range h.clients {
			if c.userID == 0 {
				continue
			}
			user := h.users[c.userID]
			if user == nil || !user.View.Contains(u.Point) {
				continue
			}
			c.trySend(fmtUpdate(u))
		}
	}
}

func (h *Hub) applyScore(u engine.Update) {
	user := h.users[u.User]
	if user == nil {
		return
	}
	delta, ok := scoreDelta(u.State, user.Score)
	if !ok {
		return
	}
	user.Score += delta

	if c, ok := h.clients[user.SessionID]; ok {
		c.trySend(fmtScore(delta, u.Point))
	}
}

// broadcastUser sends u's row to every connected client on login.
func (h *Hub) broadcastUser(u *User) {
	row := fmtUserRow(u, 0)
	for _, c := range h.clients {
		c.trySend(row)
	}
}

// broadcastLiveUsers is the 1 Hz liveness task: every user active
// within activeWindow is announced to every connected session.
func (h *Hub) broadcastLiveUsers() {
	now := time.Now()
	for _, u := range h.users {
		if !u.Active(activeWindow, now) {
			continue
		}
		row := fmtUserRow(u, int(now.Sub(u.LastActive).Seconds()))
		for _, c := range h.clients {
			c.trySend(row)
		}
	}
}
