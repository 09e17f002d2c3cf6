package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"minefield/internal/engine"
	"minefield/internal/guard"
	"minefield/internal/point"
	"minefield/internal/solver"
)

const (
	tickPeriod = 16 * time.Millisecond // soft 60Hz, matching the simulation's frame rate
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// ClientState is the small lifecycle the pool reports in its stats.
type ClientState int

const (
	StateConnecting ClientState = iota
	StateRunning
	StateDisconnected
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateRunning:
		return "RUNNING"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// SolverClient is one external connection running a deductive or random
// solver agent against a live minefield-server: a WebSocket connection
// plus the agent's own shadow replica of board state.
type SolverClient struct {
	id        int
	name      string
	url       string
	agentKind string

	conn *websocket.Conn
	send chan string
	done chan struct{}

	mu     sync.RWMutex
	state  ClientState
	userID int
	w, h   int
	agent  solver.Agent // nil until both grid and userid are known

	// pending buffers updates between receipt on the read loop and
	// consumption on the tick loop.
	pending *guard.Protected[[]engine.Update]
}

// NewSolverClient builds a client that dials url, logs in as name, and
// builds a fresh agentKind agent ("deductive" or "random") once the
// server reports both the board dimensions and this client's userid,
// and again after every board reset.
func NewSolverClient(id int, url, name, agentKind string) *SolverClient {
	return &SolverClient{
		id:        id,
		name:      name,
		url:       url,
		agentKind: agentKind,
		send:      make(chan string, 256),
		done:      make(chan struct{}),
		state:     StateConnecting,
		pending:   guard.New[[]engine.Update](nil),
	}
}

func (c *SolverClient) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Connect dials the server. Run should be called afterward in its own
// goroutine.
func (c *SolverClient) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("solver %d: dial %s: %w", c.id, c.url, err)
	}
	c.conn = conn
	return nil
}

// Run drives the client until its connection closes: a write pump, a
// 60Hz solver tick, and the blocking read loop all run concurrently.
func (c *SolverClient) Run() {
	defer c.Disconnect()

	go c.writePump()
	go c.tickLoop()

	c.send <- fmtLogin(c.name)

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("solver %d (%s): read error: %v", c.id, c.name, err)
			return
		}
		c.handleLine(string(data))
	}
}

func (c *SolverClient) handleLine(line string) {
	msg, ok := parseServerMessage(line)
	if !ok {
		return
	}

	switch msg.verb {
	case "grid":
		w, ok1 := msg.argInt(0)
		h, ok2 := msg.argInt(1)
		if !(ok1 && ok2) {
			return
		}
		c.mu.Lock()
		c.w, c.h = w, h
		c.mu.Unlock()
		c.maybeBuildAgent()

	case "userid":
		id, ok := msg.argInt(0)
		if !ok {
			return
		}
		c.mu.Lock()
		c.userID = id
		c.state = StateRunning
		c.mu.Unlock()
		c.maybeBuildAgent()

	case "update":
		u, ok := parseUpdate(msg)
		if !ok {
			return
		}
		c.pending.Do(func(batch *[]engine.Update) {
			*batch = append(*batch, u)
		})

	case "reset":
		log.Printf("solver %d (%s): board reset", c.id, c.name)
		c.mu.Lock()
		c.agent = nil
		c.mu.Unlock()
		c.pending.Swap(nil)
		c.maybeBuildAgent()

	default:
		// score/user/mouse/pong rows carry nothing the solver deduces
		// from; ignored.
	}
}

// maybeBuildAgent (re)builds the agent and subscribes to the whole
// board once both the grid dimensions and this client's userid are
// known. A no-op if either piece is still missing or the agent already
// exists for the current board.
func (c *SolverClient) maybeBuildAgent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.agent != nil || c.w == 0 || c.h == 0 || c.userID == 0 {
		return
	}
	c.agent = newAgentForKind(c.agentKind, c.userID, c.w, c.h)
	c.send <- fmtView(point.NewRect(point.Point{}, point.Point{X: c.w, Y: c.h}), true)
}

// tickLoop drains whatever updates have arrived since the last tick and
// hands them to the agent, once per soft frame. An agent emits at most
// one action per step.
func (c *SolverClient) tickLoop() {
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *SolverClient) tick() {
	c.mu.RLock()
	agent := c.agent
	c.mu.RUnlock()
	if agent == nil {
		return
	}

	batch := c.pending.Swap(nil)

	action := agent.Step(batch)
	if action.Kind == engine.Pass {
		return
	}
	if line, ok := fmtAct(action.Kind, action.Point); ok {
		c.send <- line
	}
}

func (c *SolverClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case line, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				log.Printf("solver %d (%s): write error: %v", c.id, c.name, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// Disconnect closes the client's connection and stops its goroutines.
func (c *SolverClient) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.mu.Unlock()

	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.conn != nil {
		c.conn.Close()
	}
	log.Printf("solver %d (%s): disconnected", c.id, c.name)
}

// newAgentForKind constructs a fresh solver.Agent for userID over a w x
// h shadow board.
func newAgentForKind(kind string, userID, w, h int) solver.Agent {
	switch kind {
	case "random":
		return solver.NewRandomAgent(userID, w, h)
	default:
		return solver.NewDeductiveAgent(userID, w, h)
	}
}
