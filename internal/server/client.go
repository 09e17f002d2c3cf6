package server

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 256
)

// Client is one WebSocket connection's server-side half: a read pump
// that parses wire lines and hands them to the Hub's single writer, and
// a write pump draining the per-client send channel.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	sessionID string
	userID    int // 0 until login

	send chan string
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan string, sendBufferSize),
	}
}

// readPump reads wire lines off the socket and forwards each to the
// Hub's single-writer handleMessage channel. Runs until the connection
// closes, then unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("client %s: read error: %v", c.sessionID, err)
			}
			return
		}
		c.hub.handleMessage <- messageWrapper{client: c, line: string(data)}
	}
}

// writePump drains the send channel onto the socket and issues periodic
// pings, mirroring the bot client's ticker-based keepalive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case line, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend enqueues line without blocking; a full send buffer means the
// client is too far behind and is dropped.
func (c *Client) trySend(line string) {
	select {
	case c.send <- line:
	default:
		log.Printf("client %s: send buffer full, dropping connection", c.sessionID)
		go func() { c.hub.unregister <- c }()
	}
}
