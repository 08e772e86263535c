package signaling

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

// Client is one websocket connection attached to the hub.
type Client struct {
	ID        string
	StudentID string
	Name      string
	IsAdmin   bool

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

// Attach wires a freshly upgraded connection into the hub and starts its
// pumps. It returns once the pumps are running.
func (h *Hub) Attach(conn *websocket.Conn, studentID, name string, isAdmin bool) *Client {
	c := &Client{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Name:      name,
		IsAdmin:   isAdmin,
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
	}
	go c.writePump()
	go c.readPump()
	return c
}

// deliver queues a message without blocking; a peer that cannot keep up has
// its buffer dropped on the floor and will be cleaned up by its write pump.
func (c *Client) deliver(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("Signaling: marshal failed")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("peer", c.ID).Msg("Signaling: send buffer full, dropping message")
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("peer", c.ID).Msg("Signaling: read error")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.deliver(errorMessage("", "malformed message"))
			continue
		}
		c.handle(&msg)
	}
}

func (c *Client) handle(msg *Message) {
	switch msg.Type {
	case MsgCreateRoom:
		if !c.IsAdmin {
			c.deliver(errorMessage(msg.Room, "only admins can create rooms"))
			return
		}
		c.hub.CreateRoom(c, msg.Room)
	case MsgJoinRoom:
		c.hub.JoinRoom(c, msg.Room)
	case MsgOffer, MsgAnswer, MsgIceCandidate:
		c.hub.Relay(c, msg)
	case MsgUserBlur, MsgUserFocus:
		c.hub.NotifyHost(c, msg)
	default:
		c.deliver(errorMessage(msg.Room, "unknown message type"))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
