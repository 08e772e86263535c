package signaling

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// room is one proctoring session: the admin who created it plus the students
// under watch. Signaling payloads are relayed peer to peer, never stored.
type room struct {
	id           string
	host         *Client
	participants map[string]*Client // keyed by peer id
}

// roster snapshots the room's current participants.
func (r *room) roster() []PeerInfo {
	list := make([]PeerInfo, 0, len(r.participants))
	for _, p := range r.participants {
		list = append(list, PeerInfo{PeerID: p.ID, StudentID: p.StudentID, Name: p.Name})
	}
	return list
}

// Hub tracks rooms and routes signaling messages between their peers. All
// state is behind one mutex; handlers run on the clients' read goroutines.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*room)}
}

// CreateRoom registers a new room with the caller as host. A second create
// for the same room id is rejected.
func (h *Hub) CreateRoom(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[roomID]; exists {
		c.deliver(errorMessage(roomID, "room already exists"))
		return
	}
	h.rooms[roomID] = &room{
		id:           roomID,
		host:         c,
		participants: make(map[string]*Client),
	}
	c.room = roomID
	c.deliver(&Message{Type: MsgRoomCreated, Room: roomID})
	log.Info().Str("room", roomID).Str("peer", c.ID).Msg("Signaling room created")
}

// JoinRoom adds a participant and announces it to the host, so the host can
// initiate the WebRTC offer.
func (h *Hub) JoinRoom(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, exists := h.rooms[roomID]
	if !exists {
		c.deliver(errorMessage(roomID, "room does not exist"))
		return
	}
	if _, dup := r.participants[c.ID]; dup {
		c.deliver(errorMessage(roomID, "already in room"))
		return
	}

	r.participants[c.ID] = c
	c.room = roomID
	c.deliver(&Message{Type: MsgRoomJoined, Room: roomID})

	update, _ := json.Marshal(PresenceUpdate{
		Peer:         PeerInfo{PeerID: c.ID, StudentID: c.StudentID, Name: c.Name},
		Participants: r.roster(),
	})
	r.host.deliver(&Message{Type: MsgUserJoined, Room: roomID, From: c.ID, Payload: update})
	log.Info().Str("room", roomID).Str("peer", c.ID).Msg("Peer joined signaling room")
}

// Relay forwards an offer/answer/candidate to its addressee. Participants may
// only talk to the host; the host addresses participants via msg.To.
func (h *Hub) Relay(c *Client, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, exists := h.rooms[c.room]
	if !exists {
		c.deliver(errorMessage(msg.Room, "not in a room"))
		return
	}

	msg.Room = r.id
	msg.From = c.ID

	var target *Client
	if c == r.host {
		target = r.participants[msg.To]
	} else {
		target = r.host
	}
	if target == nil {
		c.deliver(errorMessage(r.id, "peer not found"))
		return
	}
	target.deliver(msg)
}

// NotifyHost pushes a monitoring signal (blur/focus) from a participant to
// the room host.
func (h *Hub) NotifyHost(c *Client, msg *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, exists := h.rooms[c.room]
	if !exists || c == r.host {
		return
	}
	msg.Room = r.id
	msg.From = c.ID
	r.host.deliver(msg)
}

// Leave removes the peer from its room. A departing host tears the room down
// and tells every participant; a departing participant is announced to the
// host.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, exists := h.rooms[c.room]
	if !exists {
		return
	}

	if c == r.host {
		for _, p := range r.participants {
			p.deliver(&Message{Type: MsgRoomClosed, Room: r.id})
			p.room = ""
		}
		delete(h.rooms, r.id)
		log.Info().Str("room", r.id).Msg("Signaling room closed, host left")
	} else if _, ok := r.participants[c.ID]; ok {
		delete(r.participants, c.ID)
		update, _ := json.Marshal(PresenceUpdate{
			Peer:         PeerInfo{PeerID: c.ID, StudentID: c.StudentID, Name: c.Name},
			Participants: r.roster(),
		})
		r.host.deliver(&Message{Type: MsgUserLeft, Room: r.id, From: c.ID, Payload: update})
		log.Info().Str("room", r.id).Str("peer", c.ID).Msg("Peer left signaling room")
	}
	c.room = ""
}

// RoomCount reports the number of open rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
