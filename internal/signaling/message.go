package signaling

import "encoding/json"

// Client -> server message types.
const (
	MsgCreateRoom   = "create-room"
	MsgJoinRoom     = "join-room"
	MsgOffer        = "offer"
	MsgAnswer       = "answer"
	MsgIceCandidate = "ice-candidate"
	MsgUserBlur     = "user-blur"
	MsgUserFocus    = "user-focus"
)

// Server -> client message types.
const (
	MsgRoomCreated = "room-created"
	MsgRoomJoined  = "room-joined"
	MsgRoomClosed  = "room-closed"
	MsgUserJoined  = "user-joined"
	MsgUserLeft    = "user-left"
	MsgRoomError   = "room-error"
)

// Message is the signaling envelope. SDP offers/answers and ICE candidates
// travel opaquely in Payload; the relay never inspects them.
type Message struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	From    string          `json:"from,omitempty"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PeerInfo identifies a connected peer to the other side of the call.
type PeerInfo struct {
	PeerID    string `json:"peer_id"`
	StudentID string `json:"student_id,omitempty"`
	Name      string `json:"name,omitempty"`
	IsHost    bool   `json:"is_host"`
}

// PresenceUpdate is the payload of user-joined and user-left events: the peer
// that moved plus the room's full participant list afterwards, so the host can
// re-render its roster without tracking deltas.
type PresenceUpdate struct {
	Peer         PeerInfo   `json:"peer"`
	Participants []PeerInfo `json:"participants"`
}

func errorMessage(room, reason string) *Message {
	payload, _ := json.Marshal(map[string]string{"reason": reason})
	return &Message{Type: MsgRoomError, Room: room, Payload: payload}
}
