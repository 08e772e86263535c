package signaling

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient builds a hub-attached client without a websocket connection.
// deliver only writes to the send channel, so tests read queued messages
// straight from it.
func fakeClient(hub *Hub, id, studentID, name string, isAdmin bool) *Client {
	return &Client{
		ID:        id,
		StudentID: studentID,
		Name:      name,
		IsAdmin:   isAdmin,
		hub:       hub,
		send:      make(chan []byte, 256),
	}
}

func nextMessage(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	default:
		t.Fatal("no message queued")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message queued: %s", data)
	default:
	}
}

func TestCreateAndJoinRoom(t *testing.T) {
	hub := NewHub()
	host := fakeClient(hub, "host-1", "admin", "Admin", true)
	alice := fakeClient(hub, "peer-a", "2112001", "Alice", false)
	bob := fakeClient(hub, "peer-b", "2112002", "Bob", false)

	hub.CreateRoom(host, "quiz-42")
	created := nextMessage(t, host)
	assert.Equal(t, MsgRoomCreated, created.Type)
	assert.Equal(t, "quiz-42", created.Room)
	assert.Equal(t, 1, hub.RoomCount())

	hub.JoinRoom(alice, "quiz-42")
	joined := nextMessage(t, alice)
	assert.Equal(t, MsgRoomJoined, joined.Type)

	announce := nextMessage(t, host)
	assert.Equal(t, MsgUserJoined, announce.Type)
	assert.Equal(t, "peer-a", announce.From)

	var update PresenceUpdate
	require.NoError(t, json.Unmarshal(announce.Payload, &update))
	assert.Equal(t, "2112001", update.Peer.StudentID)
	assert.Equal(t, "Alice", update.Peer.Name)
	require.Len(t, update.Participants, 1)
	assert.Equal(t, "peer-a", update.Participants[0].PeerID)

	// The roster grows with each join.
	hub.JoinRoom(bob, "quiz-42")
	nextMessage(t, bob) // room-joined
	announce = nextMessage(t, host)
	require.NoError(t, json.Unmarshal(announce.Payload, &update))
	assert.Equal(t, "Bob", update.Peer.Name)
	assert.Len(t, update.Participants, 2)
}

func TestCreateRoomDuplicateRejected(t *testing.T) {
	hub := NewHub()
	first := fakeClient(hub, "host-1", "admin", "Admin", true)
	second := fakeClient(hub, "host-2", "admin2", "Admin Two", true)

	hub.CreateRoom(first, "quiz-42")
	nextMessage(t, first) // room-created

	hub.CreateRoom(second, "quiz-42")
	errMsg := nextMessage(t, second)
	assert.Equal(t, MsgRoomError, errMsg.Type)
	assert.Equal(t, 1, hub.RoomCount())
}

func TestJoinUnknownRoom(t *testing.T) {
	hub := NewHub()
	student := fakeClient(hub, "peer-1", "2112001", "Alice", false)

	hub.JoinRoom(student, "nope")
	errMsg := nextMessage(t, student)
	assert.Equal(t, MsgRoomError, errMsg.Type)
}

func TestCreateRoomRequiresAdmin(t *testing.T) {
	hub := NewHub()
	student := fakeClient(hub, "peer-1", "2112001", "Alice", false)

	student.handle(&Message{Type: MsgCreateRoom, Room: "quiz-42"})
	errMsg := nextMessage(t, student)
	assert.Equal(t, MsgRoomError, errMsg.Type)
	assert.Equal(t, 0, hub.RoomCount())
}

func TestRelayRouting(t *testing.T) {
	hub := NewHub()
	host := fakeClient(hub, "host-1", "admin", "Admin", true)
	alice := fakeClient(hub, "peer-a", "2112001", "Alice", false)
	bob := fakeClient(hub, "peer-b", "2112002", "Bob", false)

	hub.CreateRoom(host, "quiz-42")
	hub.JoinRoom(alice, "quiz-42")
	hub.JoinRoom(bob, "quiz-42")
	drain(host, alice, bob)

	// Participant messages always land on the host, whatever To says.
	hub.Relay(alice, &Message{Type: MsgOffer, To: "peer-b"})
	got := nextMessage(t, host)
	assert.Equal(t, MsgOffer, got.Type)
	assert.Equal(t, "peer-a", got.From)
	assertNoMessage(t, bob)

	// The host addresses a specific participant.
	hub.Relay(host, &Message{Type: MsgAnswer, To: "peer-b"})
	got = nextMessage(t, bob)
	assert.Equal(t, MsgAnswer, got.Type)
	assert.Equal(t, "host-1", got.From)
	assertNoMessage(t, alice)

	// Addressing a missing peer is an error back to the host.
	hub.Relay(host, &Message{Type: MsgIceCandidate, To: "ghost"})
	got = nextMessage(t, host)
	assert.Equal(t, MsgRoomError, got.Type)
}

func TestNotifyHostForwardsBlur(t *testing.T) {
	hub := NewHub()
	host := fakeClient(hub, "host-1", "admin", "Admin", true)
	alice := fakeClient(hub, "peer-a", "2112001", "Alice", false)

	hub.CreateRoom(host, "quiz-42")
	hub.JoinRoom(alice, "quiz-42")
	drain(host, alice)

	hub.NotifyHost(alice, &Message{Type: MsgUserBlur})
	got := nextMessage(t, host)
	assert.Equal(t, MsgUserBlur, got.Type)
	assert.Equal(t, "peer-a", got.From)

	// A host blur never echoes back to itself.
	hub.NotifyHost(host, &Message{Type: MsgUserBlur})
	assertNoMessage(t, host)
}

func TestHostLeaveClosesRoom(t *testing.T) {
	hub := NewHub()
	host := fakeClient(hub, "host-1", "admin", "Admin", true)
	alice := fakeClient(hub, "peer-a", "2112001", "Alice", false)
	bob := fakeClient(hub, "peer-b", "2112002", "Bob", false)

	hub.CreateRoom(host, "quiz-42")
	hub.JoinRoom(alice, "quiz-42")
	hub.JoinRoom(bob, "quiz-42")
	drain(host, alice, bob)

	hub.Leave(host)
	assert.Equal(t, 0, hub.RoomCount())
	for _, p := range []*Client{alice, bob} {
		got := nextMessage(t, p)
		assert.Equal(t, MsgRoomClosed, got.Type)
		assert.Empty(t, p.room)
	}
}

func TestParticipantLeaveAnnouncedToHost(t *testing.T) {
	hub := NewHub()
	host := fakeClient(hub, "host-1", "admin", "Admin", true)
	alice := fakeClient(hub, "peer-a", "2112001", "Alice", false)

	hub.CreateRoom(host, "quiz-42")
	hub.JoinRoom(alice, "quiz-42")
	drain(host, alice)

	hub.Leave(alice)
	got := nextMessage(t, host)
	assert.Equal(t, MsgUserLeft, got.Type)
	assert.Equal(t, "peer-a", got.From)
	assert.Equal(t, 1, hub.RoomCount(), "room stays open for remaining peers")

	// The departure payload carries the post-leave roster.
	var update PresenceUpdate
	require.NoError(t, json.Unmarshal(got.Payload, &update))
	assert.Equal(t, "peer-a", update.Peer.PeerID)
	assert.Empty(t, update.Participants)

	// Leaving twice is a no-op.
	hub.Leave(alice)
	assertNoMessage(t, host)
}

func drain(clients ...*Client) {
	for _, c := range clients {
		for len(c.send) > 0 {
			<-c.send
		}
	}
}
