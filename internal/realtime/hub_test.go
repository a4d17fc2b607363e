package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(hub *Hub, userID, sessionID string) *Client {
	return newClient(hub, nil, userID, sessionID)
}

func drain(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.send:
		return data
	default:
		t.Fatal("expected a queued message")
		return nil
	}
}

func TestRoomMembership(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, "u1", "s1")

	hub.join(TweetRoom("t1"), c)
	assert.Equal(t, 1, hub.RoomSize(TweetRoom("t1")))

	hub.leave(TweetRoom("t1"), c)
	assert.Zero(t, hub.RoomSize(TweetRoom("t1")))
	assert.Empty(t, c.rooms)
}

func TestToRoomDeliversToMembersOnly(t *testing.T) {
	hub := NewHub(zap.NewNop())
	member := newTestClient(hub, "u1", "s1")
	other := newTestClient(hub, "u2", "s2")

	hub.join(TweetRoom("t1"), member)
	hub.join(TweetRoom("t2"), other)

	hub.ToTweet("t1", CounterEvent{Event: EventLikeCount, TweetID: "t1", Count: 3})

	var event CounterEvent
	require.NoError(t, json.Unmarshal(drain(t, member), &event))
	assert.Equal(t, EventLikeCount, event.Event)
	assert.Equal(t, int64(3), event.Count)

	select {
	case <-other.send:
		t.Fatal("event leaked into another room")
	default:
	}
}

func TestToUserTargetsPersonalRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, "u1", "s1")
	hub.join(UserRoom("u1"), c)

	hub.ToUser("u1", NotificationEvent{Event: EventNewNotification})

	var event NotificationEvent
	require.NoError(t, json.Unmarshal(drain(t, c), &event))
	assert.Equal(t, EventNewNotification, event.Event)
}

func TestSlowClientIsSkipped(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, "u1", "s1")
	hub.join(TweetRoom("t1"), c)

	// Fill the queue; further broadcasts must not block.
	for i := 0; i < sendBuffer; i++ {
		c.send <- []byte("x")
	}
	hub.ToTweet("t1", CounterEvent{Event: EventLikeCount, TweetID: "t1", Count: 1})
	assert.Len(t, c.send, sendBuffer)
}

func TestRemoveClientLeavesAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient(hub, "u1", "s1")
	hub.join(UserRoom("u1"), c)
	hub.join(TweetRoom("t1"), c)
	hub.join(TweetRoom("t2"), c)

	hub.removeClient(c)

	assert.Zero(t, hub.RoomSize(UserRoom("u1")))
	assert.Zero(t, hub.RoomSize(TweetRoom("t1")))
	assert.Zero(t, hub.RoomSize(TweetRoom("t2")))
	_, open := <-c.send
	assert.False(t, open)

	// Idempotent: a second removal must not double-close the channel.
	hub.removeClient(c)

	// A closed client can no longer join rooms.
	hub.join(TweetRoom("t3"), c)
	assert.Zero(t, hub.RoomSize(TweetRoom("t3")))
}

func TestDisconnectSessionOnlyHitsThatSession(t *testing.T) {
	hub := NewHub(zap.NewNop())
	phone := newTestClient(hub, "u1", "s1")
	laptop := newTestClient(hub, "u1", "s2")

	for _, c := range []*Client{phone, laptop} {
		hub.join(UserRoom(c.userID), c)
		hub.join(SessionRoom(c.sessionID), c)
	}

	hub.DisconnectSession("s1")

	assert.Zero(t, hub.RoomSize(SessionRoom("s1")))
	assert.Equal(t, 1, hub.RoomSize(SessionRoom("s2")))
	assert.Equal(t, 1, hub.RoomSize(UserRoom("u1")))
	_, open := <-phone.send
	assert.False(t, open)
}
