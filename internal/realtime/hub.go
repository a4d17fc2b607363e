package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Room keys. A user room holds that user's own live connections, a tweet room
// holds viewers currently subscribed to that tweet, and a session room groups
// the connections force-closed at logout.
func UserRoom(userID string) string { return "user:" + userID }

func TweetRoom(tweetID string) string { return "tweet:" + tweetID }

func SessionRoom(sessionID string) string { return "session:" + sessionID }

// Hub routes broadcast payloads to room members. Membership in a user or
// session room is derived from the authenticated connection identity, never
// client-supplied; tweet rooms are joined via explicit subscribe messages.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(room, c)
}

func (h *Hub) leaveLocked(room string, c *Client) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// removeClient drops the client from every room and closes its send queue.
// Safe to call more than once.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeClientLocked(c)
}

func (h *Hub) removeClientLocked(c *Client) {
	if c.closed {
		return
	}
	for room := range c.rooms {
		h.leaveLocked(room, c)
	}
	c.closed = true
	close(c.send)
}

// ToRoom marshals the payload once and queues it on every room member. Slow
// consumers get dropped rather than blocking the broadcast.
func (h *Hub) ToRoom(room string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal broadcast payload", zap.String("room", room), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping message for slow client",
				zap.String("room", room),
				zap.String("user_id", c.userID))
		}
	}
}

// ToUser pushes to the user's personal room.
func (h *Hub) ToUser(userID string, payload interface{}) {
	h.ToRoom(UserRoom(userID), payload)
}

// ToTweet pushes to the tweet's subscriber room.
func (h *Hub) ToTweet(tweetID string, payload interface{}) {
	h.ToRoom(TweetRoom(tweetID), payload)
}

// DisconnectSession force-closes every connection of the session, synchronously,
// so the logout response is only sent once the sockets are gone.
func (h *Hub) DisconnectSession(sessionID string) {
	h.mu.Lock()
	var victims []*Client
	for c := range h.rooms[SessionRoom(sessionID)] {
		victims = append(victims, c)
	}
	for _, c := range victims {
		h.removeClientLocked(c)
	}
	h.mu.Unlock()

	for _, c := range victims {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// RoomSize reports current membership, mainly for tests and introspection.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
