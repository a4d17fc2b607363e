package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/chirper-app/backend/internal/cache"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// SnapshotFunc resolves the current counter snapshot for a tweet, rebuilding
// the cache entry from the store when it is missing.
type SnapshotFunc func(ctx context.Context, tweetID string) (cache.TweetCounters, error)

// Client is one websocket connection owned by an authenticated user.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	userID    string
	sessionID string

	// rooms and closed are guarded by hub.mu
	rooms  map[string]struct{}
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, userID, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		userID:    userID,
		sessionID: sessionID,
		rooms:     make(map[string]struct{}),
	}
}

// readPump consumes subscribe/unsubscribe messages until the connection
// drops, then removes the client from its rooms.
func (c *Client) readPump(snapshot SnapshotFunc, logger *zap.Logger) {
	defer func() {
		c.hub.removeClient(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.TweetID == "" {
			continue
		}

		switch msg.Action {
		case ActionSubscribe:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			counters, err := snapshot(ctx, msg.TweetID)
			cancel()
			if err != nil {
				logger.Warn("counter snapshot failed",
					zap.String("tweet_id", msg.TweetID), zap.Error(err))
				continue
			}
			c.hub.join(TweetRoom(msg.TweetID), c)
			c.reply(NewSnapshotEvent(msg.TweetID, counters))
		case ActionUnsubscribe:
			c.hub.leave(TweetRoom(msg.TweetID), c)
		}
	}
}

// reply queues a payload on this client only.
func (c *Client) reply(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
