package realtime

import "github.com/chirper-app/backend/internal/cache"

// Server-pushed event names.
const (
	EventLikeCount       = "like_count"
	EventCommentCount    = "comment_count"
	EventNewNotification = "new_notification"
	EventCounters        = "counters"
)

// Inbound actions a connected client may send.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

type inboundMessage struct {
	Action  string `json:"action"`
	TweetID string `json:"tweet_id"`
}

// CounterEvent is a counter delta pushed to a tweet room.
type CounterEvent struct {
	Event   string `json:"event"`
	TweetID string `json:"tweet_id"`
	Count   int64  `json:"count"`
}

// NotificationEvent is the generic ping pushed to a user room.
type NotificationEvent struct {
	Event string `json:"event"`
}

// SnapshotEvent answers a subscribe with the current counter-cache state
// before any subsequent deltas.
type SnapshotEvent struct {
	Event    string `json:"event"`
	TweetID  string `json:"tweet_id"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
}

func NewSnapshotEvent(tweetID string, counters cache.TweetCounters) SnapshotEvent {
	return SnapshotEvent{
		Event:    EventCounters,
		TweetID:  tweetID,
		Likes:    counters.Likes,
		Comments: counters.Comments,
	}
}
