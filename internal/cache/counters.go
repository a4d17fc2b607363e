package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	likesField    = "likes"
	commentsField = "comments"
)

// TweetCounters is a snapshot of the denormalized per-tweet counters.
type TweetCounters struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// CounterCache holds like/comment counts per tweet in a Redis hash keyed
// tweet:<id>. It is a cache, not source of truth: entries are zeroed at tweet
// creation and rebuildable by recount from the relational rows.
type CounterCache struct {
	rdb *redis.Client
}

func NewCounterCache(rdb *redis.Client) *CounterCache {
	return &CounterCache{rdb: rdb}
}

func Key(tweetID string) string {
	return "tweet:" + tweetID
}

// Init writes a zeroed entry for a freshly created tweet.
func (c *CounterCache) Init(ctx context.Context, tweetID string) error {
	return c.rdb.HSet(ctx, Key(tweetID), likesField, 0, commentsField, 0).Err()
}

// IncrLikes applies an atomic like-count delta and returns the new count.
func (c *CounterCache) IncrLikes(ctx context.Context, tweetID string, delta int64) (int64, error) {
	return c.rdb.HIncrBy(ctx, Key(tweetID), likesField, delta).Result()
}

// IncrComments applies an atomic comment-count delta and returns the new count.
func (c *CounterCache) IncrComments(ctx context.Context, tweetID string, delta int64) (int64, error) {
	return c.rdb.HIncrBy(ctx, Key(tweetID), commentsField, delta).Result()
}

// Snapshot returns the current counters. ok is false when no entry exists
// (cache lost or tweet unknown); callers rebuild from the store in that case.
func (c *CounterCache) Snapshot(ctx context.Context, tweetID string) (TweetCounters, bool, error) {
	vals, err := c.rdb.HGetAll(ctx, Key(tweetID)).Result()
	if err != nil {
		return TweetCounters{}, false, err
	}
	if len(vals) == 0 {
		return TweetCounters{}, false, nil
	}
	var out TweetCounters
	if raw, ok := vals[likesField]; ok {
		if out.Likes, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return TweetCounters{}, false, fmt.Errorf("corrupt likes counter for %s: %w", tweetID, err)
		}
	}
	if raw, ok := vals[commentsField]; ok {
		if out.Comments, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return TweetCounters{}, false, fmt.Errorf("corrupt comments counter for %s: %w", tweetID, err)
		}
	}
	return out, true, nil
}

// Rebuild overwrites the entry with counts recounted from the source of truth.
func (c *CounterCache) Rebuild(ctx context.Context, tweetID string, likes, comments int64) error {
	return c.rdb.HSet(ctx, Key(tweetID), likesField, likes, commentsField, comments).Err()
}

// Drop removes the entry, e.g. after the tweet itself is deleted.
func (c *CounterCache) Drop(ctx context.Context, tweetID string) error {
	return c.rdb.Del(ctx, Key(tweetID)).Err()
}
