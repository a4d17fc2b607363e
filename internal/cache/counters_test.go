package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*CounterCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCounterCache(rdb), mr
}

func TestInitAndSnapshot(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Init(ctx, "t1"))

	counters, ok, err := cache.Snapshot(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, counters.Likes)
	assert.Zero(t, counters.Comments)
}

func TestSnapshotMissingEntry(t *testing.T) {
	cache, _ := setupCache(t)

	_, ok, err := cache.Snapshot(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncrReturnsNewCount(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Init(ctx, "t1"))

	likes, err := cache.IncrLikes(ctx, "t1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	likes, err = cache.IncrLikes(ctx, "t1", -1)
	require.NoError(t, err)
	assert.Zero(t, likes)

	comments, err := cache.IncrComments(ctx, "t1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), comments)

	counters, ok, err := cache.Snapshot(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TweetCounters{Likes: 0, Comments: 1}, counters)
}

func TestRebuildOverwrites(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	// Entry was lost; a rebuild recreates it from recounted values.
	require.NoError(t, cache.Rebuild(ctx, "t1", 7, 3))

	counters, ok, err := cache.Snapshot(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TweetCounters{Likes: 7, Comments: 3}, counters)
}

func TestDrop(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Init(ctx, "t1"))
	require.NoError(t, cache.Drop(ctx, "t1"))

	assert.False(t, mr.Exists(Key("t1")))
	_, ok, err := cache.Snapshot(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotCorruptValue(t *testing.T) {
	cache, mr := setupCache(t)

	mr.HSet(Key("t1"), "likes", "garbage")
	_, _, err := cache.Snapshot(context.Background(), "t1")
	assert.Error(t, err)
}
