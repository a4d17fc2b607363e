package fanout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chirper-app/backend/internal/cache"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/realtime"
	"github.com/chirper-app/backend/internal/repositories"
)

// recordingBroadcaster captures pushed events instead of delivering them.
type recordingBroadcaster struct {
	mu          sync.Mutex
	userEvents  map[string][]interface{}
	tweetEvents map[string][]interface{}
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{
		userEvents:  make(map[string][]interface{}),
		tweetEvents: make(map[string][]interface{}),
	}
}

func (b *recordingBroadcaster) ToUser(userID string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userEvents[userID] = append(b.userEvents[userID], payload)
}

func (b *recordingBroadcaster) ToTweet(tweetID string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tweetEvents[tweetID] = append(b.tweetEvents[tweetID], payload)
}

func (b *recordingBroadcaster) forUser(userID string) []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]interface{}(nil), b.userEvents[userID]...)
}

func (b *recordingBroadcaster) forTweet(tweetID string) []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]interface{}(nil), b.tweetEvents[tweetID]...)
}

type fanoutFixture struct {
	svc         *Service
	db          *gorm.DB
	counters    *cache.CounterCache
	notifRepo   repositories.NotificationRepository
	broadcaster *recordingBroadcaster
}

func setupFanout(t *testing.T) *fanoutFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Tweet{}, &models.Follow{}, &models.Like{}, &models.Notification{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	broadcaster := newRecordingBroadcaster()
	notifRepo := repositories.NewPostgresNotificationRepository(db)
	counters := cache.NewCounterCache(rdb)
	return &fanoutFixture{
		svc:         NewService(notifRepo, counters, broadcaster, zap.NewNop()),
		db:          db,
		counters:    counters,
		notifRepo:   notifRepo,
		broadcaster: broadcaster,
	}
}

func (f *fanoutFixture) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{Email: name + "@example.com", Name: name, Username: name}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fanoutFixture) seedTweet(t *testing.T, author *models.User) *models.Tweet {
	t.Helper()
	tweet := &models.Tweet{Content: "hello", AuthorID: author.ID, CreatedAt: time.Now()}
	require.NoError(t, f.db.Create(tweet).Error)
	return tweet
}

func TestLikeThenUnlike(t *testing.T) {
	f := setupFanout(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")
	tweet := f.seedTweet(t, alice)

	f.svc.TweetCreated(tweet.ID)
	f.svc.Wait()

	f.svc.TweetLiked(bob.ID, tweet)
	f.svc.Wait()

	counters, ok, err := f.counters.Snapshot(ctx, tweet.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), counters.Likes)

	tweetEvents := f.broadcaster.forTweet(tweet.ID)
	require.Len(t, tweetEvents, 1)
	counterEvent, isCounter := tweetEvents[0].(realtime.CounterEvent)
	require.True(t, isCounter)
	assert.Equal(t, realtime.EventLikeCount, counterEvent.Event)
	assert.Equal(t, int64(1), counterEvent.Count)

	notifications, total, err := f.notifRepo.GetByRecipientID(alice.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationLike, notifications[0].Kind)
	assert.Equal(t, bob.ID, notifications[0].ActorID)
	require.Len(t, f.broadcaster.forUser(alice.ID), 1)

	// Unlike reverses the counter and retracts the notification.
	f.svc.TweetUnliked(bob.ID, tweet)
	f.svc.Wait()

	counters, _, err = f.counters.Snapshot(ctx, tweet.ID)
	require.NoError(t, err)
	assert.Zero(t, counters.Likes)

	_, total, err = f.notifRepo.GetByRecipientID(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSelfLikeSkipsNotification(t *testing.T) {
	f := setupFanout(t)

	alice := f.seedUser(t, "alice")
	tweet := f.seedTweet(t, alice)

	f.svc.TweetCreated(tweet.ID)
	f.svc.TweetLiked(alice.ID, tweet)
	f.svc.Wait()

	// The counter still moves; the notification is suppressed.
	require.Len(t, f.broadcaster.forTweet(tweet.ID), 1)
	_, total, err := f.notifRepo.GetByRecipientID(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, f.broadcaster.forUser(alice.ID))
}

func TestReplyBumpsParentAndNotifies(t *testing.T) {
	f := setupFanout(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")
	parent := f.seedTweet(t, alice)

	f.svc.TweetCreated(parent.ID)
	f.svc.Wait()

	f.svc.ReplyCreated(bob.ID, parent)
	f.svc.Wait()

	counters, ok, err := f.counters.Snapshot(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), counters.Comments)

	tweetEvents := f.broadcaster.forTweet(parent.ID)
	require.Len(t, tweetEvents, 1)
	counterEvent := tweetEvents[0].(realtime.CounterEvent)
	assert.Equal(t, realtime.EventCommentCount, counterEvent.Event)

	notifications, total, err := f.notifRepo.GetByRecipientID(alice.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationComment, notifications[0].Kind)
}

func TestSelfReplySkipsNotification(t *testing.T) {
	f := setupFanout(t)

	alice := f.seedUser(t, "alice")
	parent := f.seedTweet(t, alice)

	f.svc.TweetCreated(parent.ID)
	f.svc.ReplyCreated(alice.ID, parent)
	f.svc.Wait()

	_, total, err := f.notifRepo.GetByRecipientID(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestFollowThenUnfollow(t *testing.T) {
	f := setupFanout(t)

	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")

	f.svc.Followed(alice.ID, bob.ID)
	f.svc.Wait()

	notifications, total, err := f.notifRepo.GetByRecipientID(bob.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationFollow, notifications[0].Kind)
	assert.Nil(t, notifications[0].TweetID)
	require.Len(t, f.broadcaster.forUser(bob.ID), 1)

	f.svc.Unfollowed(alice.ID, bob.ID)
	f.svc.Wait()

	_, total, err = f.notifRepo.GetByRecipientID(bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTweetDeletedDropsCounters(t *testing.T) {
	f := setupFanout(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	tweet := f.seedTweet(t, alice)

	f.svc.TweetCreated(tweet.ID)
	f.svc.Wait()
	f.svc.TweetDeleted(tweet.ID)
	f.svc.Wait()

	_, ok, err := f.counters.Snapshot(ctx, tweet.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
