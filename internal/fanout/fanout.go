package fanout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chirper-app/backend/internal/cache"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/realtime"
	"github.com/chirper-app/backend/internal/repositories"
)

// Broadcaster pushes payloads to real-time rooms. Satisfied by realtime.Hub.
type Broadcaster interface {
	ToUser(userID string, payload interface{})
	ToTweet(tweetID string, payload interface{})
}

// Service runs the secondary effects of a primary write: counter-cache
// deltas, notification rows, and real-time pushes. Every operation is spawned
// after the primary write has committed and carries its own error boundary;
// a failed counter update or push is logged and never fails the request that
// triggered it.
type Service struct {
	notifRepo   repositories.NotificationRepository
	counters    *cache.CounterCache
	broadcaster Broadcaster
	logger      *zap.Logger
	timeout     time.Duration

	wg sync.WaitGroup
}

func NewService(
	notifRepo repositories.NotificationRepository,
	counters *cache.CounterCache,
	broadcaster Broadcaster,
	logger *zap.Logger,
) *Service {
	return &Service{
		notifRepo:   notifRepo,
		counters:    counters,
		broadcaster: broadcaster,
		logger:      logger,
		timeout:     10 * time.Second,
	}
}

// Wait blocks until all in-flight fan-out tasks finish. Used at shutdown and
// in tests; request handlers never call it.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) spawn(op string, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("fanout panic", zap.String("op", op), zap.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// TweetCreated initializes a zeroed counter entry for a new top-level tweet.
func (s *Service) TweetCreated(tweetID string) {
	s.spawn("tweet created", func(ctx context.Context) {
		if err := s.counters.Init(ctx, tweetID); err != nil {
			s.logger.Warn("init counters failed", zap.String("tweet_id", tweetID), zap.Error(err))
		}
	})
}

// TweetDeleted drops the counter entry of a deleted tweet.
func (s *Service) TweetDeleted(tweetID string) {
	s.spawn("tweet deleted", func(ctx context.Context) {
		if err := s.counters.Drop(ctx, tweetID); err != nil {
			s.logger.Warn("drop counters failed", zap.String("tweet_id", tweetID), zap.Error(err))
		}
	})
}

// TweetLiked bumps the like counter, broadcasts the new count to the tweet
// room, and notifies the tweet owner unless they liked their own tweet.
func (s *Service) TweetLiked(actorID string, tweet *models.Tweet) {
	tweetID := tweet.ID
	ownerID := tweet.AuthorID
	s.spawn("like", func(ctx context.Context) {
		if count, err := s.counters.IncrLikes(ctx, tweetID, 1); err != nil {
			s.logger.Warn("like counter update failed", zap.String("tweet_id", tweetID), zap.Error(err))
		} else {
			s.broadcaster.ToTweet(tweetID, realtime.CounterEvent{
				Event: realtime.EventLikeCount, TweetID: tweetID, Count: count,
			})
		}

		if ownerID == actorID {
			return
		}
		notification := &models.Notification{
			Kind:        models.NotificationLike,
			RecipientID: ownerID,
			ActorID:     actorID,
			TweetID:     &tweetID,
		}
		if err := s.notifRepo.CreateNotification(notification); err != nil {
			s.logger.Warn("like notification failed", zap.String("tweet_id", tweetID), zap.Error(err))
			return
		}
		s.broadcaster.ToUser(ownerID, realtime.NotificationEvent{Event: realtime.EventNewNotification})
	})
}

// TweetUnliked reverses TweetLiked. Callers only invoke it when a Like row
// was actually deleted.
func (s *Service) TweetUnliked(actorID string, tweet *models.Tweet) {
	tweetID := tweet.ID
	ownerID := tweet.AuthorID
	s.spawn("unlike", func(ctx context.Context) {
		if count, err := s.counters.IncrLikes(ctx, tweetID, -1); err != nil {
			s.logger.Warn("like counter update failed", zap.String("tweet_id", tweetID), zap.Error(err))
		} else {
			s.broadcaster.ToTweet(tweetID, realtime.CounterEvent{
				Event: realtime.EventLikeCount, TweetID: tweetID, Count: count,
			})
		}

		if err := s.notifRepo.DeleteMatching(models.NotificationLike, actorID, ownerID, &tweetID); err != nil {
			s.logger.Warn("like notification retraction failed", zap.String("tweet_id", tweetID), zap.Error(err))
		}
	})
}

// ReplyCreated bumps the parent's comment counter, broadcasts it, and
// notifies the parent's owner unless they replied to themselves. Comment
// notifications are never retracted; there is no "uncomment".
func (s *Service) ReplyCreated(authorID string, parent *models.Tweet) {
	parentID := parent.ID
	ownerID := parent.AuthorID
	s.spawn("reply", func(ctx context.Context) {
		if count, err := s.counters.IncrComments(ctx, parentID, 1); err != nil {
			s.logger.Warn("comment counter update failed", zap.String("tweet_id", parentID), zap.Error(err))
		} else {
			s.broadcaster.ToTweet(parentID, realtime.CounterEvent{
				Event: realtime.EventCommentCount, TweetID: parentID, Count: count,
			})
		}

		if ownerID == authorID {
			return
		}
		notification := &models.Notification{
			Kind:        models.NotificationComment,
			RecipientID: ownerID,
			ActorID:     authorID,
			TweetID:     &parentID,
		}
		if err := s.notifRepo.CreateNotification(notification); err != nil {
			s.logger.Warn("comment notification failed", zap.String("tweet_id", parentID), zap.Error(err))
			return
		}
		s.broadcaster.ToUser(ownerID, realtime.NotificationEvent{Event: realtime.EventNewNotification})
	})
}

// Followed notifies the target of a new follower. Self-follows never reach
// here; the handler rejects them before writing the edge.
func (s *Service) Followed(actorID, targetID string) {
	s.spawn("follow", func(ctx context.Context) {
		notification := &models.Notification{
			Kind:        models.NotificationFollow,
			RecipientID: targetID,
			ActorID:     actorID,
		}
		if err := s.notifRepo.CreateNotification(notification); err != nil {
			s.logger.Warn("follow notification failed", zap.String("target_id", targetID), zap.Error(err))
			return
		}
		s.broadcaster.ToUser(targetID, realtime.NotificationEvent{Event: realtime.EventNewNotification})
	})
}

// Unfollowed retracts the follow notification. Callers only invoke it when an
// edge was actually deleted.
func (s *Service) Unfollowed(actorID, targetID string) {
	s.spawn("unfollow", func(ctx context.Context) {
		if err := s.notifRepo.DeleteMatching(models.NotificationFollow, actorID, targetID, nil); err != nil {
			s.logger.Warn("follow notification retraction failed", zap.String("target_id", targetID), zap.Error(err))
		}
	})
}
