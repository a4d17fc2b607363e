package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chirper-app/backend/internal/apperror"
	"github.com/chirper-app/backend/internal/fanout"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository  repositories.LikeRepository
	tweetRepository repositories.TweetRepository
	fanout          *fanout.Service
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, tweetRepo repositories.TweetRepository, fanoutSvc *fanout.Service) *LikeHandler {
	return &LikeHandler{
		likeRepository:  likeRepo,
		tweetRepository: tweetRepo,
		fanout:          fanoutSvc,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/tweets/:id/like", h.LikeTweet)
	g.DELETE("/tweets/:id/like", h.UnlikeTweet)
}

// LikeTweet likes a tweet. Concurrent duplicate likes lose to the
// (user, tweet) unique constraint and surface as a conflict.
func (h *LikeHandler) LikeTweet(c echo.Context) error {
	userID := getUserIDFromContext(c)
	tweetID := c.Param("id")

	tweet, err := h.tweetRepository.GetTweetByID(tweetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("tweet not found")
	}
	if err != nil {
		return err
	}

	like := &models.Like{UserID: userID, TweetID: tweetID}
	if err := h.likeRepository.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflictf("tweet already liked")
		}
		return err
	}

	h.fanout.TweetLiked(userID, tweet)

	return c.JSON(http.StatusCreated, like)
}

// UnlikeTweet removes the viewer's like. Unliking a tweet never liked is a
// successful no-op: nothing to decrement, no notification to retract.
func (h *LikeHandler) UnlikeTweet(c echo.Context) error {
	userID := getUserIDFromContext(c)
	tweetID := c.Param("id")

	tweet, err := h.tweetRepository.GetTweetByID(tweetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("tweet not found")
	}
	if err != nil {
		return err
	}

	deleted, err := h.likeRepository.DeleteLike(userID, tweetID)
	if err != nil {
		return err
	}
	if deleted {
		h.fanout.TweetUnliked(userID, tweet)
	}

	return c.NoContent(http.StatusNoContent)
}
