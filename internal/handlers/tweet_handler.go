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

// TweetHandler handles HTTP requests related to tweets and their replies
type TweetHandler struct {
	tweetRepository repositories.TweetRepository
	likeRepository  repositories.LikeRepository
	fanout          *fanout.Service
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(tweetRepo repositories.TweetRepository, likeRepo repositories.LikeRepository, fanoutSvc *fanout.Service) *TweetHandler {
	return &TweetHandler{
		tweetRepository: tweetRepo,
		likeRepository:  likeRepo,
		fanout:          fanoutSvc,
	}
}

// RegisterTweetRoutes registers tweet-related routes
func (h *TweetHandler) RegisterTweetRoutes(g *echo.Group) {
	g.POST("/tweets", h.CreateTweet)
	g.GET("/tweets/:id", h.GetTweet)
	g.GET("/tweets/:id/comments", h.GetComments)
	g.DELETE("/tweets/:id", h.DeleteTweet)
}

// CreateTweet creates a top-level tweet or, when parent_tweet_id is set, a
// reply. The row commits first; counter/notification/broadcast effects run
// as fire-and-forget fan-out.
func (h *TweetHandler) CreateTweet(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateTweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var parent *models.Tweet
	if req.ParentTweetID != nil {
		var err error
		parent, err = h.tweetRepository.GetTweetByID(*req.ParentTweetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("parent tweet not found")
		}
		if err != nil {
			return err
		}
	}

	tweet := &models.Tweet{
		Content:       req.Content,
		MediaURL:      req.MediaURL,
		MediaType:     req.MediaType,
		AuthorID:      userID,
		ParentTweetID: req.ParentTweetID,
	}
	if err := h.tweetRepository.CreateTweet(tweet); err != nil {
		return err
	}

	if parent != nil {
		h.fanout.ReplyCreated(userID, parent)
	} else {
		h.fanout.TweetCreated(tweet.ID)
	}

	return c.JSON(http.StatusCreated, tweet)
}

// GetTweet retrieves a single tweet with its author and the viewer's
// like-state
func (h *TweetHandler) GetTweet(c echo.Context) error {
	tweet, err := h.tweetRepository.GetTweetByID(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("tweet not found")
	}
	if err != nil {
		return err
	}

	isLiked, err := h.likeRepository.HasUserLikedTweet(getUserIDFromContext(c), tweet.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": tweet, "is_liked": isLiked})
}

// GetComments retrieves the replies to a tweet, newest first
func (h *TweetHandler) GetComments(c echo.Context) error {
	tweetID := c.Param("id")

	if _, err := h.tweetRepository.GetTweetByID(tweetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("tweet not found")
		}
		return err
	}

	comments, err := h.tweetRepository.GetComments(tweetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": comments})
}

// DeleteTweet deletes one of the viewer's own tweets; replies, likes and
// notifications cascade in the store and the counter entry is dropped
// best-effort.
func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	userID := getUserIDFromContext(c)
	tweetID := c.Param("id")

	deleted, err := h.tweetRepository.DeleteTweet(tweetID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFoundf("tweet not found")
	}

	h.fanout.TweetDeleted(tweetID)

	return c.NoContent(http.StatusNoContent)
}
