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

// FollowHandler handles follow/unfollow HTTP requests and follow
// recommendations
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	fanout           *fanout.Service
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, fanoutSvc *fanout.Service) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		fanout:           fanoutSvc,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/profile/:id/follow", h.FollowUser)
	g.DELETE("/profile/:id/follow", h.UnfollowUser)
	g.GET("/recommendations", h.GetRecommendations)
}

// FollowUser follows a user. Self-follows are rejected before any row is
// written.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID := c.Param("id")

	if targetID == userID {
		return apperror.SelfReferencef("cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFoundf("user not found")
		}
		return err
	}

	follow := &models.Follow{FollowerID: userID, FolloweeID: targetID}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflictf("already following this user")
		}
		return err
	}

	h.fanout.Followed(userID, targetID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user. Self-unfollows are rejected identically, and
// unfollowing someone never followed is a successful no-op.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID := c.Param("id")

	if targetID == userID {
		return apperror.SelfReferencef("cannot unfollow yourself")
	}

	deleted, err := h.followRepository.DeleteFollow(userID, targetID)
	if err != nil {
		return err
	}
	if deleted {
		h.fanout.Unfollowed(userID, targetID)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetRecommendations suggests up to 4 accounts to follow via friend-of-friend
// traversal, never including the viewer or anyone already followed.
func (h *FollowHandler) GetRecommendations(c echo.Context) error {
	userID := getUserIDFromContext(c)

	users, err := h.followRepository.GetRecommendations(userID, 4)
	if err != nil {
		return err
	}

	recommendations := make([]models.UserCompact, len(users))
	for i := range users {
		recommendations[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"data": recommendations})
}
