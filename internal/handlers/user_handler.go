package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chirper-app/backend/internal/apperror"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/chirper-app/backend/pkg/storage"
	"github.com/chirper-app/backend/pkg/util"
)

const maxAvatarBytes = 5 << 20

// UserHandler handles HTTP requests related to users and profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	tweetRepository  repositories.TweetRepository
	followRepository repositories.FollowRepository
	media            storage.MediaStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	tweetRepo repositories.TweetRepository,
	followRepo repositories.FollowRepository,
	media storage.MediaStore,
) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		tweetRepository:  tweetRepo,
		followRepository: followRepo,
		media:            media,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.DELETE("/profile", h.DeleteAccount)
	g.PUT("/profile/avatar", h.UpdateAvatar)
	g.DELETE("/profile/avatar", h.DeleteAvatar)
	g.GET("/profile/:id", h.GetProfile)
	g.GET("/search", h.SearchUsers)
}

// GetOwnProfile retrieves the authenticated user's account
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(getUserIDFromContext(c))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("user not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

// GetProfile aggregates a public profile: the user, their tweets newest
// first, follower/following counts, and the viewer's follow-state.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Param("id")
	viewerID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("user not found")
	}
	if err != nil {
		return err
	}

	tweets, err := h.tweetRepository.GetTweetsByAuthor(userID)
	if err != nil {
		return err
	}
	followers, err := h.followRepository.GetFollowerCount(userID)
	if err != nil {
		return err
	}
	following, err := h.followRepository.GetFollowingCount(userID)
	if err != nil {
		return err
	}
	isFollowing := false
	if viewerID != userID {
		isFollowing, err = h.followRepository.IsFollowing(viewerID, userID)
		if err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"data": models.Profile{
		User:           *user,
		Tweets:         tweets,
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}})
}

// UpdateProfile updates the viewer's name and/or username. A taken username
// surfaces as a conflict from the unique index.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(getUserIDFromContext(c))
	if err != nil {
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Username != "" {
		user.Username = util.Slugify(req.Username)
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflictf("username is already in use")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

// DeleteAccount removes the viewer's account. Tweets, follow edges, likes and
// notifications cascade in the store.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	if err := h.userRepository.DeleteUser(getUserIDFromContext(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchUsers matches other users by username
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return apperror.Validationf("q:search query is required")
	}

	users, err := h.userRepository.SearchUsers(getUserIDFromContext(c), query)
	if err != nil {
		return err
	}

	results := make([]models.UserCompact, len(users))
	for i := range users {
		results[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"data": results})
}

// UpdateAvatar uploads a new avatar to the media store and records the
// returned public URL.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	userID := getUserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperror.Validationf("file:avatar file is required")
	}
	if fileHeader.Size > maxAvatarBytes {
		return apperror.Validationf("file:avatar exceeds the 5MB limit")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	url, err := h.media.Upload(c.Request().Context(), "avatars/"+userID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Avatar = &url
	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

// DeleteAvatar removes the avatar from the media store and clears the URL
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return err
	}

	if user.Avatar != nil {
		if err := h.media.Delete(c.Request().Context(), "avatars/"+userID); err != nil {
			return err
		}
		user.Avatar = nil
		if err := h.userRepository.UpdateUser(user); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}
