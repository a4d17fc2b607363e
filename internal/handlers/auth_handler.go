package handlers

import (
	"errors"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chirper-app/backend/internal/middleware"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/realtime"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/chirper-app/backend/pkg/util"
)

// AuthHandler exchanges a verified Firebase identity for a local session JWT
// and tears sessions down at logout.
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	hub            *realtime.Hub
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client, hub *realtime.Hub, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		hub:            hub,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers the login exchange, guarded by Firebase ID
// token verification.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/firebase-login", h.FirebaseLogin, middleware.FirebaseAuthMiddleware(h.firebaseAuth))
}

// RegisterSessionRoutes registers routes needing an authenticated session
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/logout", h.Logout)
}

// FirebaseLogin exchanges a verified Firebase ID token for a session JWT,
// creating the local account on first login (username derived from the
// display name plus a random suffix).
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	token, ok := c.Get("firebaseToken").(*auth.Token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing verified ID token")
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ID token has no email claim")
	}
	name, _ := token.Claims["name"].(string)
	if name == "" {
		name = email
	}

	user, err := h.userRepository.GetUserByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = h.createUser(email, name, token)
	}
	if err != nil {
		return err
	}

	sessionToken, err := h.generateSessionJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": sessionToken, "user": user})
}

func (h *AuthHandler) createUser(email, name string, token *auth.Token) (*models.User, error) {
	var avatar *string
	if picture, _ := token.Claims["picture"].(string); picture != "" {
		avatar = &picture
	}

	// The random suffix makes collisions unlikely; retry a couple of times in
	// case two signups slug to the same username anyway.
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		user := &models.User{
			Email:    email,
			Name:     name,
			Username: util.UsernameFromName(name),
			Avatar:   avatar,
		}
		lastErr = h.userRepository.CreateUser(user)
		if lastErr == nil {
			return user, nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (h *AuthHandler) generateSessionJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:    user.ID,
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// Logout force-disconnects every websocket of this session before
// acknowledging, so no push can outlive the logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)
	if sessionID != "" {
		h.hub.DisconnectSession(sessionID)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": nil})
}
