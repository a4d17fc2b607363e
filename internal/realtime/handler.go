package realtime

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirper-app/backend/internal/cache"
	"github.com/chirper-app/backend/internal/middleware"
	"github.com/chirper-app/backend/internal/repositories"
)

// Handler upgrades authenticated clients onto the hub and serves counter
// snapshots on subscribe.
type Handler struct {
	hub       *Hub
	counters  *cache.CounterCache
	tweetRepo repositories.TweetRepository
	likeRepo  repositories.LikeRepository
	jwtSecret string
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

func NewHandler(
	hub *Hub,
	counters *cache.CounterCache,
	tweetRepo repositories.TweetRepository,
	likeRepo repositories.LikeRepository,
	jwtSecret string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		hub:       hub,
		counters:  counters,
		tweetRepo: tweetRepo,
		likeRepo:  likeRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS middleware upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the websocket endpoint
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve authenticates the session token and runs the connection. The token is
// read from the access_token query parameter because browsers cannot set
// headers on websocket dials.
func (h *Handler) Serve(c echo.Context) error {
	token := c.QueryParam("access_token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing access token")
	}

	claims, err := middleware.ParseSessionToken(token, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(h.hub, conn, claims.UserID, claims.SessionID)
	h.hub.join(UserRoom(claims.UserID), client)
	h.hub.join(SessionRoom(claims.SessionID), client)

	h.logger.Info("websocket connected", zap.String("user_id", claims.UserID))

	go client.writePump()
	client.readPump(h.snapshot, h.logger)

	return nil
}

// snapshot serves the subscribe reply. A missing cache entry is rebuilt from
// the relational rows, so counters survive a cache wipe.
func (h *Handler) snapshot(ctx context.Context, tweetID string) (cache.TweetCounters, error) {
	counters, ok, err := h.counters.Snapshot(ctx, tweetID)
	if err != nil {
		return cache.TweetCounters{}, err
	}
	if ok {
		return counters, nil
	}

	if _, err := h.tweetRepo.GetTweetByID(tweetID); err != nil {
		return cache.TweetCounters{}, err
	}
	likes, err := h.likeRepo.CountForTweet(tweetID)
	if err != nil {
		return cache.TweetCounters{}, err
	}
	comments, err := h.tweetRepo.CountCommentsForTweet(tweetID)
	if err != nil {
		return cache.TweetCounters{}, err
	}
	if err := h.counters.Rebuild(ctx, tweetID, likes, comments); err != nil {
		h.logger.Warn("counter rebuild failed", zap.String("tweet_id", tweetID), zap.Error(err))
	}
	return cache.TweetCounters{Likes: likes, Comments: comments}, nil
}
