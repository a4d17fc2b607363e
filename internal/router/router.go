package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chirper-app/backend/internal/cache"
	"github.com/chirper-app/backend/internal/fanout"
	"github.com/chirper-app/backend/internal/handlers"
	"github.com/chirper-app/backend/internal/middleware"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/realtime"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/chirper-app/backend/pkg/storage"
)

// Deps carries the process-wide handles created at startup; every component
// receives them by injection, torn down together at shutdown.
type Deps struct {
	Postgres     *gorm.DB
	Redis        *redis.Client
	FirebaseAuth *auth.Client
	Media        storage.MediaStore
	Logger       *zap.Logger
	JWTSecret    string
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the fan-out service so main can drain it at shutdown.
func SetupRoutes(e *echo.Echo, deps Deps) (*fanout.Service, error) {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Tweet{},
		&models.Follow{},
		&models.Like{},
		&models.Notification{},
	)
	if err != nil {
		return nil, err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories and shared services ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	tweetRepo := repositories.NewPostgresTweetRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	feedRepo := repositories.NewPostgresFeedRepository(deps.Postgres)

	counters := cache.NewCounterCache(deps.Redis)
	hub := realtime.NewHub(deps.Logger)
	fanoutSvc := fanout.NewService(notificationRepo, counters, hub, deps.Logger)

	// --- Real-time endpoint (token-authenticated on upgrade) ---
	wsHandler := realtime.NewHandler(hub, counters, tweetRepo, likeRepo, deps.JWTSecret, deps.Logger)
	wsHandler.RegisterRoutes(e)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, hub, deps.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require a session JWT) ---
	api := e.Group("/api/v1")
	api.Use(middleware.SessionAuthMiddleware(deps.JWTSecret))

	authHandler.RegisterSessionRoutes(api.Group("/auth"))

	userHandler := handlers.NewUserHandler(userRepo, tweetRepo, followRepo, deps.Media)
	userHandler.RegisterProfileRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedRepo)
	feedHandler.RegisterFeedRoutes(api)

	tweetHandler := handlers.NewTweetHandler(tweetRepo, likeRepo, fanoutSvc)
	tweetHandler.RegisterTweetRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, tweetRepo, fanoutSvc)
	likeHandler.RegisterLikeRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, fanoutSvc)
	followHandler.RegisterFollowRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	deps.Logger.Info("all routes configured")
	return fanoutSvc, nil
}
