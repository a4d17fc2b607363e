package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirper-app/backend/internal/apperror"
	"github.com/chirper-app/backend/internal/router"
	"github.com/chirper-app/backend/pkg/config"
	"github.com/chirper-app/backend/pkg/firebase"
	"github.com/chirper-app/backend/pkg/storage"
	"github.com/chirper-app/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize the media store
	media, err := storage.NewS3MediaStore(cfg.AWSRegion, cfg.MediaBucket, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator and error mapping
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(logger)

	// Setup routes and dependencies
	fanoutSvc, err := router.SetupRoutes(e, router.Deps{
		Postgres:     db.Postgres,
		Redis:        db.Redis,
		FirebaseAuth: firebaseApp.AuthClient,
		Media:        media,
		Logger:       logger,
		JWTSecret:    cfg.JWTSecret,
	})
	if err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}
	defer fanoutSvc.Wait() // Drain in-flight fan-out tasks before exiting

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
