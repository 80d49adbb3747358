package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/router"
	"github.com/ripple-social/backend/pkg/config"
	"github.com/ripple-social/backend/pkg/firebase"
	"github.com/ripple-social/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Cloud Storage for image uploads. Optional: without
	// credentials the API runs with uploads disabled.
	var storage *firebase.Storage
	if cfg.FirebaseCredentialsPath != "" {
		ctx := context.Background()
		storage, err = firebase.InitStorage(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase storage: %v", err)
		}
	} else {
		log.Println("Firebase credentials not configured, image uploads disabled.")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, storage)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
