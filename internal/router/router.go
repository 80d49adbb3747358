package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/ripple-social/backend/internal/handlers"
	"github.com/ripple-social/backend/internal/middleware"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
	"github.com/ripple-social/backend/pkg/firebase"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, storage *firebase.Storage) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewMongoNotificationRepository(mgClient.Database("ripple"))

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo)
	userHandler := handlers.NewUserHandler(userRepo, followRepo, postRepo, storage)
	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo, commentRepo, storage)
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, followRepo, likeRepo, commentRepo)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationRepo)
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notificationRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	uploadHandler := handlers.NewUploadHandler(storage)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public reads (personalize when a token is present) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware())
	userHandler.RegisterUserRoutes(public)
	postHandler.RegisterPublicPostRoutes(public)
	likeHandler.RegisterPublicLikeRoutes(public)
	commentHandler.RegisterPublicCommentRoutes(public)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	userHandler.RegisterProfileRoutes(api)
	postHandler.RegisterPostRoutes(api)
	feedHandler.RegisterFeedRoutes(api)
	followHandler.RegisterFollowRoutes(api)
	commentHandler.RegisterCommentRoutes(api)
	likeHandler.RegisterLikeRoutes(api)
	notificationHandler.RegisterNotificationRoutes(api)
	uploadHandler.RegisterUploadRoutes(api)
	log.Println("Protected routes configured.")

	log.Println("All routes configured.")
}
