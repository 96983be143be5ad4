package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"cartshare/backend/internal/auth"
	"cartshare/backend/internal/config"
	"cartshare/backend/internal/database"
	"cartshare/backend/internal/friendship"
	"cartshare/backend/internal/handler"
	"cartshare/backend/internal/hub"
	"cartshare/backend/internal/logger"
	"cartshare/backend/internal/ratelimit"
	"cartshare/backend/internal/session"

	"github.com/gin-gonic/gin"
)

func init() {
	config.LoadConfig()
}

func main() {
	cfg := config.AppConfig
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Connect to the database
	database.Connect(cfg.DBDriver, cfg.DatabaseURL)

	sessions := session.NewStore(database.DB, cfg.SessionTTL)

	// One-time sweep; afterwards expired sessions are deleted lazily.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sessions.DeleteExpired(ctx); err != nil {
		logger.Warn("failed to sweep expired sessions", "err", err)
	}
	cancel()

	friends := friendship.NewService(database.DB)
	handler.Init(friends, sessions, hub.GlobalHub)

	// Counter store behind the limiter is swappable: Redis when an address
	// is configured, process-local otherwise.
	var counters ratelimit.CounterStore = ratelimit.NewMemoryStore()
	if cfg.RedisAddr != "" {
		counters = ratelimit.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		logger.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
	}
	limiter := ratelimit.New(counters, 120, time.Minute)

	router := gin.Default()

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	apiV1.Use(auth.RateLimitMiddleware(limiter))
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
			authRoutes.POST("/logout", handler.LogoutUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.Middleware(sessions))
		{
			userRoutes.GET("", handler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/:id", handler.GetUserByID)
		}

		// Friendship routes (protected)
		friendRoutes := apiV1.Group("/friends")
		friendRoutes.Use(auth.Middleware(sessions))
		{
			friendRoutes.GET("", handler.ListFriends)
			friendRoutes.POST("", handler.InviteFriend)
			friendRoutes.POST("/:id/accept", handler.AcceptFriend)
			friendRoutes.DELETE("/:id", handler.RemoveFriend)
		}

		// Shopping list routes (protected)
		itemRoutes := apiV1.Group("/items")
		itemRoutes.Use(auth.Middleware(sessions))
		{
			itemRoutes.GET("", handler.ListItems)
			itemRoutes.POST("", handler.CreateItem)
			itemRoutes.POST("/:id/toggle", handler.ToggleItem)
			itemRoutes.DELETE("/:id", handler.DeleteItem)
		}

		// Feed routes (protected)
		feedRoutes := apiV1.Group("/feed")
		feedRoutes.Use(auth.Middleware(sessions))
		{
			feedRoutes.GET("", handler.ListFeed)
			feedRoutes.POST("", handler.CreatePost)
			feedRoutes.POST("/:id/like", handler.ToggleLike)
			feedRoutes.GET("/:id/comments", handler.ListComments)
			feedRoutes.POST("/:id/comments", handler.CreateComment)
		}

		// Goal routes (protected)
		goalRoutes := apiV1.Group("/goals")
		goalRoutes.Use(auth.Middleware(sessions))
		{
			goalRoutes.GET("", handler.ListGoals)
			goalRoutes.POST("", handler.CreateGoal)
			goalRoutes.POST("/:id/publish", handler.PublishGoal)
		}

		// Direct message routes (protected, friends only)
		messageRoutes := apiV1.Group("/messages")
		messageRoutes.Use(auth.Middleware(sessions))
		{
			messageRoutes.GET("/:userID", handler.ListMessages)
			messageRoutes.POST("/:userID", handler.SendMessage)
		}

		// SSE notification stream (protected)
		apiV1.GET("/events", auth.Middleware(sessions), handler.StreamEvents)
	}

	logger.Info("server is running", "addr", cfg.ListenAddr)
	log.Fatal(router.Run(cfg.ListenAddr))
}
