package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/config"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/constants"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/handlers"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/leaderboard"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/repository"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/session"
	ws "github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/websocket"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/pkg/cache"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/pkg/database"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/pkg/messaging"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/pkg/storage"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded")

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Printf("Warning: Failed to initialize PostgreSQL schema: %v", err)
	} else {
		log.Println("PostgreSQL schema initialized")
	}
	cancel()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		redisClient = nil
	} else {
		log.Println("Connected to Redis")
		defer redisClient.Close()
	}

	mqClient, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
	if err != nil {
		log.Printf("Warning: Failed to connect to RabbitMQ: %v", err)
		mqClient = nil
	} else {
		log.Println("Connected to RabbitMQ")
		defer mqClient.Close()
	}

	s3Client, err := storage.NewS3Client(&cfg.S3)
	if err != nil {
		log.Printf("Warning: Failed to create S3 client: %v", err)
		s3Client = nil
	} else {
		s3Ctx, s3Cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Client.CreateBucket(s3Ctx, cfg.S3.Bucket); err != nil {
			log.Printf("Warning: Failed to ensure avatar bucket: %v", err)
		}
		s3Cancel()
		log.Println("S3 client ready")
	}

	testRepo := repository.NewTestRepository(pgClient.GetDB())
	attemptRepo := repository.NewAttemptRepository(pgClient.GetDB())
	userRepo := repository.NewUserRepository(pgClient.GetDB())

	var publisher session.Publisher
	if mqClient != nil {
		publisher = mqClient
	}
	engine := session.NewEngine(attemptRepo, publisher, session.NewTickerScheduler())

	hub := ws.NewHub()
	go hub.Run()
	log.Println("Leaderboard hub started")

	var avatars leaderboard.AvatarResolver
	if s3Client != nil {
		avatars = s3Client
	}
	lbService := leaderboard.NewService(
		attemptRepo,
		userRepo,
		testRepo,
		avatars,
		redisClient,
		hub,
		cfg.Portal.LeaderboardSize,
	)

	if mqClient != nil {
		deliveries, err := mqClient.Consume(constants.QueueAttemptRecorded)
		if err != nil {
			log.Printf("Warning: Failed to consume %s: %v", constants.QueueAttemptRecorded, err)
		} else {
			go lbService.RunConsumer(deliveries)
			log.Println("Leaderboard consumer started")
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "assessment-portal",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		if pgClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
		})
	})

	sessionHandler := handlers.NewSessionHandler(engine, testRepo)
	leaderboardHandler := handlers.NewLeaderboardHandler(lbService)
	wsHandler := handlers.NewWebSocketHandler(hub, lbService)

	var avatarStore handlers.AvatarStore
	if s3Client != nil {
		avatarStore = s3Client
	}
	profileHandler := handlers.NewProfileHandler(userRepo, avatarStore, lbService)

	api := router.Group("/api")
	{
		api.GET("/tests", sessionHandler.ListTests)
		api.POST("/tests/:id/session", sessionHandler.StartSession)
		api.GET("/session", sessionHandler.GetSession)
		api.POST("/session/answer", sessionHandler.SelectAnswer)
		api.POST("/session/advance", sessionHandler.Advance)
		api.DELETE("/session", sessionHandler.DiscardSession)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/profile", profileHandler.GetProfile)
		api.PUT("/profile", profileHandler.UpdateProfile)
		api.POST("/profile/avatar", profileHandler.UploadAvatar)
		api.DELETE("/profile/avatar", profileHandler.DeleteAvatar)
	}
	router.GET("/ws/leaderboard", wsHandler.HandleLeaderboardFeed)

	httpAddr := ":" + cfg.Server.HTTPPort
	log.Printf("Assessment portal starting on port %s...", cfg.Server.HTTPPort)

	go func() {
		if err := router.Run(httpAddr); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Assessment portal stopped")
}
