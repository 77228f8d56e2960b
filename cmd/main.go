package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/challengeer/challenge-service/internal/command"
	"github.com/challengeer/challenge-service/internal/config"
	"github.com/challengeer/challenge-service/internal/events"
	"github.com/challengeer/challenge-service/internal/googleauth"
	"github.com/challengeer/challenge-service/internal/handler"
	"github.com/challengeer/challenge-service/internal/middleware"
	"github.com/challengeer/challenge-service/internal/notify"
	"github.com/challengeer/challenge-service/internal/query"
	redisclient "github.com/challengeer/challenge-service/internal/redis"
	"github.com/challengeer/challenge-service/internal/repository"
	"github.com/challengeer/challenge-service/internal/storage"
	"github.com/challengeer/challenge-service/internal/token"
	"github.com/challengeer/challenge-service/internal/worker"
)

func main() {
	cfg := config.Load()
	token.MustInitSecret()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection (write store)
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis connection (read model store + event streaming)
	redis, err := redisclient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Media storage
	uploader, err := storage.NewUploader(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize S3 uploader: %v", err)
	}

	// Push notifications; fall back to a logging sender when Firebase is not
	// configured so local setups work without credentials.
	var pushSender notify.PushSender = notify.LogSender{}
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := notify.NewFCMSender(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize FCM: %v", err)
		}
		pushSender = fcm
	} else {
		log.Println("FIREBASE_CREDENTIALS_FILE not set, push notifications run in dry-run mode")
	}

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client)

	userWriteRepo := repository.NewUserWriteRepository(db)
	userReadRepo := repository.NewUserReadRepository(db, redis.Client)
	friendRepo := repository.NewFriendRepository(db)
	contactRepo := repository.NewContactRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	googleVerifier := googleauth.NewAPIVerifier(cfg.GoogleClientID)

	authCmd := command.NewAuthCommandService(userWriteRepo, userReadRepo, googleVerifier)
	userCmd := command.NewUserCommandService(userWriteRepo, userReadRepo, uploader)
	friendCmd := command.NewFriendCommandService(friendRepo, userWriteRepo, publisher)
	contactCmd := command.NewContactCommandService(contactRepo)
	verificationCmd := command.NewVerificationCommandService(verificationRepo, userWriteRepo)
	deviceCmd := command.NewDeviceCommandService(deviceRepo)
	challengeCmd := command.NewChallengeCommandService(challengeRepo, submissionRepo, userWriteRepo, uploader, publisher)

	authQry := query.NewAuthQueryService(userWriteRepo)
	userQry := query.NewUserQueryService(userReadRepo, userWriteRepo)
	friendQry := query.NewFriendQueryService(friendRepo)
	contactQry := query.NewContactQueryService(contactRepo)
	challengeQry := query.NewChallengeQueryService(challengeRepo, submissionRepo, userReadRepo)

	authHandler := handler.NewAuthHandler(authCmd, authQry)
	userHandler := handler.NewUserHandler(userCmd, userQry)
	friendHandler := handler.NewFriendHandler(friendCmd, friendQry)
	contactHandler := handler.NewContactHandler(contactCmd, contactQry)
	verificationHandler := handler.NewVerificationHandler(verificationCmd)
	deviceHandler := handler.NewDeviceHandler(deviceCmd)
	challengeHandler := handler.NewChallengeHandler(challengeCmd, challengeQry)

	// Setup router
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/refresh", authHandler.Refresh)
	}

	verification := router.Group("/v1/verification")
	{
		verification.POST("/send", verificationHandler.SendCode)
		verification.POST("/verify", verificationHandler.VerifyCode)
	}

	users := router.Group("/v1/users", middleware.AuthMiddleware())
	{
		users.GET("/me", userHandler.GetMe)
		users.PATCH("/me", userHandler.UpdateProfile)
		users.POST("/me/avatar", userHandler.UploadAvatar)
		users.GET("/search", userHandler.SearchUsers)
		users.GET("/check-username", userHandler.CheckUsername)
		users.GET("/:userId", userHandler.GetUser)
	}

	friends := router.Group("/v1/friends", middleware.AuthMiddleware())
	{
		friends.GET("", friendHandler.ListFriends)
		friends.GET("/requests", friendHandler.ListRequests)
		friends.POST("/requests", friendHandler.SendRequest)
		friends.POST("/requests/:requestId/accept", friendHandler.AcceptRequest)
		friends.POST("/requests/:requestId/reject", friendHandler.RejectRequest)
	}

	contacts := router.Group("/v1/contacts", middleware.AuthMiddleware())
	{
		contacts.PUT("", contactHandler.SyncContacts)
		contacts.GET("/recommendations", contactHandler.Recommendations)
	}

	devices := router.Group("/v1/devices", middleware.AuthMiddleware())
	{
		devices.POST("", deviceHandler.RegisterDevice)
		devices.DELETE("/:deviceId", deviceHandler.RemoveDevice)
	}

	challenges := router.Group("/v1/challenges", middleware.AuthMiddleware())
	{
		challenges.POST("", challengeHandler.CreateChallenge)
		challenges.GET("", challengeHandler.ListChallenges)
		challenges.GET("/:challengeId", challengeHandler.GetChallenge)
		challenges.PATCH("/:challengeId", challengeHandler.UpdateChallenge)
		challenges.DELETE("/:challengeId", challengeHandler.DeleteChallenge)
		challenges.POST("/:challengeId/invitations", challengeHandler.Invite)
		challenges.POST("/:challengeId/submissions", challengeHandler.SubmitPhoto)
		challenges.GET("/:challengeId/submissions", challengeHandler.ListSubmissions)
		challenges.GET("/:challengeId/submissions/new", challengeHandler.HasNewSubmissions)
	}

	invitations := router.Group("/v1/invitations", middleware.AuthMiddleware())
	{
		invitations.POST("/:invitationId/accept", challengeHandler.AcceptInvitation)
		invitations.POST("/:invitationId/decline", challengeHandler.DeclineInvitation)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Start event subscribers feeding the push notifier
	notifier := notify.NewNotifier(deviceRepo, pushSender)

	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "challenge-service-group",
			Consumer: "social-consumer-1",
			Stream:   events.SocialEventsStream,
			Handler:  notifier.HandleSocialEvent,
		})
		if err := subscriber.Start(ctx); err != nil {
			log.Printf("Social subscriber stopped: %v", err)
		}
	}()

	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "challenge-service-group",
			Consumer: "challenge-consumer-1",
			Stream:   events.ChallengeEventsStream,
			Handler:  notifier.HandleChallengeEvent,
		})
		if err := subscriber.Start(ctx); err != nil {
			log.Printf("Challenge subscriber stopped: %v", err)
		}
	}()

	// Background sweeper: completes expired challenges, sends reminders
	sweeper := worker.NewChallengeSweeper(challengeRepo, publisher)
	go sweeper.Run(ctx)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	log.Printf("Challenge service starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
