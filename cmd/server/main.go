package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Language_Exchange/internal/chat"
	"github.com/Dias221467/Language_Exchange/internal/config"
	"github.com/Dias221467/Language_Exchange/internal/database"
	"github.com/Dias221467/Language_Exchange/internal/handlers"
	"github.com/Dias221467/Language_Exchange/internal/jobs"
	"github.com/Dias221467/Language_Exchange/internal/repository"
	"github.com/Dias221467/Language_Exchange/internal/scheduler"
	"github.com/Dias221467/Language_Exchange/internal/services"
	"github.com/Dias221467/Language_Exchange/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	// Load configuration from .env file and the environment
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		logger.Log.Fatalf("Failed to create indexes: %v", err)
	}

	// Optional Redis for the auth rate limiter
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Log.Warnf("Redis unreachable, rate limiting will fail open: %v", err)
		}
	} else {
		logger.Log.Warn("REDIS_URL not set, auth rate limiting disabled")
	}

	bridge, err := chat.NewBridge(cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		logger.Log.Fatalf("Chat provider error: %v", err)
	}
	syncer := chat.NewSyncer(bridge, 0)

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db, cfg.MongoTransactions)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo, syncer, cfg.JWTSecret, cfg.TokenExpiry)
	userService := services.NewUserService(userRepo)
	friendService := services.NewFriendService(friendRepo, userRepo, notificationService)

	// --- Handlers ---
	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(authService, cfg.IsProduction()),
		Users:          handlers.NewUserHandler(userService),
		Friends:        handlers.NewFriendHandler(friendService),
		Notifications:  handlers.NewNotificationHandler(notificationService),
		JWTSecret:      cfg.JWTSecret,
		Lookup:         userRepo,
		Redis:          rdb,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateWindow: cfg.AuthRateWindow,
		TrustProxy:     cfg.TrustProxy,
		HealthCheck: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	})

	// --- Background jobs ---
	reconciler := jobs.NewFriendshipReconciler(friendRepo, userRepo)
	crons, err := scheduler.Start(cfg.ReconcileSchedule, reconciler, notificationService)
	if err != nil {
		logger.Log.Fatalf("Invalid RECONCILE_SCHEDULE %q: %v", cfg.ReconcileSchedule, err)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Log.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("HTTP shutdown: %v", err)
	}
	<-crons.Stop().Done()
	syncer.Wait()
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := db.Client().Disconnect(ctx); err != nil {
		logger.Log.Errorf("MongoDB disconnect: %v", err)
	}
}
