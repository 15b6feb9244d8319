package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/mommatch/mommatch-backend/internal/auth"
	"github.com/mommatch/mommatch-backend/internal/common/database"
	"github.com/mommatch/mommatch-backend/internal/matching"
	"github.com/mommatch/mommatch-backend/internal/messaging"
	"github.com/mommatch/mommatch-backend/internal/profile"
)

const statsInterval = time.Minute

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	log.Println("========================================")
	log.Println("🚀 Starting MomMatch API")
	log.Println("========================================")

	// 1. Configuration
	log.Println("📋 Step 1: Loading configuration...")
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log.Println("✅ Configuration is valid")

	// 2. Database
	log.Println("🗄️  Step 2: Preparing database...")
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// 3. Redis (optional)
	log.Println("📮 Step 3: Connecting to Redis...")
	var revoked auth.RevocationStore
	if cfg.RedisURL != "" {
		var redisClient *redis.Client
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), logout will not revoke sessions", err)
		} else {
			defer redisClient.Close()
			revoked = auth.NewRedisRevocationStore(redisClient)
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, logout will not revoke sessions")
	}

	// 4. Services
	log.Println("🔐 Step 4: Initializing services...")
	authService := auth.NewService(auth.NewRepository(db), revoked, &auth.Config{
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
	})
	authMiddleware := auth.NewMiddleware(authService, cfg.SessionCookieName)

	profileRepo := profile.NewRepository(db)
	profileService := profile.NewService(profileRepo, cfg.BCryptCost)

	hub := messaging.NewHub(cfg.WebSocketOrigins())
	go hub.Run()
	log.Println("   ✅ WebSocket hub started")

	conversationRepo := messaging.NewRepository(db)
	messagingService := messaging.NewService(conversationRepo, profileRepo, db)

	interestRepo := matching.NewRepository(db)
	matchingService := matching.NewService(db, interestRepo, profileRepo, conversationRepo, hub)

	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	matching.NewScheduler(matching.NewStatsCollector(interestRepo), statsInterval).Start(jobsCtx)
	log.Println("   ✅ Match stats collector started")
	log.Println("✅ Services initialized")

	// 5. Routes
	log.Println("🛣️  Step 5: Setting up routes...")
	handler := newServer(serverDeps{
		Auth:           auth.NewHandler(authService, auth.CookieConfig{Name: cfg.SessionCookieName, Secure: cfg.SessionCookieSecure}),
		AuthMiddleware: authMiddleware,
		Profile:        profile.NewHandler(profileService),
		Matching:       matching.NewHandler(matchingService),
		Messaging:      messaging.NewHandler(messagingService),
		Hub:            hub,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		EnableMetrics:  cfg.EnableMetrics,
	})
	log.Println("✅ Routes registered")

	// 6. HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Println("========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		hub.Shutdown()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	case <-ctx.Done():
	}

	log.Println("⚠️  Shutdown signal received...")
	stopJobs()

	log.Println("   - Shutting down messaging hub...")
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("✅ Server exited gracefully")
	return nil
}
