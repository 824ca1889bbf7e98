package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshua-takyi/foodshare/internal/config"
	"github.com/joshua-takyi/foodshare/internal/connect"
	"github.com/joshua-takyi/foodshare/internal/container"
	"github.com/joshua-takyi/foodshare/internal/database"
	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/routes"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting FoodShare API server", "environment", cfg.Environment)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return err
	}
	logger.Info("Database schema is up to date")

	// Initialize database connections
	db, err := connect.PostgresConnect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Connected to Postgres successfully")

	supaClient, err := connect.InitSupabase(cfg)
	if err != nil {
		return err
	}
	logger.Info("Connected to Supabase successfully")

	clients := container.Clients{DB: db, Supabase: supaClient}

	if cfg.MongoEnabled() {
		mongoClient, err := connect.MongoDBConnect(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := connect.MongoDBDisconnect(mongoClient); err != nil {
				logger.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()
		clients.Mongo = mongoClient
		logger.Info("Connected to MongoDB successfully")
	} else {
		logger.Warn("MONGODB_URI not set, saved resources are disabled")
	}

	if redisClient, err := connect.RedisConnect(ctx, cfg); err != nil {
		logger.Warn("Redis unavailable, presence falls back to local connections", "error", err)
	} else {
		defer redisClient.Close()
		clients.Redis = redisClient
		logger.Info("Connected to Redis successfully")
	}

	if cfg.CloudinaryEnabled() {
		cld, err := connect.CloudinaryCredentials(cfg)
		if err != nil {
			return err
		}
		clients.Cloudinary = cld
	} else {
		logger.Warn("Cloudinary credentials not set, image uploads are disabled")
	}

	verifier, err := helpers.NewTokenVerifier(ctx, cfg.SupabaseURL, cfg.SupabaseJWTSecret, logger)
	if err != nil {
		return err
	}
	defer verifier.Close()

	// Initialize dependency container
	appContainer := container.NewContainer(cfg, logger, clients, verifier)
	defer appContainer.Limiter.Stop()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go appContainer.Hub.Run(hubCtx)

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	stopHub()

	logger.Info("Server exited")
	return nil
}
