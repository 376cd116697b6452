package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/cache"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/client"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/config"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/db"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/http"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/repository"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/service"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/session"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/storage"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/wizard"
)

func main() {
	log.Println("Starting RTA Library service...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	database, err := db.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Initialize session cache
	profileCache, err := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize proof storage
	proofStore, err := storage.NewProofStore(ctx, storage.Config{
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		EndpointURL:     cfg.S3.EndpointURL,
		Bucket:          cfg.S3.Bucket,
		PublicBaseURL:   cfg.S3.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize proof storage: %v", err)
	}

	// Initialize clients
	telegramClient := client.NewTelegramClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken)

	// Initialize repositories
	subscriptionRepo := repository.NewSubscriptionRepository(database.Pool)

	// Initialize wizard store with background eviction
	wizardStore := wizard.NewStore(cfg.Wizard.TTL)
	wizardStore.StartEviction(ctx, cfg.Wizard.EvictionInterval)

	// Initialize services
	resolver := session.NewResolver(subscriptionRepo, profileCache)
	signupService := service.NewSignupService(wizardStore, proofStore, subscriptionRepo, profileCache)

	// Background status refresh for cached sessions
	poller := session.NewStatusPoller(resolver, cfg.Session.PollInterval)
	go poller.Run(ctx)

	// Initialize HTTP server
	server := http.NewServer(cfg, signupService, resolver, subscriptionRepo, telegramClient)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := server.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	log.Println("Server exited")
}
