package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"annuaire/internal/config"
	"annuaire/internal/db"
	"annuaire/internal/email"
	"annuaire/internal/handlers"
	"annuaire/internal/metrics"
	"annuaire/internal/moderation"
	"annuaire/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	tax, err := config.LoadTaxonomy()
	if err != nil {
		log.Fatalf("Failed to load taxonomy: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Seed sample listings in development
	if cfg.IsDev() {
		if err := database.SeedDevDentists(ctx); err != nil {
			log.Printf("Warning: failed to seed dev listings: %v", err)
		}
	}

	// Metrics collector and view recorder
	metrics.Init(database)

	// Email notifications
	notifier := email.NewNotifier(cfg)
	handlers.SetNotifier(notifier)

	// Moderation engine
	engine := moderation.New(database, notifier)

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, tax, engine); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
