package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/mommatch/mommatch-backend/internal/common/database"
	"github.com/mommatch/mommatch-backend/internal/config"
)

// loadConfig reads the dotenv file (if any) and then the environment
func loadConfig(opts *rootOptions) (*config.Config, error) {
	log.Println("📁 Loading .env file...")
	if err := godotenv.Load(opts.EnvFile); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// openDatabase connects with the configured driver and applies pending migrations
func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	log.Printf("🗄️  Connecting to %s...", cfg.DatabaseDriver)
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.SQLitePath, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Connected to %s successfully", cfg.DatabaseDriver)

	log.Println("🔨 Running database migrations...")
	applied, err := database.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("✅ Database migrations completed (%d applied)", applied)
	return db, nil
}
