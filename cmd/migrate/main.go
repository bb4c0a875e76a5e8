package main

import (
	"context"
	"os"
	"time"

	"cartaporte-backend/internal/shared/config"
	"cartaporte-backend/internal/shared/storage/db"
	"cartaporte-backend/internal/shared/telemetry"
)

// Applies the embedded migrations and exits. Used by deploy jobs so the API
// process never races another instance on schema changes.
func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		telemetry.Error("DATABASE_URL is required", nil)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("database connect failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		telemetry.Error("migrations failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrations applied", nil)
}
