package main

import (
	"context"
	"time"

	"cartaporte-backend/internal/extraction"
	"cartaporte-backend/internal/invoicing/facturama"
	"cartaporte-backend/internal/jobs"
	"cartaporte-backend/internal/llm/openai"
	"cartaporte-backend/internal/shared/config"
	"cartaporte-backend/internal/shared/server"
	"cartaporte-backend/internal/shared/storage/db"
	"cartaporte-backend/internal/shared/storage/object/local"
	"cartaporte-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	var repo jobs.Repo
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Error("database connect failed", map[string]any{"error": err.Error()})
			return
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, database); err != nil {
			telemetry.Error("migrations failed", map[string]any{"error": err.Error()})
			return
		}
		repo = jobs.NewPGRepo(database)
		telemetry.Info("using postgres repository", nil)
	} else {
		repo = jobs.NewMemoryRepo()
		telemetry.Warn("DATABASE_URL not set, using in-memory repository", nil)
	}

	store := local.New(cfg.LocalStoreDir)
	extractor := extraction.New(store, openai.New(cfg.OpenAIAPIKey, cfg.LLMModel))
	provider := facturama.New(cfg.FacturamaUsername, cfg.FacturamaPassword, cfg.FacturamaSandbox)
	jobSvc := jobs.NewService(repo, extractor, provider, cfg.ExpeditionPlace)

	r := server.NewRouter(cfg, store, jobSvc, provider)

	telemetry.Info("server starting", map[string]any{"port": cfg.Port, "env": cfg.Env})
	if err := r.Run(":" + cfg.Port); err != nil {
		telemetry.Error("server stopped", map[string]any{"error": err.Error()})
	}
}
