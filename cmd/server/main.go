// Command server runs the upload and query web server. Workbooks land in
// upload storage, every sheet is normalized and registered, and tables
// are queryable over the JSON API.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"sheetsense/adapters/classify/heuristic"
	"sheetsense/adapters/classify/llm"
	"sheetsense/adapters/postgres"
	"sheetsense/internal/agent"
	"sheetsense/internal/config"
	"sheetsense/internal/normalize"
	"sheetsense/internal/registry"
	"sheetsense/ports"
	"sheetsense/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	classifier := buildClassifier(cfg)
	normalizer := normalize.NewNormalizer(classifier).WithSampleSize(cfg.Pipeline.SampleSize)
	storage := registry.NewUploadStorage(cfg.Paths.UploadDir)
	reg := registry.New(storage)
	ag := agent.NewAgent(normalizer, reg)

	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database error: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("schema error: %v", err)
		}
		ag.WithRepository(postgres.NewTableRepository(db))
	}

	// Preload any configured workbook directory before serving.
	if cfg.Paths.WorkbookDir != "" {
		if _, err := ag.ProcessDirectory(context.Background(), cfg.Paths.WorkbookDir); err != nil {
			log.Printf("[server] preload failed: %v", err)
		}
	}

	server := ui.NewServer(cfg.Server, ag, reg, storage)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func buildClassifier(cfg *config.Config) ports.RowClassifier {
	if cfg.AI.OpenAIKey != "" {
		llmCfg := llm.DefaultConfig(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel)
		llmCfg.Temperature = cfg.AI.Temperature
		llmCfg.MaxTokens = cfg.AI.MaxTokens
		return llm.NewClassifier(llmCfg)
	}
	return heuristic.NewClassifier()
}
