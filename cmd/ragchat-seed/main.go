// Command ragchat-seed loads the sample news corpus into the vector store,
// embedding each article with the configured embedder. Run with -reset to
// clear the store first (re-adding existing ids would otherwise duplicate).
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"ragchat/internal/config"
	"ragchat/internal/domain"
	"ragchat/internal/embedding"
	"ragchat/internal/llm"
	"ragchat/internal/logging"
	"ragchat/internal/retrieval"
	"ragchat/internal/seed"
	"ragchat/internal/service"
	"ragchat/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	reset := flag.Bool("reset", false, "Clear the vector store before seeding")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Pretty)

	store, err := vectorstore.Open(cfg.VectorStore.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open vector store")
	}

	var embedder domain.Embedder
	switch cfg.Embedder.Type {
	case "mock", "":
		embedder = embedding.NewMock(cfg.Embedder.Dimension)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			logger.Fatal().Msg("openai embedder config missing")
		}
		c, err := embedding.NewOpenAIClient(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai embedder init failed")
		}
		embedder = c
	default:
		logger.Fatal().Str("type", cfg.Embedder.Type).Msg("unknown embedder")
	}

	policy := retrieval.Policy{Threshold: cfg.VectorStore.RelevanceThreshold, TopK: cfg.VectorStore.TopK}
	chat := service.NewChat(embedder, store, policy, llm.NewComposer(nil, logger), nil, nil, logger)

	ctx := context.Background()
	if *reset {
		if err := chat.Reset(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to clear vector store")
		}
		logger.Info().Msg("vector store cleared")
	}

	docs := seed.Corpus()
	if err := chat.Seed(ctx, docs); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}
	logger.Info().Int("added", len(docs)).Int("total", store.Count()).Msg("corpus seeded")
}
