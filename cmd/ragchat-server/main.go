package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ragchat/internal/config"
	"ragchat/internal/domain"
	"ragchat/internal/embedding"
	"ragchat/internal/llm"
	"ragchat/internal/logging"
	"ragchat/internal/metrics"
	"ragchat/internal/retrieval"
	"ragchat/internal/server"
	"ragchat/internal/service"
	"ragchat/internal/session"
	"ragchat/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Vector store: fatal when the snapshot is corrupt, since no retrieval
	// is possible without a known-good document collection.
	store, err := vectorstore.Open(cfg.VectorStore.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vector store")
	}
	logger.Info().Int("documents", store.Count()).Str("path", cfg.VectorStore.Path).Msg("vector store ready")

	// Session store: non-fatal, history degrades to disabled.
	var sessions *session.Store
	sess, err := session.Open(session.Options{
		Path:         cfg.Sessions.Path,
		HistoryTTL:   time.Duration(cfg.Sessions.HistoryTTLHours) * time.Hour,
		EmbeddingTTL: time.Duration(cfg.Sessions.EmbeddingTTLHours) * time.Hour,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("session store unavailable, continuing without history")
	} else {
		sessions = sess
		defer sessions.Close()
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
	if sessions != nil {
		embedder = embedding.NewCached(embedder, sessions, logger)
	}

	// Gemini: non-fatal, requests degrade to fallback answers.
	var generator domain.Generator
	gem, err := llm.NewGemini(ctx, llm.GeminiConfig{
		Model:       cfg.LLM.Model,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Temperature: cfg.LLM.Temperature,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini not configured, using fallback responses")
	} else {
		generator = gem
	}

	m := metrics.New()
	m.Documents.Set(float64(store.Count()))

	policy := retrieval.Policy{
		Threshold: cfg.VectorStore.RelevanceThreshold,
		TopK:      cfg.VectorStore.TopK,
	}
	composer := llm.NewComposer(generator, logger)

	var sessionStore domain.SessionStore
	if sessions != nil {
		sessionStore = sessions
	}
	chat := service.NewChat(embedder, store, policy, composer, sessionStore, m, logger)

	srv := server.New(server.Config{
		Port:            cfg.Server.Port,
		CORSOrigin:      cfg.Server.CORSOrigin,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeoutSecs) * time.Second,
		LLMConfigured:   generator != nil,
	}, chat, sessionStore, store, m.Handler(), logger)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
