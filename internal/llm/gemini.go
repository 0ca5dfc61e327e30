package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"ragchat/internal/domain"
)

// ErrNoModel is returned when the API key grants access to no model capable
// of text generation.
var ErrNoModel = errors.New("no compatible generation model available")

// GeminiConfig configures the Gemini generation client. The API key is read
// from the environment variable named by APIKeyEnv.
type GeminiConfig struct {
	Model       string
	APIKeyEnv   string
	Temperature float64
}

// Gemini implements domain.Generator on the Google GenAI API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	log         zerolog.Logger
}

// NewGemini creates the client and discovers which models the key can use
// for generateContent. The configured model is preferred when the listing
// includes it; otherwise the first compatible model wins. Discovery failure
// is not fatal when a model name is configured explicitly.
func NewGemini(ctx context.Context, cfg GeminiConfig, log zerolog.Logger) (*Gemini, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &Gemini{client: client, temperature: float32(cfg.Temperature), log: log}

	available, err := g.listGenerationModels(ctx)
	switch {
	case err != nil:
		if cfg.Model == "" {
			return nil, fmt.Errorf("list models: %w", err)
		}
		log.Warn().Err(err).Str("model", cfg.Model).Msg("model listing failed, using configured model")
		g.model = cfg.Model
	case len(available) == 0:
		// Keep the client; Generate and Stream report ErrNoModel.
		log.Warn().Msg("no models supporting generateContent for this API key")
	default:
		g.model = available[0]
		for _, name := range available {
			if name == cfg.Model {
				g.model = name
				break
			}
		}
		log.Info().Str("model", g.model).Int("available", len(available)).Msg("gemini model selected")
	}
	return g, nil
}

var _ domain.Generator = (*Gemini)(nil)

// Model returns the selected model name, empty when none is usable.
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) listGenerationModels(ctx context.Context) ([]string, error) {
	var names []string
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		for _, action := range m.SupportedActions {
			if action == "generateContent" {
				names = append(names, strings.TrimPrefix(m.Name, "models/"))
				break
			}
		}
	}
	return names, nil
}

func (g *Gemini) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if g.temperature > 0 {
		cfg.Temperature = genai.Ptr(g.temperature)
	}
	return cfg
}

// Generate runs one blocking generation call and returns the full answer text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.model == "" {
		return "", ErrNoModel
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// Stream runs a streaming generation call, passing each text increment to
// emit as it arrives. An error returned by emit stops delivery and is
// propagated unchanged.
func (g *Gemini) Stream(ctx context.Context, prompt string, emit func(chunk string) error) error {
	if g.model == "" {
		return ErrNoModel
	}
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.generateConfig()) {
		if err != nil {
			return fmt.Errorf("stream content: %w", err)
		}
		if text := resp.Text(); text != "" {
			if err := emit(text); err != nil {
				return err
			}
		}
	}
	return nil
}
