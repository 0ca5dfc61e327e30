// Package service orchestrates the chat pipeline: embed the query, search
// the vector store, filter hits by relevance, compose and generate the
// answer, and append the exchange to session history.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ragchat/internal/domain"
	"ragchat/internal/llm"
	"ragchat/internal/metrics"
	"ragchat/internal/retrieval"
)

// Answer is the outcome of one chat request.
type Answer struct {
	Text    string
	Context []domain.ContextItem
	Status  llm.Status
}

// Chat wires the retrieval components together. Construct with NewChat; all
// collaborators except sessions and metrics are required.
type Chat struct {
	embedder domain.Embedder
	store    domain.VectorStore
	policy   retrieval.Policy
	composer *llm.Composer
	sessions domain.SessionStore
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewChat creates the chat service. sessions may be nil (history disabled);
// m may be nil (metrics disabled).
func NewChat(embedder domain.Embedder, store domain.VectorStore, policy retrieval.Policy, composer *llm.Composer, sessions domain.SessionStore, m *metrics.Metrics, log zerolog.Logger) *Chat {
	return &Chat{
		embedder: embedder,
		store:    store,
		policy:   policy,
		composer: composer,
		sessions: sessions,
		metrics:  m,
		log:      log,
	}
}

// Send answers one message in blocking mode.
func (c *Chat) Send(ctx context.Context, sessionID, message string) (Answer, error) {
	start := time.Now()
	relevant, err := c.retrieve(ctx, message)
	if err != nil {
		return Answer{}, err
	}

	result := c.composer.Answer(ctx, message, relevant)
	formatted := llm.FormatContext(relevant)
	c.saveExchange(sessionID, message, result.Text, formatted)
	c.observe("send", relevant, result.Status, start)

	return Answer{Text: result.Text, Context: formatted, Status: result.Status}, nil
}

// Stream answers one message incrementally. When qualifying context exists,
// onContext fires once before the first text increment. The full assembled
// answer is returned for the caller's own use; it has already been appended
// to session history. An error returned by either callback aborts delivery.
func (c *Chat) Stream(ctx context.Context, sessionID, message string, onContext func([]domain.ContextItem) error, onChunk func(string) error) (string, error) {
	start := time.Now()
	relevant, err := c.retrieve(ctx, message)
	if err != nil {
		return "", err
	}

	formatted := llm.FormatContext(relevant)
	if len(formatted) > 0 && onContext != nil {
		if err := onContext(formatted); err != nil {
			return "", err
		}
	}

	var full []byte
	emit := func(chunk string) error {
		full = append(full, chunk...)
		return onChunk(chunk)
	}
	if err := c.composer.StreamAnswer(ctx, message, relevant, emit); err != nil {
		// Only consumer-side failures propagate; upstream failures were
		// already flattened into a terminal fallback chunk.
		return string(full), err
	}

	c.saveExchange(sessionID, message, string(full), formatted)
	c.observe("stream", relevant, llm.StatusOK, start)
	return string(full), nil
}

// Seed embeds any documents lacking an embedding and adds them to the store.
func (c *Chat) Seed(ctx context.Context, docs []domain.Document) error {
	for i := range docs {
		if len(docs[i].Embedding) > 0 {
			continue
		}
		vec, err := c.embedder.Embed(ctx, docs[i].Content)
		if err != nil {
			return err
		}
		docs[i].Embedding = vec
	}
	if err := c.store.Add(docs); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.Documents.Set(float64(c.store.Count()))
	}
	return nil
}

// Reset clears the vector store.
func (c *Chat) Reset(ctx context.Context) error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.Documents.Set(0)
	}
	return nil
}

func (c *Chat) retrieve(ctx context.Context, message string) ([]domain.SearchHit, error) {
	vec, err := c.embedder.Embed(ctx, message)
	if err != nil {
		return nil, err
	}
	hits := c.store.Search(vec, c.policy.TopK)
	relevant := c.policy.Filter(hits)
	c.log.Debug().
		Int("results", len(hits)).
		Int("relevant", len(relevant)).
		Float64("threshold", c.policy.Threshold).
		Msg("retrieval complete")
	return relevant, nil
}

// saveExchange appends the user message and the assistant answer to session
// history. History is a convenience: failures are logged and swallowed.
func (c *Chat) saveExchange(sessionID, message, answer string, formatted []domain.ContextItem) {
	if c.sessions == nil {
		return
	}
	if err := c.sessions.Append(sessionID, domain.Message{Role: domain.RoleUser, Content: message}); err != nil {
		c.log.Warn().Err(err).Str("session", sessionID).Msg("failed to save user message")
		return
	}
	err := c.sessions.Append(sessionID, domain.Message{
		Role:    domain.RoleAssistant,
		Content: answer,
		Context: formatted,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("session", sessionID).Msg("failed to save assistant message")
	}
}

func (c *Chat) observe(delivery string, relevant []domain.SearchHit, status llm.Status, start time.Time) {
	if c.metrics == nil {
		return
	}
	mode := "conversational"
	if len(relevant) > 0 {
		mode = "rag"
	}
	c.metrics.ChatRequests.WithLabelValues(mode, delivery).Inc()
	c.metrics.RequestDuration.WithLabelValues(delivery).Observe(time.Since(start).Seconds())
	if status != llm.StatusOK {
		c.metrics.Fallbacks.WithLabelValues(status.String()).Inc()
	}
}
