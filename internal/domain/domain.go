package domain

import (
	"context"
	"time"
)

// Document is a retrievable unit of text stored in the vector store.
// Embedding dimension must match the store's query dimension; mismatches
// score zero during search rather than failing.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	Embedding []float64 `json:"embedding"`
}

// SearchHit is a document annotated with its similarity to a query.
// Transient: derived per search, never persisted.
type SearchHit struct {
	Document Document
	Score    float64
}

// ContextItem is a display-ready summary of one retrieved context entry.
// Index is assigned in retrieval order and is 1-based.
type ContextItem struct {
	Index   int     `json:"index"`
	Source  string  `json:"source"`
	Summary string  `json:"summary"`
	Score   float64 `json:"score"`
}

// Role identifies the author of a session message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a session's append-only chat history.
type Message struct {
	Role      Role          `json:"role"`
	Content   string        `json:"content"`
	Context   []ContextItem `json:"context,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore owns the document collection and supports similarity search.
type VectorStore interface {
	Add(docs []Document) error
	Upsert(docs []Document) error
	Search(query []float64, topK int) []SearchHit
	Get(id string) (Document, bool)
	Clear() error
	Count() int
}

// Generator produces model answers for a fully composed prompt.
// Stream delivers increments through emit; a non-nil error returned by emit
// stops delivery and is propagated unchanged.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string, emit func(chunk string) error) error
}

// SessionStore keeps per-session chat history with a retention window.
// History returns messages oldest-first.
type SessionStore interface {
	Append(sessionID string, msg Message) error
	History(sessionID string, limit int) ([]Message, error)
	Clear(sessionID string) error
}

// EmbeddingCache caches computed embeddings by key.
type EmbeddingCache interface {
	GetEmbedding(key string) ([]float64, bool, error)
	SetEmbedding(key string, vec []float64) error
}
