// Package llm builds prompts from retrieved context and turns generator
// output, or generator failure, into an answer the caller can always show.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"ragchat/internal/domain"
)

// Status tags why an answer came back the way it did. Only StatusOK answers
// come from the model; the rest are fallback texts.
type Status int

const (
	StatusOK Status = iota
	StatusNotConfigured
	StatusUnavailable
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotConfigured:
		return "not_configured"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

// Result is a generation outcome. Text is always usable as-is; Reason holds
// the underlying failure for non-OK statuses.
type Result struct {
	Text   string
	Status Status
	Reason error
}

const (
	ragSystemPrompt = `You are a helpful news assistant chatbot. Use the provided context from news articles to answer questions accurately. Always cite the source articles when providing information. If the context doesn't contain relevant information for a specific factual claim, say you don't have that information available.`

	conversationalSystemPrompt = `You are a helpful, friendly conversational assistant. Answer casual user questions (greetings, small talk, general advice) politely and clearly. If a user asks for facts not in your knowledge, be honest about your limits.`

	excerptLimit = 300
)

// Composer builds prompts and invokes the generator, degrading every failure
// to a returned answer string. A nil generator means the LLM is not
// configured at all; requests still succeed with an explanatory fallback.
type Composer struct {
	gen domain.Generator
	log zerolog.Logger
}

// NewComposer creates a composer. gen may be nil.
func NewComposer(gen domain.Generator, log zerolog.Logger) *Composer {
	return &Composer{gen: gen, log: log}
}

// Configured reports whether a generator is wired in.
func (c *Composer) Configured() bool { return c.gen != nil }

// BuildPrompt composes the full prompt for a query. With context present,
// the RAG system instruction and the labeled source blocks are included;
// otherwise the conversational instruction alone precedes the question.
func BuildPrompt(query string, contextHits []domain.SearchHit) string {
	var b strings.Builder
	if len(contextHits) > 0 {
		b.WriteString(ragSystemPrompt)
		b.WriteString("\n\nContext from news articles:\n")
		for i, h := range contextHits {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "[Source %d]: %s\n%s", i+1, sourceLabel(h.Document), h.Document.Content)
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString(conversationalSystemPrompt)
		b.WriteString("\n\n")
	}
	b.WriteString("User Question: ")
	b.WriteString(query)
	b.WriteString("\n\nPlease provide a helpful answer based on the context above.")
	return b.String()
}

// Answer runs one blocking generation for the query. Provider failure never
// surfaces as an error: the result carries a fallback text tagged with the
// failure class, and when context exists the fallback includes the top hit's
// source and a bounded excerpt so retrieval still delivers partial value.
func (c *Composer) Answer(ctx context.Context, query string, contextHits []domain.SearchHit) Result {
	if c.gen == nil {
		return Result{Text: c.fallbackText(StatusNotConfigured, contextHits), Status: StatusNotConfigured}
	}
	prompt := BuildPrompt(query, contextHits)
	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		status := StatusError
		if errors.Is(err, ErrNoModel) {
			status = StatusUnavailable
		}
		c.log.Error().Err(err).Str("status", status.String()).Msg("generation failed")
		return Result{Text: c.fallbackText(status, contextHits), Status: status, Reason: err}
	}
	return Result{Text: text, Status: StatusOK}
}

// StreamAnswer runs a streaming generation, forwarding increments to emit.
// When the upstream stream fails, either before or mid-delivery, exactly one
// terminal fallback chunk is emitted and the stream ends cleanly. The only
// error StreamAnswer returns is one produced by emit itself (consumer gone).
func (c *Composer) StreamAnswer(ctx context.Context, query string, contextHits []domain.SearchHit, emit func(chunk string) error) error {
	if c.gen == nil {
		return emit(c.fallbackText(StatusNotConfigured, contextHits))
	}
	prompt := BuildPrompt(query, contextHits)

	var emitErr error
	wrapped := func(chunk string) error {
		if err := emit(chunk); err != nil {
			emitErr = err
			return err
		}
		return nil
	}
	err := c.gen.Stream(ctx, prompt, wrapped)
	if emitErr != nil {
		return emitErr
	}
	if err != nil {
		status := StatusError
		if errors.Is(err, ErrNoModel) {
			status = StatusUnavailable
		}
		c.log.Error().Err(err).Str("status", status.String()).Msg("streaming generation failed")
		return emit(c.fallbackText(status, contextHits))
	}
	return nil
}

// FormatContext produces the display form of qualifying hits: 1-based index
// in input order, then the slice re-sorted descending by score. Index and
// final position can therefore disagree; the index matches the [Source i]
// labels in the prompt, which are assigned pre-sort.
func FormatContext(hits []domain.SearchHit) []domain.ContextItem {
	items := make([]domain.ContextItem, len(hits))
	for i, h := range hits {
		items[i] = domain.ContextItem{
			Index:   i + 1,
			Source:  sourceLabel(h.Document),
			Summary: h.Document.Content,
			Score:   h.Score,
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	return items
}

func (c *Composer) fallbackText(status Status, contextHits []domain.SearchHit) string {
	if len(contextHits) > 0 {
		top := contextHits[0].Document
		snippet := excerpt(top.Content)
		switch status {
		case StatusNotConfigured:
			return fmt.Sprintf("(LLM not configured) I found a relevant source: %s. Here's a short excerpt: %s", sourceLabel(top), snippet)
		case StatusUnavailable:
			return fmt.Sprintf("(LLM unavailable) No compatible model found for your API key. Found source: %s. Excerpt: %s", sourceLabel(top), snippet)
		default:
			return fmt.Sprintf("(LLM error) I couldn't generate a full answer due to an upstream API issue. I did find a relevant source: %s. Excerpt: %s", sourceLabel(top), snippet)
		}
	}
	switch status {
	case StatusNotConfigured:
		return "I don't have the language model configured to generate a full answer. To enable full responses, set the GEMINI_API_KEY environment variable with your Google Gemini API key."
	case StatusUnavailable:
		return "Language model unavailable. No compatible Gemini model found for your API key. Please check your GEMINI_API_KEY."
	default:
		return "I couldn't generate a full answer due to an upstream language model error. Please try again later."
	}
}

// excerpt bounds content to 300 characters, marking truncation.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit]) + "..."
}

func sourceLabel(d domain.Document) string {
	if d.Source == "" {
		return "Unknown"
	}
	return d.Source
}
