package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"ragchat/internal/domain"
	"ragchat/internal/llm"
	"ragchat/internal/retrieval"
)

type fakeEmbedder struct {
	vec []float64
	err error
}

func (f *fakeEmbedder) Name() string   { return "fake" }
func (f *fakeEmbedder) Dimension() int { return len(f.vec) }
func (f *fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	return f.vec, f.err
}

type fakeStore struct {
	hits  []domain.SearchHit
	added []domain.Document
}

func (f *fakeStore) Add(docs []domain.Document) error {
	f.added = append(f.added, docs...)
	return nil
}
func (f *fakeStore) Upsert(docs []domain.Document) error               { return f.Add(docs) }
func (f *fakeStore) Search(query []float64, topK int) []domain.SearchHit { return f.hits }
func (f *fakeStore) Get(id string) (domain.Document, bool)             { return domain.Document{}, false }
func (f *fakeStore) Clear() error                                      { f.added = nil; return nil }
func (f *fakeStore) Count() int                                        { return len(f.added) }

type fakeSessions struct {
	appended []domain.Message
	err      error
}

func (f *fakeSessions) Append(sessionID string, msg domain.Message) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, msg)
	return nil
}
func (f *fakeSessions) History(string, int) ([]domain.Message, error) { return nil, nil }
func (f *fakeSessions) Clear(string) error                            { return nil }

type fakeGenerator struct {
	answer string
	chunks []string
	err    error
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.answer, f.err
}
func (f *fakeGenerator) Stream(_ context.Context, _ string, emit func(string) error) error {
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return f.err
}

func ragHit(source, content string, score float64) domain.SearchHit {
	return domain.SearchHit{Document: domain.Document{Source: source, Content: content}, Score: score}
}

func newChat(emb domain.Embedder, store domain.VectorStore, gen domain.Generator, sessions domain.SessionStore) *Chat {
	log := zerolog.Nop()
	return NewChat(emb, store, retrieval.Policy{Threshold: 0.5, TopK: 5}, llm.NewComposer(gen, log), sessions, nil, log)
}

func TestSendAugmented(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{
		ragHit("Alpha", "alpha text", 0.9),
		ragHit("Beta", "beta text", 0.3), // below threshold, dropped
	}}
	sessions := &fakeSessions{}
	chat := newChat(&fakeEmbedder{vec: []float64{1}}, store, &fakeGenerator{answer: "the answer"}, sessions)

	ans, err := chat.Send(context.Background(), "sid", "what happened?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ans.Text != "the answer" {
		t.Errorf("answer = %q", ans.Text)
	}
	if len(ans.Context) != 1 || ans.Context[0].Source != "Alpha" {
		t.Errorf("context = %+v, want only Alpha", ans.Context)
	}

	if len(sessions.appended) != 2 {
		t.Fatalf("appended %d history messages, want 2", len(sessions.appended))
	}
	if sessions.appended[0].Role != domain.RoleUser || sessions.appended[1].Role != domain.RoleAssistant {
		t.Error("history roles out of order")
	}
	if len(sessions.appended[1].Context) != 1 {
		t.Error("assistant message missing formatted context")
	}
}

func TestSendConversationalWhenNothingQualifies(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{ragHit("Alpha", "alpha", 0.2)}}
	chat := newChat(&fakeEmbedder{vec: []float64{1}}, store, &fakeGenerator{answer: "chatty"}, &fakeSessions{})

	ans, err := chat.Send(context.Background(), "sid", "hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(ans.Context) != 0 {
		t.Errorf("context = %+v, want empty", ans.Context)
	}
	if ans.Text != "chatty" {
		t.Errorf("answer = %q", ans.Text)
	}
}

func TestSendEmbedderFailure(t *testing.T) {
	chat := newChat(&fakeEmbedder{err: errors.New("embed down")}, &fakeStore{}, &fakeGenerator{}, &fakeSessions{})
	if _, err := chat.Send(context.Background(), "sid", "q"); err == nil {
		t.Fatal("Send with failing embedder succeeded, want error")
	}
}

func TestSendSessionStoreFailureSwallowed(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{ragHit("Alpha", "alpha", 0.9)}}
	chat := newChat(&fakeEmbedder{vec: []float64{1}}, store, &fakeGenerator{answer: "fine"}, &fakeSessions{err: errors.New("redis is a memory")})

	ans, err := chat.Send(context.Background(), "sid", "q")
	if err != nil {
		t.Fatalf("Send must not fail on history errors: %v", err)
	}
	if ans.Text != "fine" {
		t.Errorf("answer = %q", ans.Text)
	}
}

func TestSendGeneratorFailureDegrades(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{ragHit("Example Source", "Example text", 0.9)}}
	chat := newChat(&fakeEmbedder{vec: []float64{1}}, store, &fakeGenerator{err: errors.New("upstream")}, &fakeSessions{})

	ans, err := chat.Send(context.Background(), "sid", "q")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ans.Status != llm.StatusError {
		t.Errorf("status = %v, want error", ans.Status)
	}
	if !strings.Contains(ans.Text, "Example Source") || !strings.Contains(ans.Text, "Example text") {
		t.Errorf("fallback %q missing retrieved excerpt", ans.Text)
	}
}

func TestStreamDeliversContextThenChunks(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{ragHit("Alpha", "alpha", 0.9)}}
	sessions := &fakeSessions{}
	chat := newChat(&fakeEmbedder{vec: []float64{1}}, store, &fakeGenerator{chunks: []string{"Hel", "lo"}}, sessions)

	var events []string
	full, err := chat.Stream(context.Background(), "sid", "q",
		func(items []domain.ContextItem) error {
			events = append(events, "context")
			return nil
		},
		func(chunk string) error {
			events = append(events, "chunk:"+chunk)
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if full != "Hello" {
		t.Errorf("assembled answer = %q, want Hello", full)
	}
	want := []string{"context", "chunk:Hel", "chunk:lo"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, events[i], want[i])
		}
	}
	if len(sessions.appended) != 2 {
		t.Errorf("appended %d history messages, want 2", len(sessions.appended))
	}
	if sessions.appended[1].Content != "Hello" {
		t.Errorf("assistant history = %q, want assembled answer", sessions.appended[1].Content)
	}
}

func TestStreamNoContextEventWhenConversational(t *testing.T) {
	chat := newChat(&fakeEmbedder{vec: []float64{1}}, &fakeStore{}, &fakeGenerator{chunks: []string{"hey"}}, &fakeSessions{})
	contextEvents := 0
	_, err := chat.Stream(context.Background(), "sid", "hi",
		func([]domain.ContextItem) error { contextEvents++; return nil },
		func(string) error { return nil },
	)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if contextEvents != 0 {
		t.Errorf("context events = %d, want 0", contextEvents)
	}
}

func TestSeedEmbedsMissingVectors(t *testing.T) {
	store := &fakeStore{}
	chat := newChat(&fakeEmbedder{vec: []float64{0.5, 0.5}}, store, nil, nil)

	docs := []domain.Document{
		{ID: "a", Content: "needs embedding"},
		{ID: "b", Content: "has one", Embedding: []float64{1, 0}},
	}
	if err := chat.Seed(context.Background(), docs); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(store.added) != 2 {
		t.Fatalf("added %d docs, want 2", len(store.added))
	}
	if len(store.added[0].Embedding) != 2 {
		t.Error("missing embedding was not computed")
	}
	if store.added[1].Embedding[0] != 1 {
		t.Error("existing embedding was overwritten")
	}
}
