package session

import (
	"testing"
	"time"

	"ragchat/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndHistoryOrder(t *testing.T) {
	s := newTestStore(t)
	sid := "session-1"

	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "first"},
		{Role: domain.RoleAssistant, Content: "second"},
		{Role: domain.RoleUser, Content: "third"},
	}
	for _, m := range msgs {
		if err := s.Append(sid, m); err != nil {
			t.Fatalf("Append: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	got, err := s.History(sid, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Content != want {
			t.Errorf("message %d = %q, want %q", i, got[i].Content, want)
		}
	}
	if got[0].Timestamp.IsZero() {
		t.Error("Append must stamp messages")
	}
}

func TestHistoryLimit(t *testing.T) {
	s := newTestStore(t)
	sid := "session-limit"
	for i := 0; i < 5; i++ {
		if err := s.Append(sid, domain.Message{Role: domain.RoleUser, Content: "m"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	got, err := s.History(sid, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d messages, want 2", len(got))
	}
}

func TestHistoryIsolatedPerSession(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append("a", domain.Message{Role: domain.RoleUser, Content: "for a"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := s.History("b", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("session b sees %d messages, want 0", len(got))
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	sid := "session-clear"
	if err := s.Append(sid, domain.Message{Role: domain.RoleUser, Content: "bye"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Clear(sid); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err := s.History(sid, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d messages after Clear, want 0", len(got))
	}
}

func TestEmbeddingCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok, err := s.GetEmbedding("absent"); err != nil || ok {
		t.Fatalf("GetEmbedding(absent) = ok=%v err=%v, want miss", ok, err)
	}

	want := []float64{0.1, 0.2, 0.3}
	if err := s.SetEmbedding("key", want); err != nil {
		t.Fatalf("SetEmbedding: %v", err)
	}
	got, ok, err := s.GetEmbedding("key")
	if err != nil || !ok {
		t.Fatalf("GetEmbedding = ok=%v err=%v, want hit", ok, err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
