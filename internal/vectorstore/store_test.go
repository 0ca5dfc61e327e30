package vectorstore

import (
	"os"
	"path/filepath"
	"testing"

	"ragchat/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vector_db.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func doc(id string, embedding ...float64) domain.Document {
	return domain.Document{ID: id, Source: "src-" + id, Content: "content " + id, Embedding: embedding}
}

func TestSearchOrderingAndBounds(t *testing.T) {
	s := newTestStore(t)
	// Scores against query [1,0]: a=1, b=0, c≈0.707
	if err := s.Add([]domain.Document{
		doc("a", 1, 0),
		doc("b", 0, 1),
		doc("c", 1, 1),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	hits := s.Search([]float64{1, 0}, 2)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Document.ID != "a" || hits[1].Document.ID != "c" {
		t.Errorf("got order %s,%s, want a,c", hits[0].Document.ID, hits[1].Document.ID)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not descending at %d: %v > %v", i, hits[i].Score, hits[i-1].Score)
		}
	}

	// Fewer documents than k returns everything, still sorted.
	all := s.Search([]float64{1, 0}, 10)
	if len(all) != 3 {
		t.Fatalf("got %d hits, want all 3", len(all))
	}
	if all[2].Document.ID != "b" {
		t.Errorf("lowest hit = %s, want b", all[2].Document.ID)
	}
}

func TestSearchStableTies(t *testing.T) {
	s := newTestStore(t)
	// Identical embeddings tie exactly; insertion order must hold.
	if err := s.Add([]domain.Document{
		doc("first", 1, 1),
		doc("second", 1, 1),
		doc("third", 1, 1),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hits := s.Search([]float64{1, 1}, 3)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if hits[i].Document.ID != w {
			t.Errorf("hit %d = %s, want %s", i, hits[i].Document.ID, w)
		}
	}
}

func TestSearchEmptyStore(t *testing.T) {
	s := newTestStore(t)
	if hits := s.Search([]float64{1, 2, 3}, 5); len(hits) != 0 {
		t.Errorf("got %d hits from empty store, want 0", len(hits))
	}
}

func TestSearchDimensionMismatchScoresZero(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add([]domain.Document{
		doc("matching", 1, 0),
		doc("mismatched", 1, 0, 0),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hits := s.Search([]float64{1, 0}, 2)
	if hits[0].Document.ID != "matching" {
		t.Fatalf("top hit = %s, want matching", hits[0].Document.ID)
	}
	if hits[1].Score != 0 {
		t.Errorf("mismatched dimension score = %v, want 0", hits[1].Score)
	}
}

func TestAddAssignsIDs(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add([]domain.Document{{Content: "no id", Embedding: []float64{1}}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hits := s.Search([]float64{1}, 1)
	if hits[0].Document.ID == "" {
		t.Error("expected generated document id")
	}
}

func TestAddDuplicateAppendsUpsertReplaces(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add([]domain.Document{doc("dup", 1)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add([]domain.Document{doc("dup", 1)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := s.Count(); got != 2 {
		t.Errorf("Count after duplicate Add = %d, want 2", got)
	}

	updated := doc("dup", 0.5)
	updated.Content = "updated"
	if err := s.Upsert([]domain.Document{updated}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	// Upsert replaces the first match only; count unchanged.
	if got := s.Count(); got != 2 {
		t.Errorf("Count after Upsert = %d, want 2", got)
	}
	d, ok := s.Get("dup")
	if !ok {
		t.Fatal("Get(dup) not found")
	}
	if d.Content != "updated" {
		t.Errorf("Get(dup).Content = %q, want updated", d.Content)
	}
}

func TestGetAndClear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add([]domain.Document{doc("x", 1), doc("y", 2)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := s.Get("x"); !ok {
		t.Error("Get(x) not found")
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) unexpectedly found")
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := s.Count(); got != 0 {
		t.Errorf("Count after Clear = %d, want 0", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vector_db.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	docs := []domain.Document{doc("a", 1, 0), doc("b", 0, 1)}
	if err := s.Add(docs); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reloaded.Count(); got != 2 {
		t.Fatalf("reloaded Count = %d, want 2", got)
	}
	for _, d := range docs {
		got, ok := reloaded.Get(d.ID)
		if !ok {
			t.Fatalf("reloaded store missing %s", d.ID)
		}
		if got.Content != d.Content || got.Source != d.Source {
			t.Errorf("reloaded %s = %+v, want %+v", d.ID, got, d)
		}
	}

	// Clear persists the empty state too.
	if err := reloaded.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen after clear: %v", err)
	}
	if got := again.Count(); got != 0 {
		t.Errorf("Count after cleared reload = %d, want 0", got)
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vector_db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("Open on corrupt file succeeded, want error")
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope", "vector_db.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := s.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}
