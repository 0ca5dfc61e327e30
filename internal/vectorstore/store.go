// Package vectorstore implements a file-backed in-memory document store with
// brute-force cosine-similarity search. The whole collection lives in memory
// and is rewritten to a single JSON snapshot on every mutation, which is fine
// at the intended scale of hundreds to low thousands of documents.
package vectorstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"ragchat/internal/domain"
)

const defaultTopK = 5

// Store holds the document collection and its on-disk snapshot path.
//
// The mutex covers in-process readers and writers only. Two processes
// sharing one snapshot file still race: each mutation rewrites the full
// file, so the last writer's snapshot wins. Acceptable for the intended
// bulk-seed usage, but do not point two servers at the same file.
type Store struct {
	mu   sync.RWMutex
	path string
	docs []domain.Document
}

type snapshot struct {
	Documents      []domain.Document    `json:"documents"`
	EmbeddingIndex map[string][]float64 `json:"embedding_index"`
	SavedAt        time.Time            `json:"saved_at"`
}

// Open loads the store from path. A missing file yields an empty store; an
// unparsable file is an error, since the prior state cannot be recovered.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read vector store %s: %w", path, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("corrupt vector store %s: %w", path, err)
	}
	s.docs = snap.Documents
	return s, nil
}

// Add appends docs to the collection and persists the snapshot. Documents
// without an ID get a generated one. IDs are not deduplicated: re-adding an
// existing ID appends a second copy (use Upsert for replace semantics).
//
// On a save failure the in-memory collection keeps the new documents and
// continues serving reads; the error reports the failed persist.
func (s *Store) Add(docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if d.ID == "" {
			d.ID = generateID()
		}
		s.docs = append(s.docs, d)
	}
	return s.save()
}

// Upsert inserts docs, replacing any stored document with the same ID.
func (s *Store) Upsert(docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if d.ID == "" {
			d.ID = generateID()
		}
		replaced := false
		for i := range s.docs {
			if s.docs[i].ID == d.ID {
				s.docs[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			s.docs = append(s.docs, d)
		}
	}
	return s.save()
}

// Search scores every stored document against query by cosine similarity and
// returns the topK best hits, descending by score. Ties keep insertion
// order. Documents whose embedding dimension does not match the query score
// zero rather than failing. topK <= 0 falls back to a default of 5.
func (s *Store) Search(query []float64, topK int) []domain.SearchHit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.docs) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	hits := make([]domain.SearchHit, len(s.docs))
	for i, d := range s.docs {
		hits[i] = domain.SearchHit{Document: d, Score: Cosine(query, d.Embedding)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK]
}

// Get returns the document with the given ID, if present. Linear scan.
func (s *Store) Get(id string) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

// Clear empties the collection and persists the empty state.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	return s.save()
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// save rewrites the full snapshot. Caller must hold the write lock.
// The embedding_index map duplicates per-document embeddings; it is written
// for snapshot compatibility but never read back as authoritative.
func (s *Store) save() error {
	index := make(map[string][]float64, len(s.docs))
	for _, d := range s.docs {
		index[d.ID] = d.Embedding
	}
	snap := snapshot{
		Documents:      s.docs,
		EmbeddingIndex: index,
		SavedAt:        time.Now().UTC(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vector store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create vector store dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write vector store %s: %w", s.path, err)
	}
	return nil
}

func generateID() string {
	return fmt.Sprintf("doc_%d_%d", time.Now().UnixNano(), rand.IntN(1_000_000))
}
