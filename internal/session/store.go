// Package session persists per-session chat history and cached embeddings
// in an embedded badger database. Entries carry TTLs so history and cached
// vectors expire on their own; nothing here is required for the retrieval or
// generation path to succeed.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"ragchat/internal/domain"
)

// Store is a badger-backed session store and embedding cache.
type Store struct {
	db           *badger.DB
	historyTTL   time.Duration
	embeddingTTL time.Duration
}

// Options configures the store.
type Options struct {
	Path         string
	HistoryTTL   time.Duration
	EmbeddingTTL time.Duration
}

// Open opens (or creates) the badger database at opts.Path.
func Open(opts Options) (*Store, error) {
	if opts.HistoryTTL == 0 {
		opts.HistoryTTL = 24 * time.Hour
	}
	if opts.EmbeddingTTL == 0 {
		opts.EmbeddingTTL = 7 * 24 * time.Hour
	}
	db, err := badger.Open(badger.DefaultOptions(opts.Path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &Store{db: db, historyTTL: opts.HistoryTTL, embeddingTTL: opts.EmbeddingTTL}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

var _ domain.SessionStore = (*Store)(nil)
var _ domain.EmbeddingCache = (*Store)(nil)

// Append adds a message to the session's history. The message timestamp is
// set here; keys embed the timestamp so prefix iteration yields messages in
// insertion order.
func (s *Store) Append(sessionID string, msg domain.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := messageKey(sessionID, msg.Timestamp)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(s.historyTTL))
	})
}

// History returns up to limit messages for the session, oldest first.
// limit <= 0 means no limit.
func (s *Store) History(sessionID string, limit int) ([]domain.Message, error) {
	prefix := []byte("session:" + sessionID + ":")
	var msgs []domain.Message
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(msgs) >= limit {
				break
			}
			var msg domain.Message
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			})
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Clear deletes all history for the session.
func (s *Store) Clear(sessionID string) error {
	return s.db.DropPrefix([]byte("session:" + sessionID + ":"))
}

// GetEmbedding returns a cached embedding by key, reporting whether it was
// present.
func (s *Store) GetEmbedding(key string) ([]float64, bool, error) {
	var vec []float64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(embeddingKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &vec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// SetEmbedding caches an embedding under key with the embedding TTL.
func (s *Store) SetEmbedding(key string, vec []float64) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(embeddingKey(key), data).WithTTL(s.embeddingTTL))
	})
}

func messageKey(sessionID string, ts time.Time) []byte {
	return []byte(fmt.Sprintf("session:%s:%020d", sessionID, ts.UnixNano()))
}

func embeddingKey(key string) []byte {
	return []byte("embedding:" + key)
}
