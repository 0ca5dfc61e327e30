package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog"

	"ragchat/internal/domain"
)

// Cached is a read-through caching decorator around another embedder. Cache
// failures on either path degrade to a direct embed; the cache is a
// convenience, never a correctness requirement.
type Cached struct {
	inner domain.Embedder
	cache domain.EmbeddingCache
	log   zerolog.Logger
}

// NewCached wraps inner with the given cache.
func NewCached(inner domain.Embedder, cache domain.EmbeddingCache, log zerolog.Logger) *Cached {
	return &Cached{inner: inner, cache: cache, log: log}
}

var _ domain.Embedder = (*Cached)(nil)

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) Dimension() int { return c.inner.Dimension() }

func (c *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	key := cacheKey(text)
	if vec, ok, err := c.cache.GetEmbedding(key); err != nil {
		c.log.Warn().Err(err).Msg("embedding cache read failed")
	} else if ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetEmbedding(key, vec); err != nil {
		c.log.Warn().Err(err).Msg("embedding cache write failed")
	}
	return vec, nil
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
