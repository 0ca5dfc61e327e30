// Package retrieval decides which search hits qualify as answer context.
package retrieval

import "ragchat/internal/domain"

// Policy bipartitions search hits by a fixed relevance threshold. Retrieval
// is advisory: when nothing qualifies, the caller falls back to plain
// conversational generation instead of failing.
type Policy struct {
	// Threshold is the minimum cosine similarity for a hit to be used as
	// context. Boundary inclusive: score == Threshold qualifies.
	Threshold float64

	// TopK is how many hits to request from the store per query.
	TopK int
}

// Filter returns the hits scoring at or above the threshold, in input order.
func (p Policy) Filter(hits []domain.SearchHit) []domain.SearchHit {
	var out []domain.SearchHit
	for _, h := range hits {
		if h.Score >= p.Threshold {
			out = append(out, h)
		}
	}
	return out
}
