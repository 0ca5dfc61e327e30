package embedding

import (
	"context"
	"math"

	"ragchat/internal/domain"
)

// Mock is a deterministic embedder for development and tests. Each text is
// hashed to a 32-bit seed and expanded into a fixed-dimension pseudo-random
// vector, so equal inputs always embed identically without any network call.
type Mock struct {
	dimension int
}

// NewMock returns a mock embedder producing vectors of the given dimension.
// Dimension <= 0 falls back to 384, matching common sentence-embedding models.
func NewMock(dimension int) *Mock {
	if dimension <= 0 {
		dimension = 384
	}
	return &Mock{dimension: dimension}
}

var _ domain.Embedder = (*Mock)(nil)

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Dimension() int { return m.dimension }

// Embed derives the vector from a rolling 32-bit hash of the text. Component
// i is the fractional part of sin(seed+i)*10000, giving values in [0, 1).
func (m *Mock) Embed(_ context.Context, text string) ([]float64, error) {
	seed := hash32(text)
	vec := make([]float64, m.dimension)
	for i := range vec {
		x := math.Sin(float64(seed+int32(i))) * 10000
		vec[i] = x - math.Floor(x)
	}
	return vec, nil
}

// hash32 is the classic (h<<5)-h+c rolling hash over the text, truncated to
// a signed 32-bit value.
func hash32(s string) int32 {
	var h int32
	for _, c := range s {
		h = (h << 5) - h + int32(c)
	}
	return h
}
