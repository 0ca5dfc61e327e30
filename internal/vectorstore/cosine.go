package vectorstore

import "math"

// Cosine returns the cosine similarity of a and b: dot(a,b) / (|a|*|b|).
// Returns 0 when the dimensions differ or either vector has zero magnitude,
// so callers never divide by zero or fail on mismatched embeddings.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
