package port

import (
	"context"

	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
)

// EmbeddingTable abstracts a read-only word embedding space.
// Implementations must be safe for concurrent reads.
type EmbeddingTable interface {
	// Dimension returns the length of every vector in the table.
	Dimension() int

	// Len returns the vocabulary size.
	Len() int

	// Vector returns a copy of the vector stored for word, or ErrTokenNotFound.
	Vector(word string) ([]float32, error)

	// MostSimilar returns up to topN entries ordered by descending cosine
	// similarity to vec. Nothing is excluded from the candidates.
	MostSimilar(ctx context.Context, vec []float32, topN int) ([]domain.Neighbor, error)
}
