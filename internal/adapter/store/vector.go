package store

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
	"github.com/arturoeanton/go-word2vec-similarity/internal/port"
)

// ctxCheckInterval is how many rows are scored between context checks.
const ctxCheckInterval = 1 << 14

var _ port.EmbeddingTable = (*KeyedVectors)(nil)

// KeyedVectors is an immutable in-memory word embedding table with exact
// cosine nearest-neighbour search. It is safe for concurrent reads once built.
type KeyedVectors struct {
	dimension int
	words     []string
	index     map[string]int
	vectors   []float32 // row-major, len(words)*dimension
	norms     []float64
}

func newKeyedVectors(dimension, capacity int) *KeyedVectors {
	return &KeyedVectors{
		dimension: dimension,
		words:     make([]string, 0, capacity),
		index:     make(map[string]int, capacity),
		vectors:   make([]float32, 0, capacity*dimension),
		norms:     make([]float64, 0, capacity),
	}
}

// add appends a row, copying vec. Returns false if word already exists.
func (kv *KeyedVectors) add(word string, vec []float32) bool {
	if _, dup := kv.index[word]; dup {
		return false
	}
	kv.index[word] = len(kv.words)
	kv.words = append(kv.words, word)
	kv.vectors = append(kv.vectors, vec...)
	kv.norms = append(kv.norms, norm(vec))
	return true
}

// FromVectors builds a table from parallel word and vector slices.
// Duplicate words keep their first vector.
func FromVectors(words []string, vectors [][]float32) (*KeyedVectors, error) {
	if len(words) != len(vectors) {
		return nil, fmt.Errorf("%w: %d words but %d vectors", port.ErrInvalidModel, len(words), len(vectors))
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", port.ErrInvalidModel)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length vectors", port.ErrInvalidModel)
	}

	kv := newKeyedVectors(dim, len(words))
	for i, w := range words {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("%w: %q has %d values, want %d", port.ErrDimensionMismatch, w, len(vectors[i]), dim)
		}
		if !finite(vectors[i]) {
			return nil, fmt.Errorf("%w: %q has a non-finite value", port.ErrInvalidModel, w)
		}
		kv.add(w, vectors[i])
	}
	return kv, nil
}

// Dimension returns the vector length.
func (kv *KeyedVectors) Dimension() int { return kv.dimension }

// Len returns the vocabulary size.
func (kv *KeyedVectors) Len() int { return len(kv.words) }

// Contains reports whether word is in the vocabulary.
func (kv *KeyedVectors) Contains(word string) bool {
	_, ok := kv.index[word]
	return ok
}

// Vector returns a copy of the stored vector so callers can accumulate into it.
func (kv *KeyedVectors) Vector(word string) ([]float32, error) {
	row, ok := kv.index[word]
	if !ok {
		return nil, fmt.Errorf("%w: %q", port.ErrTokenNotFound, word)
	}
	out := make([]float32, kv.dimension)
	copy(out, kv.row(row))
	return out, nil
}

func (kv *KeyedVectors) row(i int) []float32 {
	return kv.vectors[i*kv.dimension : (i+1)*kv.dimension]
}

// MostSimilar performs an exact cosine similarity scan over every row and
// returns the topN best, ordered by score desc then vocabulary order.
func (kv *KeyedVectors) MostSimilar(ctx context.Context, vec []float32, topN int) ([]domain.Neighbor, error) {
	if len(vec) != kv.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", port.ErrDimensionMismatch, len(vec), kv.dimension)
	}
	if topN <= 0 || len(kv.words) == 0 {
		return []domain.Neighbor{}, nil
	}

	qn := norm(vec)
	if qn == 0 {
		return nil, port.ErrZeroVector
	}
	if math.IsNaN(qn) || math.IsInf(qn, 0) {
		return nil, fmt.Errorf("query vector is not finite")
	}

	unit := make([]float64, kv.dimension)
	for i, v := range vec {
		unit[i] = float64(v) / qn
	}

	best := make(candidateHeap, 0, min(topN, len(kv.words)))
	for r := range kv.words {
		if r%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		var score float64
		if n := kv.norms[r]; n != 0 {
			var dot float64
			for i, v := range kv.row(r) {
				dot += unit[i] * float64(v)
			}
			score = clamp(dot / n)
		}

		c := candidate{row: r, score: score}
		if best.Len() < topN {
			heap.Push(&best, c)
		} else if c.score > best[0].score {
			// rows arrive in ascending order, so an equal score never displaces the root
			best[0] = c
			heap.Fix(&best, 0)
		}
	}

	sort.Slice(best, func(i, j int) bool { return best.Less(j, i) })

	out := make([]domain.Neighbor, len(best))
	for i, c := range best {
		out[i] = domain.Neighbor{Label: kv.words[c.row], Score: c.score}
	}
	return out, nil
}

type candidate struct {
	row   int
	score float64
}

// candidateHeap is a min-heap keyed on "worse": lower score, then later row.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].row > h[j].row
}
func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)   { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// finite reports whether every value in v is neither NaN nor infinite.
func finite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func clamp(s float64) float64 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}
