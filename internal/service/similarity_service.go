package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
	"github.com/arturoeanton/go-word2vec-similarity/internal/port"
)

// DefaultTopN is how many neighbours the HTTP endpoint returns.
const DefaultTopN = 10

// SimilarityService answers nearest-neighbour queries over a word embedding table.
type SimilarityService struct {
	table port.EmbeddingTable // nil when no model was loaded
}

// NewSimilarityService creates a service. table may be nil, in which case every
// valid query gets the fallback answer.
func NewSimilarityService(table port.EmbeddingTable) *SimilarityService {
	return &SimilarityService{table: table}
}

// ModelInfo reports whether a table is loaded and its shape.
func (s *SimilarityService) ModelInfo() (loaded bool, vocabSize, dimension int) {
	if s.table == nil {
		return false, 0, 0
	}
	return true, s.table.Len(), s.table.Dimension()
}

// Tokenize splits a query on whitespace. The ASCII information separators
// U+001C..U+001F count as whitespace too.
func Tokenize(query string) []string {
	return strings.FieldsFunc(query, isSeparator)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// MostSimilar sums the vectors of every query token and returns the topN
// nearest vocabulary entries. Only client errors (ErrQueryRequired,
// ErrNoTokens) are returned as errors; an unloaded model, an unknown token or
// any failure in the search produce a fallback result instead.
func (s *SimilarityService) MostSimilar(ctx context.Context, query string, topN int) (domain.Similarity, error) {
	if query == "" {
		return domain.Similarity{}, port.ErrQueryRequired
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return domain.Similarity{}, port.ErrNoTokens
	}

	if s.table == nil {
		slog.Debug("similarity fallback", "query", query, "reason", port.ErrModelNotLoaded)
		return domain.FallbackFor(query, port.ErrModelNotLoaded), nil
	}

	neighbors, err := s.search(ctx, tokens, topN)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, port.ErrTokenNotFound) {
			level = slog.LevelDebug
		}
		slog.Log(ctx, level, "similarity fallback", "query", query, "tokens", len(tokens), "reason", err)
		return domain.FallbackFor(query, err), nil
	}

	return domain.Matched(query, neighbors), nil
}

func (s *SimilarityService) search(ctx context.Context, tokens []string, topN int) (neighbors []domain.Neighbor, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("similarity search panicked: %v", r)
		}
	}()

	first, err := s.table.Vector(tokens[0])
	if err != nil {
		return nil, err
	}
	sum := append([]float32(nil), first...)

	for _, tok := range tokens[1:] {
		v, err := s.table.Vector(tok)
		if err != nil {
			return nil, err
		}
		if len(v) != len(sum) {
			return nil, fmt.Errorf("%w: %q", port.ErrDimensionMismatch, tok)
		}
		for i := range sum {
			sum[i] += v[i]
		}
	}

	neighbors, err = s.table.MostSimilar(ctx, sum, topN)
	if err != nil {
		return nil, err
	}
	for _, n := range neighbors {
		if math.IsNaN(n.Score) || math.IsInf(n.Score, 0) {
			return nil, fmt.Errorf("non-finite score for %q", n.Label)
		}
	}
	return neighbors, nil
}
