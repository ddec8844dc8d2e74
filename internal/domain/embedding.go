package domain

import "encoding/json"

// Neighbor is a vocabulary entry returned by a nearest-neighbour search.
type Neighbor struct {
	Label string
	Score float64
}

// MarshalJSON encodes a neighbour as a two-element [label, score] array.
func (n Neighbor) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{n.Label, n.Score})
}

// UnmarshalJSON decodes a [label, score] array.
func (n *Neighbor) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &n.Label); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &n.Score)
}

// HeaderFallback is the response header telling callers whether the body is
// the degenerate [[query, 1.0]] answer.
const HeaderFallback = "X-Similarity-Fallback"

// FallbackScore is the self-similarity reported when no real match is available.
const FallbackScore = 1.0

// Similarity is the outcome of a similarity query: either real matches or the
// degenerate fallback that echoes the query back with score 1.0.
type Similarity struct {
	Query     string
	Neighbors []Neighbor
	Fallback  bool
	Reason    error // why the fallback was taken; nil for real matches
}

// Matched builds a successful result.
func Matched(query string, neighbors []Neighbor) Similarity {
	if neighbors == nil {
		neighbors = []Neighbor{}
	}
	return Similarity{Query: query, Neighbors: neighbors}
}

// FallbackFor builds the degenerate [[query, 1.0]] result.
func FallbackFor(query string, reason error) Similarity {
	return Similarity{
		Query:     query,
		Neighbors: []Neighbor{{Label: query, Score: FallbackScore}},
		Fallback:  true,
		Reason:    reason,
	}
}
