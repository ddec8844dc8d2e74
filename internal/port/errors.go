package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrQueryRequired     = errors.New("query is required")
	ErrNoTokens          = errors.New("query must contain at least one token")
	ErrModelNotLoaded    = errors.New("embedding model not loaded")
	ErrTokenNotFound     = errors.New("token not in vocabulary")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrZeroVector        = errors.New("query vector has zero norm")
	ErrInvalidModel      = errors.New("invalid word2vec model")
)
