package handler

import (
	"errors"
	"strconv"

	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
	"github.com/arturoeanton/go-word2vec-similarity/internal/port"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
	"github.com/gofiber/fiber/v3"
)

// SimilarityHandler serves nearest-neighbour queries.
type SimilarityHandler struct {
	svc *service.SimilarityService
}

// NewSimilarityHandler creates a new similarity handler.
func NewSimilarityHandler(svc *service.SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{svc: svc}
}

// Register sets up similarity routes.
func (h *SimilarityHandler) Register(router fiber.Router) {
	router.Get("/similarity", h.Similarity)
}

// Similarity returns up to ten [label, score] pairs for the query parameter.
func (h *SimilarityHandler) Similarity(c fiber.Ctx) error {
	query := c.Query("query")

	res, err := h.svc.MostSimilar(c.Context(), query, service.DefaultTopN)
	switch {
	case errors.Is(err, port.ErrQueryRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query is required"})
	case errors.Is(err, port.ErrNoTokens):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query must contain at least one token"})
	case err != nil:
		res = domain.FallbackFor(query, err)
	}

	c.Set(domain.HeaderFallback, strconv.FormatBool(res.Fallback))
	return c.JSON(res.Neighbors)
}
