package handler

import (
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
	"github.com/gofiber/fiber/v3"
)

// HealthHandler reports liveness and model state.
type HealthHandler struct {
	appName string
	svc     *service.SimilarityService
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(appName string, svc *service.SimilarityService) *HealthHandler {
	return &HealthHandler{appName: appName, svc: svc}
}

// Register sets up health routes.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Health always answers 200; a missing model is a degraded but healthy state.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	loaded, vocab, dim := h.svc.ModelInfo()
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"app":          h.appName,
		"model_loaded": loaded,
		"vocab_size":   vocab,
		"dimension":    dim,
	})
}
