package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
	"github.com/gofiber/fiber/v3"
)

// AuditWriter defines how audit records are emitted.
type AuditWriter interface {
	WriteAudit(rec domain.AuditRecord) error
}

// AuditMiddleware emits one record per request.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Fiber reuses context buffers after the handler returns; clone what the goroutine needs.
		method := strings.Clone(c.Method())
		path := strings.Clone(c.Path())
		query := strings.Clone(c.Query("query"))
		ip := strings.Clone(c.IP())
		userAgent := strings.Clone(c.Get(fiber.HeaderUserAgent))

		err := c.Next()

		action := domain.AuditActionHTTPRequest
		if path == "/similarity" {
			action = domain.AuditActionSimilarity
		}

		rec := domain.AuditRecord{
			RequestID:  strings.Clone(c.GetRespHeader(fiber.HeaderXRequestID)),
			Action:     action,
			Method:     method,
			Path:       path,
			Query:      query,
			Status:     c.Response().StatusCode(),
			Fallback:   c.GetRespHeader(domain.HeaderFallback) == "true",
			DurationMS: time.Since(start).Milliseconds(),
			IP:         ip,
			UserAgent:  userAgent,
			CreatedAt:  start,
		}

		go func() {
			if writeErr := writer.WriteAudit(rec); writeErr != nil {
				slog.Error("failed to write audit record", "error", writeErr)
			}
		}()

		return err
	}
}
