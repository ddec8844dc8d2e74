package audit

import (
	"context"
	"log/slog"

	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
)

// SlogWriter emits audit records as structured log lines.
type SlogWriter struct {
	logger *slog.Logger
}

// NewSlogWriter returns a writer logging through logger, or slog.Default() if nil.
func NewSlogWriter(logger *slog.Logger) *SlogWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogWriter{logger: logger}
}

// WriteAudit logs rec at info level under the "audit" message.
func (w *SlogWriter) WriteAudit(rec domain.AuditRecord) error {
	w.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit",
		slog.String("request_id", rec.RequestID),
		slog.String("action", rec.Action),
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		slog.String("query", rec.Query),
		slog.Int("status", rec.Status),
		slog.Bool("fallback", rec.Fallback),
		slog.Int64("duration_ms", rec.DurationMS),
		slog.String("ip", rec.IP),
		slog.String("user_agent", rec.UserAgent),
	)
	return nil
}
