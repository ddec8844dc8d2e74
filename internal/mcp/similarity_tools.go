package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
	"github.com/arturoeanton/go-word2vec-similarity/internal/port"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
)

const maxTopN = 100

func (s *Server) registerTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "most_similar",
		Description: "Find the words and phrases closest to a query in the word2vec embedding space. Multi-word queries are summed.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "One or more whitespace-separated words.", "minLength": 1},
				"topn": {"type": "number", "description": "Number of neighbours to return (default 10, max 100)"}
			},
			"required": ["query"]
		}`),
	}, s.handleMostSimilar)
}

func (s *Server) handleMostSimilar(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Query string `json:"query"`
		TopN  int    `json:"topn"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	topN := args.TopN
	if topN <= 0 {
		topN = service.DefaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	start := time.Now()
	res, err := s.similarity.MostSimilar(ctx, args.Query, topN)
	s.record(args.Query, res, err, start)

	switch {
	case errors.Is(err, port.ErrQueryRequired):
		return toolError("query is required"), nil
	case errors.Is(err, port.ErrNoTokens):
		return toolError("query must contain at least one token"), nil
	case err != nil:
		return toolError("similarity failed: %v", err), nil
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: formatNeighbors(res.Neighbors)}},
	}, nil
}

// formatNeighbors renders one "label\tscore" line per neighbour.
func formatNeighbors(neighbors []domain.Neighbor) string {
	var b strings.Builder
	for _, n := range neighbors {
		fmt.Fprintf(&b, "%s\t%.6f\n", n.Label, n.Score)
	}
	return b.String()
}

func (s *Server) record(query string, res domain.Similarity, err error, start time.Time) {
	if s.audit == nil {
		return
	}
	status := 200
	if err != nil {
		status = 400
	}
	rec := domain.AuditRecord{
		Action:     domain.AuditActionMCPCall,
		Path:       "most_similar",
		Query:      query,
		Status:     status,
		Fallback:   res.Fallback,
		DurationMS: time.Since(start).Milliseconds(),
		CreatedAt:  start,
	}
	if writeErr := s.audit.WriteAudit(rec); writeErr != nil {
		slog.Error("failed to write audit record", "error", writeErr)
	}
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
