package mcp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-word2vec-similarity/internal/adapter/store"
	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
)

type sliceWriter struct{ recs []domain.AuditRecord }

func (w *sliceWriter) WriteAudit(rec domain.AuditRecord) error {
	w.recs = append(w.recs, rec)
	return nil
}

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	kv, err := store.FromVectors(
		[]string{"paris", "france", "berlin", "germany"},
		[][]float32{{1, 0.2, 0}, {0.9, 0.3, 0.1}, {0.1, 1, 0.2}, {0.2, 0.9, 0.3}},
	)
	require.NoError(t, err)

	s, err := NewServer(service.NewSimilarityService(kv), opts...)
	require.NoError(t, err)
	return s
}

func callTool(t *testing.T, s *Server, args map[string]any) *gomcp.CallToolResult {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	require.NoError(t, err)

	req := &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{
			Name:      "most_similar",
			Arguments: argsJSON,
		},
	}
	result, err := s.handleMostSimilar(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

// parseNeighbors reads the tool's "label\tscore" lines back into neighbours.
func parseNeighbors(t *testing.T, text string) []domain.Neighbor {
	t.Helper()
	var out []domain.Neighbor
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		label, score, ok := strings.Cut(line, "\t")
		require.True(t, ok, "line %q has no tab", line)
		f, err := strconv.ParseFloat(score, 64)
		require.NoError(t, err)
		out = append(out, domain.Neighbor{Label: label, Score: f})
	}
	return out
}

func TestNewServerRequiresService(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestNewServerOptions(t *testing.T) {
	w := &sliceWriter{}
	s := newTestServer(t, WithPort("6001"), WithAuditWriter(w))
	assert.Equal(t, "6001", s.port)
	assert.Same(t, w, s.audit)
	assert.NotNil(t, s.Handler())
}

func TestMostSimilarTool(t *testing.T) {
	w := &sliceWriter{}
	s := newTestServer(t, WithAuditWriter(w))

	result := callTool(t, s, map[string]any{"query": "paris", "topn": 2})
	assert.False(t, result.IsError)

	text := resultText(result)
	assert.True(t, strings.HasSuffix(text, "\n"))
	assert.Equal(t, 2, strings.Count(text, "\n"))

	neighbors := parseNeighbors(t, text)
	require.Len(t, neighbors, 2)
	assert.Equal(t, "paris", neighbors[0].Label)
	assert.InDelta(t, 1.0, neighbors[0].Score, 1e-6)
	assert.Equal(t, "france", neighbors[1].Label)

	require.Len(t, w.recs, 1)
	assert.Equal(t, domain.AuditActionMCPCall, w.recs[0].Action)
	assert.False(t, w.recs[0].Fallback)
}

func TestMostSimilarToolDefaultsTopN(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, map[string]any{"query": "berlin"})
	assert.Len(t, parseNeighbors(t, resultText(result)), 4)
}

func TestMostSimilarToolFallback(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, map[string]any{"query": "atlantis"})
	assert.False(t, result.IsError)
	assert.Equal(t, "atlantis\t1.000000\n", resultText(result))
}

func TestMostSimilarToolInputErrors(t *testing.T) {
	s := newTestServer(t)

	result := callTool(t, s, map[string]any{"query": ""})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "query is required")

	result = callTool(t, s, map[string]any{"query": "   "})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "at least one token")

	req := &gomcp.CallToolRequest{Params: &gomcp.CallToolParamsRaw{Name: "most_similar", Arguments: json.RawMessage(`{"query": 5}`)}}
	result, err := s.handleMostSimilar(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
