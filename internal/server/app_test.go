package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-word2vec-similarity/internal/adapter/store"
	"github.com/arturoeanton/go-word2vec-similarity/internal/domain"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
)

type chanWriter chan domain.AuditRecord

func (w chanWriter) WriteAudit(rec domain.AuditRecord) error {
	w <- rec
	return nil
}

func newService(t *testing.T) *service.SimilarityService {
	t.Helper()
	kv, err := store.FromVectors(
		[]string{"cat", "dog", "car"},
		[][]float32{{1, 0.9, 0}, {0.9, 1, 0}, {0, 0.1, 1}},
	)
	require.NoError(t, err)
	return service.NewSimilarityService(kv)
}

func waitAudit(t *testing.T, w chanWriter) domain.AuditRecord {
	t.Helper()
	select {
	case rec := <-w:
		return rec
	case <-time.After(2 * time.Second):
		t.Fatal("no audit record written")
		return domain.AuditRecord{}
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	app := NewApp(newService(t), Options{AppName: "test"})

	req := httptest.NewRequest(http.MethodGet, "/similarity?query=cat", nil)
	req.Header.Set("Origin", "http://somewhere.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/similarity", nil)
	preflight.Header.Set("Origin", "http://elsewhere.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err = app.Test(preflight)
	require.NoError(t, err)
	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsUUID(t *testing.T) {
	app := NewApp(newService(t), Options{AppName: "test"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)

	_, err = uuid.Parse(resp.Header.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestAuditRecordsSimilarityOutcome(t *testing.T) {
	w := make(chanWriter, 4)
	app := NewApp(newService(t), Options{AppName: "test", Audit: w})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/similarity?query=cat", nil))
	require.NoError(t, err)
	_, _ = io.ReadAll(resp.Body)

	rec := waitAudit(t, w)
	assert.Equal(t, domain.AuditActionSimilarity, rec.Action)
	assert.Equal(t, "/similarity", rec.Path)
	assert.Equal(t, "cat", rec.Query)
	assert.Equal(t, http.StatusOK, rec.Status)
	assert.False(t, rec.Fallback)
	assert.Equal(t, resp.Header.Get("X-Request-ID"), rec.RequestID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/similarity?query=unicorn", nil))
	require.NoError(t, err)
	_, _ = io.ReadAll(resp.Body)

	rec = waitAudit(t, w)
	assert.True(t, rec.Fallback)
	assert.Equal(t, "unicorn", rec.Query)
}

func TestAuditRecordsClientErrors(t *testing.T) {
	w := make(chanWriter, 4)
	app := NewApp(newService(t), Options{AppName: "test", Audit: w})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/similarity", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	rec := waitAudit(t, w)
	assert.Equal(t, http.StatusBadRequest, rec.Status)
	assert.False(t, rec.Fallback)
}

func TestHealthThroughApp(t *testing.T) {
	w := make(chanWriter, 4)
	app := NewApp(service.NewSimilarityService(nil), Options{AppName: "test", Audit: w})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rec := waitAudit(t, w)
	assert.Equal(t, domain.AuditActionHTTPRequest, rec.Action)
}
