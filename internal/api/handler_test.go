package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zombar/sentimeter/internal/analyzer"
	"github.com/zombar/sentimeter/internal/database"
	"github.com/zombar/sentimeter/internal/models"
	"github.com/zombar/sentimeter/internal/wordlist"
)

// fakeQueue records enqueued tasks instead of talking to Redis.
type fakeQueue struct {
	textCalls []string
	urlCalls  []string
	err       error
}

func (f *fakeQueue) EnqueueAnalyzeText(ctx context.Context, analysisID, text, strategy string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.textCalls = append(f.textCalls, analysisID)
	return "task-" + analysisID, nil
}

func (f *fakeQueue) EnqueueAnalyzeURL(ctx context.Context, analysisID, url, strategy string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.urlCalls = append(f.urlCalls, analysisID)
	return "task-" + analysisID, nil
}

func setupHandler(t *testing.T) (http.Handler, *database.DB, *fakeQueue) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	queue := &fakeQueue{}
	handler := NewHandler(db, analyzer.New(wordlist.NewProvider("").Lists()), queue)
	return handler, db, queue
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	handler, _, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeSync(t *testing.T) {
	handler, _, queue := setupHandler(t)

	rec := postJSON(t, handler, "/api/analyze", map[string]any{
		"text": "The movie was amazing and wonderful",
		"sync": true,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.LabelPositive, result.Label)
	assert.Greater(t, result.Polarity, 0.0)
	assert.NotZero(t, result.WordCount)

	// Synchronous requests never touch the queue.
	assert.Empty(t, queue.textCalls)
	assert.Empty(t, queue.urlCalls)
}

func TestAnalyzeSyncWeighted(t *testing.T) {
	handler, _, _ := setupHandler(t)

	rec := postJSON(t, handler, "/api/analyze", map[string]any{
		"text":     "not good",
		"strategy": models.StrategyWeighted,
		"sync":     true,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.LabelNegative, result.Label)
	assert.Less(t, result.Polarity, 0.0)
}

func TestAnalyzeEnqueuesText(t *testing.T) {
	handler, _, queue := setupHandler(t)

	rec := postJSON(t, handler, "/api/analyze", map[string]any{
		"text": "queue me up",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "queued", body["status"])
	assert.NotEmpty(t, body["job_id"])
	assert.Equal(t, "task-"+body["job_id"], body["task_id"])
	assert.Len(t, queue.textCalls, 1)
}

func TestAnalyzeEnqueuesURL(t *testing.T) {
	handler, _, queue := setupHandler(t)

	rec := postJSON(t, handler, "/api/analyze", map[string]any{
		"url": "https://example.com/article",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Len(t, queue.urlCalls, 1)
	assert.Empty(t, queue.textCalls)
}

func TestAnalyzeValidation(t *testing.T) {
	handler, _, _ := setupHandler(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"neither text nor url", map[string]any{}},
		{"both text and url", map[string]any{"text": "hi", "url": "https://example.com"}},
		{"unknown strategy", map[string]any{"text": "hi", "strategy": "vibes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyzeQueueFailure(t *testing.T) {
	handler, _, queue := setupHandler(t)
	queue.err = errors.New("redis unavailable")

	rec := postJSON(t, handler, "/api/analyze", map[string]any{"text": "hello"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	handler, _, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func storeAnalysis(t *testing.T, db *database.DB, id, label string) {
	t.Helper()

	now := time.Now().UTC()
	require.NoError(t, db.SaveAnalysis(&models.Analysis{
		ID:        id,
		Text:      "stored text",
		Strategy:  models.StrategyCounting,
		Result:    models.AnalysisResult{Label: label, Polarity: 0.1},
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestJobStatus(t *testing.T) {
	handler, db, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/unknown-id", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var pending map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Equal(t, "pending", pending["status"])

	storeAnalysis(t, db, "job-1", models.LabelPositive)

	req = httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var done map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, "completed", done["status"])
	assert.NotNil(t, done["analysis"])
}

func TestListAnalyses(t *testing.T) {
	handler, db, _ := setupHandler(t)

	for i := 0; i < 3; i++ {
		storeAnalysis(t, db, fmt.Sprintf("list-%d", i), models.LabelNeutral)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/analyses?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var analyses []*models.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analyses))
	assert.Len(t, analyses, 2)
}

func TestListAnalysesEmpty(t *testing.T) {
	handler, _, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Empty list, not null
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetAndDeleteAnalysis(t *testing.T) {
	handler, db, _ := setupHandler(t)
	storeAnalysis(t, db, "crud-1", models.LabelNegative)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/crud-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var analysis models.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, "crud-1", analysis.ID)
	assert.Equal(t, models.LabelNegative, analysis.Result.Label)

	req = httptest.NewRequest(http.MethodDelete, "/api/analyses/crud-1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/analyses/crud-1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchByLabel(t *testing.T) {
	handler, db, _ := setupHandler(t)

	storeAnalysis(t, db, "s-1", models.LabelPositive)
	storeAnalysis(t, db, "s-2", models.LabelNegative)
	storeAnalysis(t, db, "s-3", models.LabelPositive)

	req := httptest.NewRequest(http.MethodGet, "/api/search?label=positive", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var analyses []*models.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analyses))
	assert.Len(t, analyses, 2)

	req = httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := generateID()
		assert.Len(t, id, 36)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	// Version nibble is 4, variant high bits are 10
	id := generateID()
	assert.Equal(t, byte('4'), id[14])
	assert.Contains(t, "89ab", string(id[19]))
}
