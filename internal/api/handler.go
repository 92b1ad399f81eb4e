package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/zombar/sentimeter/internal/analyzer"
	"github.com/zombar/sentimeter/internal/database"
	"github.com/zombar/sentimeter/internal/models"
	"github.com/zombar/sentimeter/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// QueueClient is the slice of the queue client the handler needs.
type QueueClient interface {
	EnqueueAnalyzeText(ctx context.Context, analysisID, text, strategy string) (string, error)
	EnqueueAnalyzeURL(ctx context.Context, analysisID, url, strategy string) (string, error)
}

// Handler handles HTTP requests
type Handler struct {
	db          *database.DB
	analyzer    *analyzer.Analyzer
	queueClient QueueClient
	mux         *http.ServeMux
}

// NewHandler creates a new API handler with CORS support and metrics
func NewHandler(db *database.DB, textAnalyzer *analyzer.Analyzer, queueClient QueueClient) http.Handler {
	h := &Handler{
		db:          db,
		analyzer:    textAnalyzer,
		queueClient: queueClient,
		mux:         http.NewServeMux(),
	}

	h.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(h.mux)
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.Handler()) // Prometheus metrics endpoint
	h.mux.HandleFunc("/api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("/api/jobs/", h.handleJobStatus)
	h.mux.HandleFunc("/api/analyses", h.handleListAnalyses)
	h.mux.HandleFunc("/api/analyses/", h.handleAnalysisOperations)
	h.mux.HandleFunc("/api/search", h.handleSearchByLabel)
	h.mux.HandleFunc("/health", h.handleHealth)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleAnalyze accepts either raw text or a URL to fetch. Text requests
// can be answered synchronously; URL requests always go through the queue.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Text     string `json:"text,omitempty"`
		URL      string `json:"url,omitempty"`
		Strategy string `json:"strategy,omitempty"` // weighted or counting
		Sync     bool   `json:"sync,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Nothing to analyze is a caller error, not an all-zero analysis.
	if req.Text == "" && req.URL == "" {
		respondError(w, "Either text or url is required", http.StatusBadRequest)
		return
	}
	if req.Text != "" && req.URL != "" {
		respondError(w, "Provide either text or url, not both", http.StatusBadRequest)
		return
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = models.StrategyCounting
	}
	if strategy != models.StrategyCounting && strategy != models.StrategyWeighted {
		respondError(w, fmt.Sprintf("Unknown strategy %q", strategy), http.StatusBadRequest)
		return
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.Int("text.length", len(req.Text)),
		attribute.String("analysis.strategy", strategy))

	// Synchronous path: compute and return in the request, nothing stored.
	if req.Sync && req.Text != "" {
		result := h.analyzer.Analyze(req.Text, strategy)
		respondJSON(w, result, http.StatusOK)
		return
	}

	analysisID := generateID()

	var (
		taskID string
		err    error
	)
	if req.URL != "" {
		taskID, err = h.queueClient.EnqueueAnalyzeURL(r.Context(), analysisID, req.URL, strategy)
	} else {
		taskID, err = h.queueClient.EnqueueAnalyzeText(r.Context(), analysisID, req.Text, strategy)
	}
	if err != nil {
		respondError(w, fmt.Sprintf("Failed to enqueue analysis: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{
		"job_id":  analysisID,
		"task_id": taskID,
		"status":  "queued",
	}, http.StatusAccepted)
}

// handleJobStatus handles job status requests
func (h *Handler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if idx := strings.Index(jobID, "/"); idx != -1 {
		jobID = jobID[:idx]
	}
	if jobID == "" {
		respondError(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	analysis, err := h.db.GetAnalysis(jobID)
	if err != nil {
		if err == database.ErrNotFound {
			respondJSON(w, map[string]interface{}{
				"job_id":  jobID,
				"status":  "pending",
				"message": "Analysis not complete - it may still be queued",
			}, http.StatusNotFound)
			return
		}
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{
		"job_id":   jobID,
		"status":   "completed",
		"analysis": analysis,
	}, http.StatusOK)
}

// handleListAnalyses handles listing all analyses with pagination
func (h *Handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 10
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	analyses, err := h.db.ListAnalyses(limit, offset)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if analyses == nil {
		analyses = []*models.Analysis{}
	}
	respondJSON(w, analyses, http.StatusOK)
}

// handleAnalysisOperations handles GET and DELETE for specific analyses
func (h *Handler) handleAnalysisOperations(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if id == "" {
		respondError(w, "Analysis ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getAnalysis(w, id)
	case http.MethodDelete:
		h.deleteAnalysis(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// getAnalysis retrieves a specific analysis
func (h *Handler) getAnalysis(w http.ResponseWriter, id string) {
	analysis, err := h.db.GetAnalysis(id)
	if err != nil {
		if err == database.ErrNotFound {
			respondError(w, err.Error(), http.StatusNotFound)
		} else {
			respondError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, analysis, http.StatusOK)
}

// deleteAnalysis deletes a specific analysis
func (h *Handler) deleteAnalysis(w http.ResponseWriter, id string) {
	if err := h.db.DeleteAnalysis(id); err != nil {
		if err == database.ErrNotFound {
			respondError(w, err.Error(), http.StatusNotFound)
		} else {
			respondError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchByLabel handles searching analyses by sentiment label
func (h *Handler) handleSearchByLabel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	label := r.URL.Query().Get("label")
	if label == "" {
		respondError(w, "Label parameter is required", http.StatusBadRequest)
		return
	}

	analyses, err := h.db.GetAnalysesByLabel(label)
	if err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if analyses == nil {
		analyses = []*models.Analysis{}
	}
	respondJSON(w, analyses, http.StatusOK)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// generateID generates a UUID for an analysis
func generateID() string {
	uuid := make([]byte, 16)
	_, err := rand.Read(uuid)
	if err != nil {
		// Fallback to timestamp-based ID if random generation fails
		return time.Now().Format("20060102150405") + "-" + strconv.FormatInt(time.Now().UnixNano()%1000000, 10)
	}

	// Set version (4) and variant bits according to RFC 4122
	uuid[6] = (uuid[6] & 0x0f) | 0x40
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hex.EncodeToString(uuid[0:4]),
		hex.EncodeToString(uuid[4:6]),
		hex.EncodeToString(uuid[6:8]),
		hex.EncodeToString(uuid[8:10]),
		hex.EncodeToString(uuid[10:16]))
}
