package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Task type constants
const (
	TypeAnalyzeText = "sentimeter:analyze_text"
	TypeAnalyzeURL  = "sentimeter:analyze_url"
)

// Queue names by priority.
const (
	QueueAnalysis = "analysis"
	QueueScraping = "scraping"
)

// AnalyzeTextPayload represents the payload for a text analysis task
type AnalyzeTextPayload struct {
	AnalysisID string `json:"analysis_id"`
	Text       string `json:"text"`
	Strategy   string `json:"strategy"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// AnalyzeURLPayload represents the payload for a fetch-then-analyze task
type AnalyzeURLPayload struct {
	AnalysisID string `json:"analysis_id"`
	URL        string `json:"url"`
	Strategy   string `json:"strategy"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// Client wraps the Asynq client for enqueueing tasks
type Client struct {
	client *asynq.Client
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	return &Client{
		client: asynq.NewClient(redisOpt),
	}
}

// EnqueueAnalyzeText enqueues a text analysis task
func (c *Client) EnqueueAnalyzeText(ctx context.Context, analysisID, text, strategy string) (string, error) {
	payload := AnalyzeTextPayload{
		AnalysisID: analysisID,
		Text:       text,
		Strategy:   strategy,
		EnqueuedAt: time.Now().UnixNano(), // For queue wait metrics
	}
	payload.TraceID, payload.SpanID = spanIDs(ctx, TypeAnalyzeText, analysisID)

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TypeAnalyzeText, payloadBytes, asynq.TaskID(analysisID))

	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
		asynq.Queue(QueueAnalysis),
		asynq.Retention(7 * 24 * time.Hour),
	}

	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analyze text task: %w", err)
	}

	return info.ID, nil
}

// EnqueueAnalyzeURL enqueues a fetch-then-analyze task
func (c *Client) EnqueueAnalyzeURL(ctx context.Context, analysisID, url, strategy string) (string, error) {
	payload := AnalyzeURLPayload{
		AnalysisID: analysisID,
		URL:        url,
		Strategy:   strategy,
		EnqueuedAt: time.Now().UnixNano(),
	}
	payload.TraceID, payload.SpanID = spanIDs(ctx, TypeAnalyzeURL, analysisID)

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TypeAnalyzeURL, payloadBytes, asynq.TaskID(analysisID))

	opts := []asynq.Option{
		asynq.MaxRetry(5), // Fetches fail transiently more often than analysis
		asynq.Timeout(5 * time.Minute),
		asynq.Queue(QueueScraping),
		asynq.Retention(7 * 24 * time.Hour),
	}

	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analyze url task: %w", err)
	}

	return info.ID, nil
}

// spanIDs extracts the current trace/span IDs for propagation through the
// task payload, recording an enqueue event on the live span.
func spanIDs(ctx context.Context, taskType, analysisID string) (traceID, spanID string) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return "", ""
	}

	sc := span.SpanContext()
	span.AddEvent("task_enqueued", trace.WithAttributes(
		attribute.String("task.type", taskType),
		attribute.String("analysis_id", analysisID),
	))
	return sc.TraceID().String(), sc.SpanID().String()
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}
