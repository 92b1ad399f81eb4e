package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/zombar/sentimeter/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// handleAnalyzeText runs the analyzer over the payload text and stores the
// result.
func (w *Worker) handleAnalyzeText(ctx context.Context, t *asynq.Task) error {
	var payload AnalyzeTextPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %w", err)
	}

	ctx, span := w.resumeTrace(ctx, "asynq.task.analyze_text", TypeAnalyzeText,
		payload.AnalysisID, payload.TraceID, payload.SpanID, payload.EnqueuedAt)
	if span != nil {
		defer span.End()
	}

	w.logger.Info("analyzing text",
		"analysis_id", payload.AnalysisID,
		"strategy", payload.Strategy,
		"text_length", len(payload.Text),
	)

	return w.analyzeAndSave(ctx, payload.AnalysisID, payload.Text, "", payload.Strategy)
}

// handleAnalyzeURL fetches the page, then analyzes the extracted text.
func (w *Worker) handleAnalyzeURL(ctx context.Context, t *asynq.Task) error {
	var payload AnalyzeURLPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %w", err)
	}

	ctx, span := w.resumeTrace(ctx, "asynq.task.analyze_url", TypeAnalyzeURL,
		payload.AnalysisID, payload.TraceID, payload.SpanID, payload.EnqueuedAt)
	if span != nil {
		defer span.End()
	}

	w.logger.Info("fetching url for analysis",
		"analysis_id", payload.AnalysisID,
		"url", payload.URL,
		"strategy", payload.Strategy,
	)

	text, err := w.scraper.Fetch(ctx, payload.URL)
	if err != nil {
		w.metrics.ScrapesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to fetch %s: %w", payload.URL, err)
	}
	w.metrics.ScrapesTotal.WithLabelValues("ok").Inc()

	// An empty page means there is nothing to analyze; storing an all-zero
	// analysis would be misleading, so the task fails and retries.
	if text == "" {
		return fmt.Errorf("no visible text extracted from %s", payload.URL)
	}

	return w.analyzeAndSave(ctx, payload.AnalysisID, text, payload.URL, payload.Strategy)
}

// analyzeAndSave is the shared tail of both task handlers: compute the
// metrics, optionally enrich with the model verdict, persist.
func (w *Worker) analyzeAndSave(ctx context.Context, analysisID, text, sourceURL, strategy string) error {
	start := time.Now()
	result := w.analyzer.Analyze(text, strategy)
	w.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if w.ollamaClient != nil {
		if verdict, err := w.ollamaClient.ClassifySentiment(ctx, text); err == nil {
			result.ModelLabel = verdict.Label
			result.ModelScore = verdict.Score
		} else {
			// The lexicon result stands on its own; model enrichment is
			// best effort.
			w.logger.Warn("model classification failed, keeping lexicon result",
				"analysis_id", analysisID, "error", err)
		}
	}

	now := time.Now()
	analysis := &models.Analysis{
		ID:        analysisID,
		Text:      text,
		SourceURL: sourceURL,
		Strategy:  normalizeStrategy(strategy),
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := w.db.SaveAnalysis(analysis); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	w.metrics.AnalysesTotal.WithLabelValues(analysis.Strategy, result.Label).Inc()

	w.logger.Info("analysis completed",
		"analysis_id", analysisID,
		"strategy", analysis.Strategy,
		"label", result.Label,
		"polarity", result.Polarity,
		"fog_index", result.FogIndex,
	)

	return nil
}

func normalizeStrategy(strategy string) string {
	if strategy == models.StrategyWeighted {
		return models.StrategyWeighted
	}
	return models.StrategyCounting
}

// resumeTrace reconstructs the producer's span context from the payload so
// the consumer span links back to the enqueue, and records the queue wait.
func (w *Worker) resumeTrace(ctx context.Context, spanName, taskType, analysisID, traceIDHex, spanIDHex string, enqueuedAt int64) (context.Context, trace.Span) {
	var queueWait time.Duration
	if enqueuedAt > 0 {
		queueWait = time.Since(time.Unix(0, enqueuedAt))
		w.metrics.QueueWaitSeconds.Observe(queueWait.Seconds())
	}

	if traceIDHex == "" || spanIDHex == "" {
		return ctx, nil
	}

	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil {
		return ctx, nil
	}
	spanID, err := trace.SpanIDFromHex(spanIDHex)
	if err != nil {
		return ctx, nil
	}

	remoteSpanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx = trace.ContextWithRemoteSpanContext(ctx, remoteSpanCtx)

	ctx, span := otel.Tracer("sentimeter").Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", taskType),
			attribute.String("analysis.id", analysisID),
			attribute.Float64("queue.wait_time_seconds", queueWait.Seconds()),
		),
	)
	return ctx, span
}
