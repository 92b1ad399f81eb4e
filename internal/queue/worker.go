package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/zombar/sentimeter/internal/analyzer"
	"github.com/zombar/sentimeter/internal/database"
	"github.com/zombar/sentimeter/internal/metrics"
	"github.com/zombar/sentimeter/internal/ollama"
	"github.com/zombar/sentimeter/internal/scraper"
)

// Worker wraps the Asynq server for processing tasks
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	db           *database.DB
	analyzer     *analyzer.Analyzer
	scraper      *scraper.Scraper
	ollamaClient *ollama.Client // nil when model enrichment is disabled
	logger       *slog.Logger
	metrics      *metrics.Metrics
	concurrency  int
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
}

// NewWorker creates a new queue worker
func NewWorker(
	cfg WorkerConfig,
	db *database.DB,
	textAnalyzer *analyzer.Analyzer,
	pageScraper *scraper.Scraper,
	ollamaClient *ollama.Client,
	m *metrics.Metrics,
) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	serverCfg := asynq.Config{
		Concurrency: cfg.Concurrency,

		// Analysis is cheap and should not starve behind slow fetches.
		Queues: map[string]int{
			QueueAnalysis: 6,
			QueueScraping: 3,
		},
		StrictPriority: false,

		RetryDelayFunc: retryDelay,

		ShutdownTimeout: 30 * time.Second,

		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			slog.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:       asynq.NewServer(redisOpt, serverCfg),
		mux:          asynq.NewServeMux(),
		db:           db,
		analyzer:     textAnalyzer,
		scraper:      pageScraper,
		ollamaClient: ollamaClient,
		logger:       slog.Default(),
		metrics:      m,
		concurrency:  cfg.Concurrency,
	}

	w.registerHandlers()

	return w
}

// retryDelay backs off harder for URL fetches, which tend to fail for
// longer stretches (remote outages, rate limiting) than local analysis.
func retryDelay(n int, err error, task *asynq.Task) time.Duration {
	if task.Type() == TypeAnalyzeURL {
		delays := []time.Duration{
			30 * time.Second,
			2 * time.Minute,
			10 * time.Minute,
			30 * time.Minute,
			1 * time.Hour,
		}
		if n < len(delays) {
			return delays[n]
		}
		return delays[len(delays)-1]
	}

	delays := []time.Duration{
		30 * time.Second,
		1 * time.Minute,
		5 * time.Minute,
	}
	if n < len(delays) {
		return delays[n]
	}
	return delays[len(delays)-1]
}

// registerHandlers registers all task handlers with the worker
func (w *Worker) registerHandlers() {
	w.mux.HandleFunc(TypeAnalyzeText, w.handleAnalyzeText)
	w.mux.HandleFunc(TypeAnalyzeURL, w.handleAnalyzeURL)
}

// Start starts the worker to begin processing tasks
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queues", map[string]int{QueueAnalysis: 6, QueueScraping: 3},
		"model_enrichment", w.ollamaClient != nil,
	)

	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}
