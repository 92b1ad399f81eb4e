package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zombar/sentimeter/internal/analyzer"
	"github.com/zombar/sentimeter/internal/api"
	"github.com/zombar/sentimeter/internal/database"
	"github.com/zombar/sentimeter/internal/metrics"
	"github.com/zombar/sentimeter/internal/ollama"
	"github.com/zombar/sentimeter/internal/queue"
	"github.com/zombar/sentimeter/internal/scraper"
	"github.com/zombar/sentimeter/internal/wordlist"
	"github.com/zombar/sentimeter/pkg/logging"
	"github.com/zombar/sentimeter/pkg/tracing"
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("sentimeter service initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer("sentimeter")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	// Get default values from environment variables, with fallbacks
	portDefault := getEnv("PORT", "8080")
	dbPathDefault := getEnv("DB_PATH", "sentimeter.db")
	redisAddrDefault := getEnv("REDIS_ADDR", "localhost:6379")
	wordListDirDefault := getEnv("WORDLIST_DIR", "")
	ollamaURLDefault := getEnv("OLLAMA_URL", "http://localhost:11434")
	ollamaModelDefault := getEnv("OLLAMA_MODEL", ollama.DefaultModel)
	useOllamaDefault := getEnvBool("USE_OLLAMA", false)
	concurrencyDefault := 10

	var (
		port        = flag.String("port", portDefault, "Server port (env: PORT)")
		dbPath      = flag.String("db", dbPathDefault, "Database file path (env: DB_PATH)")
		redisAddr   = flag.String("redis", redisAddrDefault, "Redis address for the task queue (env: REDIS_ADDR)")
		wordListDir = flag.String("wordlists", wordListDirDefault, "Directory with word list files; empty uses embedded defaults (env: WORDLIST_DIR)")
		ollamaURL   = flag.String("ollama-url", ollamaURLDefault, "Ollama API URL (env: OLLAMA_URL)")
		ollamaModel = flag.String("ollama-model", ollamaModelDefault, "Ollama model to use (env: OLLAMA_MODEL)")
		useOllama   = flag.Bool("use-ollama", useOllamaDefault, "Enable model-backed sentiment enrichment (env: USE_OLLAMA)")
		concurrency = flag.Int("concurrency", concurrencyDefault, "Worker concurrency")
	)
	flag.Parse()

	// Initialize database
	db, err := database.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err, "database_path", *dbPath)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Word lists are loaded once and shared read-only across all analyses.
	lists := wordlist.NewProvider(*wordListDir).Lists()
	logger.Info("word lists loaded",
		"positive", lists.Positive.Len(),
		"negative", lists.Negative.Len(),
		"stop", lists.Stop.Len(),
	)

	textAnalyzer := analyzer.New(lists)
	pageScraper := scraper.New()
	serviceMetrics := metrics.New("sentimeter")

	// Optional model enrichment
	var ollamaClient *ollama.Client
	if *useOllama {
		ollamaClient, err = ollama.New(*ollamaURL, *ollamaModel)
		if err != nil {
			logger.Warn("failed to initialize Ollama client, continuing with lexicon-only analysis",
				"error", err,
				"ollama_url", *ollamaURL,
			)
		} else {
			logger.Info("Ollama client initialized", "model", *ollamaModel, "url", *ollamaURL)
		}
	}

	// Queue client and worker
	queueClient := queue.NewClient(queue.ClientConfig{RedisAddr: *redisAddr})
	defer queueClient.Close()

	worker := queue.NewWorker(
		queue.WorkerConfig{RedisAddr: *redisAddr, Concurrency: *concurrency},
		db, textAnalyzer, pageScraper, ollamaClient, serviceMetrics,
	)
	go func() {
		if err := worker.Start(); err != nil {
			logger.Error("worker failed", "error", err)
			os.Exit(1)
		}
	}()

	// Initialize API handler
	apiHandler := api.NewHandler(db, textAnalyzer, queueClient)

	// Middleware chain: HTTP logging -> tracing -> handlers
	handler := logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware("sentimeter")(apiHandler),
	)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("sentimeter service starting",
			"port", *port,
			"database", *dbPath,
			"redis", *redisAddr,
			"ollama_enabled", ollamaClient != nil,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
