package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/catalog"
	"github.com/Dicklesworthstone/ranker/internal/config"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/mode"
	hashembed "github.com/Dicklesworthstone/ranker/internal/embedding"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
	logpkg "github.com/Dicklesworthstone/ranker/internal/logger"
	"github.com/Dicklesworthstone/ranker/internal/metrics"
	indexrepo "github.com/Dicklesworthstone/ranker/internal/repository/index"
	"github.com/Dicklesworthstone/ranker/internal/scoring"
	"github.com/Dicklesworthstone/ranker/internal/synonym"
	chiTransport "github.com/Dicklesworthstone/ranker/internal/transport/chi"
	embeddinguc "github.com/Dicklesworthstone/ranker/internal/usecase/embedding"
	healthuc "github.com/Dicklesworthstone/ranker/internal/usecase/health"
	indexinguc "github.com/Dicklesworthstone/ranker/internal/usecase/indexing"
	recommendationuc "github.com/Dicklesworthstone/ranker/internal/usecase/recommendation"
	searchuc "github.com/Dicklesworthstone/ranker/internal/usecase/search"
	similarityuc "github.com/Dicklesworthstone/ranker/internal/usecase/similarity"
	"github.com/Dicklesworthstone/ranker/internal/version"
)

func main() {
	// Optional .env for local runs; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ranker API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("search_mode", cfg.Search.Mode),
	)

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	synonyms := synonym.Default()
	if cfg.Synonyms.Path != "" {
		synonyms, err = synonym.Load(cfg.Synonyms.Path)
		if err != nil {
			logger.Fatal("Failed to load synonyms", zap.Error(err))
		}
	}
	logger.Info("Synonym table ready", zap.Int("entries", synonyms.Len()))

	weights := scoring.Weights{
		Title:       cfg.Scoring.Weights.Title,
		ID:          cfg.Scoring.Weights.ID,
		Tags:        cfg.Scoring.Weights.Tags,
		Description: cfg.Scoring.Weights.Description,
		Content:     cfg.Scoring.Weights.Content,
	}
	if err := weights.Validate(); err != nil {
		logger.Fatal("Invalid scoring weights", zap.Error(err))
	}
	params := bm25.Params{K1: cfg.Index.K1, B: cfg.Index.B}
	if err := params.Validate(); err != nil {
		logger.Fatal("Invalid index parameters", zap.Error(err))
	}

	hashEmbedder, err := hashembed.NewHashEmbedder(cfg.Embedding.Dimensions)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	embedder := embeddinguc.NewInstrumentedEmbedder(hashEmbedder, embeddinguc.DefaultMaxBatchSize)

	// Repositories and use case services
	repo := indexrepo.New(params)
	scorer := scoring.New(weights)
	source := catalog.NewSource(cfg.Catalog.Path)

	indexingSvc := indexinguc.New(source, repo)
	searchSvc := searchuc.New(repo, scorer, synonyms)
	recommendationSvc := recommendationuc.New(repo)
	similaritySvc := similarityuc.New(repo, scorer, embedder)
	healthSvc := healthuc.New(repo, source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// An unreadable catalog at startup leaves the server up and unhealthy
	// until a watched change or an explicit rebuild succeeds.
	bootCtx := logpkg.ContextWithLogger(ctx, logger)
	if sum, err := indexingSvc.Reload(bootCtx); err != nil {
		logger.Error("Initial index build failed", zap.Error(err))
	} else {
		logger.Info("Initial index built",
			zap.Int("documents", sum.Documents), zap.Int("terms", sum.Terms))
	}

	if cfg.Catalog.Watch {
		watcher, err := catalog.NewWatcher(cfg.Catalog.Path,
			time.Duration(cfg.Catalog.DebounceMs)*time.Millisecond,
			func(ctx context.Context) error {
				_, err := indexingSvc.Reload(ctx)
				return err
			},
			logger.Named("catalog"),
		)
		if err != nil {
			logger.Fatal("Failed to watch catalog", zap.Error(err))
		}
		go func() {
			if err := watcher.Run(bootCtx); err != nil {
				logger.Error("Catalog watcher stopped", zap.Error(err))
			}
		}()
		logger.Info("Watching catalog", zap.String("path", cfg.Catalog.Path))
	}

	server := chiTransport.NewServer(chiTransport.Services{
		Index:           repo,
		Search:          searchSvc,
		Recommendations: recommendationSvc,
		Similarity:      similaritySvc,
		Indexing:        indexingSvc,
		Health:          healthSvc,
		Synonyms:        synonyms,
	}, chiTransport.Defaults{
		Mode:               mode.Mode(cfg.Search.Mode),
		ExpandSynonyms:     *cfg.Search.ExpandSynonyms,
		Limit:              cfg.Search.DefaultLimit,
		EmbeddingDims:      cfg.Embedding.Dimensions,
		DuplicateThreshold: cfg.Embedding.DuplicateThreshold,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
