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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/goldenspoon/dinebot/internal/config"
	"github.com/goldenspoon/dinebot/internal/db"
	"github.com/goldenspoon/dinebot/internal/db/postgres"
	dbRedis "github.com/goldenspoon/dinebot/internal/db/redis"
	logpkg "github.com/goldenspoon/dinebot/internal/logger"
	"github.com/goldenspoon/dinebot/internal/metrics"
	"github.com/goldenspoon/dinebot/internal/nlp/fuzzy"
	"github.com/goldenspoon/dinebot/internal/nlp/intent"
	"github.com/goldenspoon/dinebot/internal/nlp/phrase"
	menurepo "github.com/goldenspoon/dinebot/internal/repository/menu"
	"github.com/goldenspoon/dinebot/internal/repository/menumem"
	"github.com/goldenspoon/dinebot/internal/repository/menusql"
	"github.com/goldenspoon/dinebot/internal/repository/phrasecache"
	chiTransport "github.com/goldenspoon/dinebot/internal/transport/chi"
	openaiPhrases "github.com/goldenspoon/dinebot/internal/transport/openai"
	"github.com/goldenspoon/dinebot/internal/usecase/chat"
	healthuc "github.com/goldenspoon/dinebot/internal/usecase/health"
	"github.com/goldenspoon/dinebot/internal/usecase/seed"
	"github.com/goldenspoon/dinebot/internal/version"
)

// menuStore is everything main needs from a menu backend.
type menuStore interface {
	chat.MenuReader
	seed.MenuWriter
	db.Pinger
}

func main() {
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

	logger.Info("Starting DineBot API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("phrase_provider", cfg.NLP.Phrases.Provider),
	)

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdownTracing, err := setupTracing()
		if err != nil {
			logger.Fatal("Failed to set up tracing", zap.Error(err))
		}
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	metrics.RegisterChatMetrics()

	store, kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open menu store", zap.Error(err))
	}
	defer closeStore()
	logger.Info("Connected to menu store")

	res, err := seed.New(store, cfg.Seed.ValidateVegan, logger).SeedFile(ctx, cfg.Seed.DataFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Already logged; serve whatever the store holds.
	case err != nil:
		logger.Fatal("Failed to seed menu", zap.Error(err))
	default:
		logger.Info("Menu ready",
			zap.Int("loaded", res.Loaded),
			zap.Int("existing", res.Existing),
			zap.Bool("skipped", res.Skipped),
		)
	}

	phrases, remote := buildPhraseExtractor(cfg, kv, logger)

	nlp := intent.NewExtractor(phrases, logger).
		WithPhraseTimeout(time.Duration(cfg.NLP.Phrases.TimeoutMs) * time.Millisecond)

	chatSvc := chat.New(store, nlp, fuzzy.NewMatcher(cfg.NLP.SimilarityThreshold), chat.Config{
		Restaurant:       cfg.Restaurant,
		Greetings:        chat.DefaultGreetings(cfg.Restaurant.Name, cfg.Responses.BotName),
		Fallbacks:        cfg.Responses.Fallbacks,
		DetailConfidence: cfg.NLP.DetailConfidence,
	}, logger)

	// Pass a nil interface, not a typed nil pointer, when no remote extractor runs.
	var phraseChecker healthuc.PhraseChecker
	if remote != nil {
		phraseChecker = remote
	}
	healthSvc := healthuc.New(store, phraseChecker)

	server := chiTransport.NewServer(chatSvc, healthSvc, logger).
		WithRateLimiter(chiTransport.NewRateLimiter(cfg.HTTP.RateLimit.RPS, cfg.HTTP.RateLimit.Burst))

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	var handler http.Handler = r
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(r, "dinebot")
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore connects the configured menu backend. kv is non-nil only for redis.
func openStore(ctx context.Context, cfg config.Config) (menuStore, db.KVStore, func(), error) {
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	switch cfg.Database.Driver {
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := s.WaitForReady(ctx, readiness); err != nil {
			s.Close()
			return nil, nil, nil, err
		}
		return &redisMenu{Repo: menurepo.New(s, cfg.Storage.KeyPrefix), Pinger: s}, s, s.Close, nil

	case config.DriverPostgres:
		pg, err := postgres.Open(postgres.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.WaitForReady(ctx, readiness); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		repo := menusql.New(pg.SQL())
		if err := repo.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, nil, err
		}
		return &sqlMenu{Repo: repo, Pinger: pg}, nil, pg.Close, nil

	default:
		return menumem.New(), nil, func() {}, nil
	}
}

type redisMenu struct {
	*menurepo.Repo
	db.Pinger
}

type sqlMenu struct {
	*menusql.Repo
	db.Pinger
}

var (
	_ menuStore = (*redisMenu)(nil)
	_ menuStore = (*sqlMenu)(nil)
	_ menuStore = (*menumem.Repo)(nil)
)

// buildPhraseExtractor assembles the dish phrase chain: OpenAI -> Cached, or the local heuristic.
// remote is the OpenAI client when one is configured, for health checks.
func buildPhraseExtractor(
	cfg config.Config,
	kv db.KVStore,
	logger *zap.Logger,
) (intent.PhraseExtractor, *openaiPhrases.PhraseExtractor) {
	switch cfg.NLP.Phrases.Provider {
	case config.PhrasesNone:
		return nil, nil
	case config.PhrasesOpenAI:
		base := openaiPhrases.NewPhraseExtractor(&openaiPhrases.Config{
			APIKey:   cfg.NLP.Phrases.OpenAI.APIKey,
			BaseURL:  cfg.NLP.Phrases.OpenAI.BaseURL,
			Model:    cfg.NLP.Phrases.OpenAI.Model,
			Provider: config.PhrasesOpenAI,
			Logger:   logger,
		})
		if kv == nil || cfg.NLP.Phrases.CacheTTLSec <= 0 {
			return base, base
		}
		cached := phrasecache.New(base, kv, cfg.Storage.KeyPrefix,
			time.Duration(cfg.NLP.Phrases.CacheTTLSec)*time.Second, metrics.PhraseCacheTotal, logger)
		return cached, base
	default:
		return phrase.NewHeuristic(), nil
	}
}

// setupTracing installs a global tracer provider that prints spans to stdout.
func setupTracing() (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("stdout exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

