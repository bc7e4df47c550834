package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/momcircle/matchd/internal/config"
	"github.com/momcircle/matchd/internal/db/postgres"
	dbRedis "github.com/momcircle/matchd/internal/db/redis"
	logpkg "github.com/momcircle/matchd/internal/logger"
	"github.com/momcircle/matchd/internal/metrics"
	"github.com/momcircle/matchd/internal/repository/cooldown"
	filtersrepo "github.com/momcircle/matchd/internal/repository/filters"
	interactionrepo "github.com/momcircle/matchd/internal/repository/interaction"
	profilerepo "github.com/momcircle/matchd/internal/repository/profile"
	"github.com/momcircle/matchd/internal/repository/reasoncache"
	chiTransport "github.com/momcircle/matchd/internal/transport/chi"
	natsTransport "github.com/momcircle/matchd/internal/transport/nats"
	openaiPicker "github.com/momcircle/matchd/internal/transport/openai"
	healthuc "github.com/momcircle/matchd/internal/usecase/health"
	magicmatchuc "github.com/momcircle/matchd/internal/usecase/magicmatch"
	"github.com/momcircle/matchd/internal/usecase/pool"
	rankinguc "github.com/momcircle/matchd/internal/usecase/ranking"
	"github.com/momcircle/matchd/internal/usecase/reciprocity"
	"github.com/momcircle/matchd/internal/version"
)

func main() {
	// .env is optional; real deployments pass variables directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

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

	logger.Info("Starting matchd API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.Bool("ai_enabled", cfg.AI.Enabled),
		zap.Bool("nats_enabled", cfg.NATS.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterMatchingMetrics(nil)
	metrics.RegisterHTTPMetrics(nil)

	ctx := context.Background()
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	// Postgres: profiles, actions, matches, filters
	pg, err := postgres.Open(postgres.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = pg.Close() }()

	if err := pg.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	if cfg.Database.MigrateOnStart {
		v, err := pg.Migrate()
		if err != nil {
			logger.Fatal("Migrations failed", zap.Error(err))
		}
		logger.Info("Migrations applied", zap.Uint("version", v))
	}
	logger.Info("Connected to database")

	// Redis: shared rate-limit cooldown
	kv, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create redis store", zap.Error(err))
	}
	defer kv.Close()

	if err := kv.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Redis not ready", zap.Error(err))
	}
	logger.Info("Connected to redis")

	// Pass nil interfaces (not typed nil pointers!) for disabled components.
	var notifier reciprocity.Notifier
	var natsClient *natsTransport.Client
	if cfg.NATS.Enabled {
		natsCfg := natsTransport.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.Name = cfg.NATS.Name
		natsClient, err = natsTransport.Connect(natsCfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		notifier = natsTransport.NewNotifier(natsClient, cfg.NATS.SubjectPrefix)
	}

	var picker magicmatchuc.Picker
	var providerCheck healthuc.ProviderChecker
	if cfg.AI.Enabled {
		p := openaiPicker.NewPicker(&openaiPicker.Config{
			APIKey:  cfg.AI.APIKey,
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
			Logger:  logger,
		})
		picker = p
		providerCheck = p
		logger.Info("Match provider configured", zap.String("model", cfg.AI.Model))
	} else {
		logger.Warn("Match provider disabled, magic match resolves via fallback")
	}

	reasons, err := reasoncache.New(cfg.Matching.ReasonCacheSize)
	if err != nil {
		logger.Fatal("Failed to create reason cache", zap.Error(err))
	}

	testPattern := pool.DefaultTestPattern
	if cfg.Matching.TestNamePattern != "" {
		testPattern = regexp.MustCompile(cfg.Matching.TestNamePattern)
	}

	// Repositories
	profiles := profilerepo.New(pg)
	interactions := interactionrepo.New(pg)
	filters := filtersrepo.New(pg)

	// Use cases
	builder := pool.New(cfg.Matching.ReservedIDs, testPattern)
	ranker := rankinguc.NewRanker(logger)

	rankingSvc := rankinguc.New(profiles, interactions, filters, builder, ranker)
	magicSvc := magicmatchuc.New(profiles, interactions, builder, ranker, picker, logger).
		WithTimeout(time.Duration(cfg.AI.TimeoutSec)*time.Second).
		WithCooldown(cooldown.New(kv, cfg.Redis.KeyPrefix, "match_provider"),
			time.Duration(cfg.AI.CooldownSec)*time.Second).
		WithReasonCache(reasons).
		WithPoolSize(cfg.Matching.MagicPoolSize).
		WithFetchLimit(cfg.Matching.MagicFetchLimit)
	actionSvc := reciprocity.New(interactions, notifier)
	healthSvc := healthuc.New(pg, kv, providerCheck)
	if natsClient != nil {
		healthSvc.WithNotifications(natsClient)
	}

	server := chiTransport.NewServer(rankingSvc, magicSvc, actionSvc, healthSvc, logger).
		WithPagination(cfg.Matching.DefaultPageLimit, cfg.Matching.MaxPageLimit)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.BindErrorHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
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
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			logger.Warn("NATS drain failed", zap.Error(err))
		}
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits one log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
