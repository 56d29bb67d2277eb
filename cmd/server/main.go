// @title        Vigilcam Portal API
// @version      1.0
// @description  Account registration, cookie sessions and video analysis requests.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/api"
	"github.com/vigilcam/portal/internal/api/cookie"
	"github.com/vigilcam/portal/internal/api/handler"
	"github.com/vigilcam/portal/internal/core/ports"
	"github.com/vigilcam/portal/internal/core/service"
	"github.com/vigilcam/portal/internal/infrastructure/analysis"
	"github.com/vigilcam/portal/internal/infrastructure/config"
	"github.com/vigilcam/portal/internal/infrastructure/db/memory"
	mongodb "github.com/vigilcam/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/vigilcam/portal/internal/infrastructure/db/redis"
	"github.com/vigilcam/portal/internal/infrastructure/hasher"
	"github.com/vigilcam/portal/internal/infrastructure/queue"
	"github.com/vigilcam/portal/internal/pkg/metrics"
	"github.com/vigilcam/portal/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

func main() {
	bootLog := logger.New(logger.Options{Service: "portal"})
	cfg := config.Load(bootLog)

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	pingers := make(map[string]handler.Pinger)

	// --- Credential store ---
	var users ports.UserRepository
	switch cfg.Auth.UserBackend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory user store; accounts are lost on restart")
		users = memory.NewUserRepository()
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		repo := mongodb.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		users = repo
		pingers["mongodb"] = mongodb.NewPinger(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	// --- Session store ---
	var store ports.SessionStore
	switch cfg.Session.Backend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		mem := memory.NewSessionStore(log)
		mem.StartCleanup(ctx, cleanupInterval)
		store = mem
	default:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		store = redisdb.NewSessionStore(rdb)
		pingers["redis"] = redisdb.NewPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	// --- Hashing pool ---
	// The pool outlives the signal so in-flight logins finish while the
	// server drains. It is stopped after srv.Shutdown.
	pool := queue.NewPool(cfg.Auth.HashWorkers, m.HashQueueDepth, log)
	pool.Start(context.WithoutCancel(ctx))
	defer pool.Stop()

	// --- Services ---
	sessions := service.NewSessionManager(store, cfg.Session.TTL, log, service.WithSessionMetrics(m))
	bcryptHasher := hasher.NewBcrypt(cfg.Auth.BcryptCost, pool, m)
	authService := service.NewAuthService(users, bcryptHasher, sessions, m, log)
	if err := authService.WarmDecoy(ctx); err != nil {
		return err
	}

	deps := api.Dependencies{
		Auth:     authService,
		Sessions: sessions,
		Analyzer: analysis.NewSimulated(cfg.Analysis.GraphURL, nil),
		Cookies: cookie.NewManager(cookie.Config{
			Name:   cfg.Session.CookieName,
			Secret: cfg.Session.Secret,
			TTL:    sessions.TTL(),
			Secure: cfg.Session.CookieSecure,
		}),
		Metrics:        m,
		Pingers:        pingers,
		PublicDir:      cfg.PublicDir,
		RequestTimeout: cfg.RequestTimeout,
		Log:            log,
	}
	if cfg.MetricsEnabled {
		deps.Registry = registry
	}
	e := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	pool.Stop()
	if err != nil {
		return err
	}
	log.Info().Msg("server exited properly")
	return nil
}
