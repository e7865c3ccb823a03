package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/docforge/docforge/internal/adapter/gotenberg"
	dfhttp "github.com/docforge/docforge/internal/adapter/http"
	dfnats "github.com/docforge/docforge/internal/adapter/nats"
	"github.com/docforge/docforge/internal/adapter/postgres"
	"github.com/docforge/docforge/internal/adapter/ristretto"
	"github.com/docforge/docforge/internal/adapter/s3"
	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/crypto"
	"github.com/docforge/docforge/internal/logger"
	"github.com/docforge/docforge/internal/middleware"
	"github.com/docforge/docforge/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"document_ttl", cfg.Retention.DocumentTTL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	objects, err := s3.New(cfg.S3)
	if err != nil {
		return fmt.Errorf("s3: %w", err)
	}

	templateCache, err := ristretto.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer templateCache.Close()

	store := postgres.NewStore(pool)

	// --- Services ---

	authSvc := service.NewAuthService(store, &cfg.Auth)

	auditSvc := service.NewAuditService(store, nil)
	if cfg.NATS.URL != "" {
		queue, err := dfnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = queue.Close() }()
		auditSvc = service.NewAuditService(store, queue)
		slog.Info("nats connected", "url", cfg.NATS.URL)
	}

	templateSvc := service.NewTemplateService(store, objects, templateCache)

	converter := gotenberg.NewClient(cfg.Converter)
	keyring := crypto.NewKeyring(cfg.Crypto.MasterSecret, crypto.Params{
		Time:    cfg.Crypto.KDFTime,
		Memory:  cfg.Crypto.KDFMemory,
		Threads: cfg.Crypto.KDFThreads,
	})
	genSvc := service.NewGenerateService(store, objects, templateSvc, converter, keyring, cfg.Retention)
	genSvc.StartRetentionSweep(ctx)

	// --- HTTP ---

	limiter := middleware.NewRateLimiter(cfg.Rate.WindowLimit)
	cancelSweep := limiter.StartCleanup(cfg.Rate.SweepInterval, cfg.Rate.WindowRetention)
	defer cancelSweep()

	handlers := &dfhttp.Handlers{
		Auth:      authSvc,
		Templates: templateSvc,
		Documents: genSvc,
		Audit:     auditSvc,
		BodyLimit: cfg.Server.BodyLimitMB << 20,
		ReadyChecks: []dfhttp.ReadyCheck{
			{Name: "postgres", Check: pool.Ping},
			{Name: "s3", Check: func(ctx context.Context) error {
				if !objects.Available(ctx) {
					return errors.New("bucket unreachable")
				}
				return nil
			}},
		},
	}

	r := chi.NewRouter()
	r.Use(dfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(dfhttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(dfhttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Auth(authSvc))
	r.Use(limiter.Handler)

	dfhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
