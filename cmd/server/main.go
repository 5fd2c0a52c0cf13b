package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
	"github.com/ehc32/Cotizador-V1/internal/config"
	"github.com/ehc32/Cotizador-V1/internal/db"
	"github.com/ehc32/Cotizador-V1/internal/document"
	"github.com/ehc32/Cotizador-V1/internal/flow"
	"github.com/ehc32/Cotizador-V1/internal/logging"
	"github.com/ehc32/Cotizador-V1/internal/metrics"
	"github.com/ehc32/Cotizador-V1/internal/migrations"
	"github.com/ehc32/Cotizador-V1/internal/pricing"
	"github.com/ehc32/Cotizador-V1/internal/seed"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

type server struct {
	logger    *zap.Logger
	auth      *authService
	catalog   *catalog.Snapshot
	source    string
	store     *catalog.Store
	flows     *flow.Store
	documents *document.Generator
	metrics   *metrics.Recorder
	maxBody   int64
	now       func() time.Time

	// updateMu serializes admin catalog edits so read-modify-write cycles
	// never lose an update.
	updateMu sync.Mutex
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("COTIZADOR_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputFile: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning, zap.String("op", "config.Load"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := db.ParseDriver(cfg.DBDriver)
	if err != nil {
		return err
	}
	database, err := db.Open(ctx, driver, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		results, err := migrations.Up(ctx, database, driver)
		if err != nil {
			return fmt.Errorf("run database migrations: %w", err)
		}
		logger.Info("migrations applied", zap.String("op", "migrations.Up"), zap.Int("count", len(results)))
	}

	stats, err := seed.Run(ctx, database, driver, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	logger.Info("seed completed", zap.String("op", "seed.Run"), zap.Int("inserts", stats.Inserts))

	cat, store, err := loadCatalog(ctx, cfg, database, driver)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.String("op", "catalog.Load"),
		zap.String("source", cfg.CatalogSource),
		zap.Float64("design_rate", cat.DesignRate()),
		zap.Float64("construction_rate", cat.ConstructionRate()),
	)

	srv, err := newServer(serverOptions{
		Config:   cfg,
		Logger:   logger,
		Database: database,
		Driver:   driver,
		Catalog:  cat,
		Store:    store,
		Metrics:  metrics.New(),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go srv.sweepSessions(ctx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("op", "server.Listen"), zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.String("op", "server.Shutdown"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadCatalog resolves the configured catalog source. Only the database
// source returns a store; the others keep admin edits in memory.
func loadCatalog(ctx context.Context, cfg config.Config, database *sql.DB, driver db.Driver) (*catalog.Catalog, *catalog.Store, error) {
	switch cfg.CatalogSource {
	case config.CatalogBuiltin:
		return catalog.Default(), nil, nil
	case config.CatalogFile:
		cat, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog file: %w", err)
		}
		return cat, nil, nil
	default:
		store := catalog.NewStore(database, driver)
		cat, err := store.Load(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog from database: %w", err)
		}
		return cat, store, nil
	}
}

type serverOptions struct {
	Config   config.Config
	Logger   *zap.Logger
	Database *sql.DB
	Driver   db.Driver
	Catalog  *catalog.Catalog
	Store    *catalog.Store
	Metrics  *metrics.Recorder
	Now      func() time.Time
}

func newServer(opts serverOptions) (*server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cfg := opts.Config

	auth, err := newAuthService(opts.Database, opts.Driver, cfg.SessionSecret, !cfg.IsDev())
	if err != nil {
		return nil, err
	}
	auth.now = now

	mode, err := document.ParseMode(cfg.DocumentRenderer)
	if err != nil {
		return nil, err
	}
	generator, err := document.NewGenerator(document.Options{Mode: mode, Prefix: cfg.DocumentPrefix, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("init document generator: %w", err)
	}
	logger.Info("document renderers ready", zap.String("op", "document.NewGenerator"), zap.Strings("renderers", generator.Renderers()))

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	snap := catalog.NewSnapshot(opts.Catalog)
	rec := opts.Metrics
	return &server{
		logger:  logger,
		auth:    auth,
		catalog: snap,
		source:  cfg.CatalogSource,
		store:   opts.Store,
		flows: flow.NewStore(snap, flow.Options{
			MaxRooms: cfg.FlowMaxRooms,
			TTL:      cfg.FlowSessionTTL,
			Now:      now,
			Logger:   logger,
			OnQuote:  func(q pricing.Quote) { rec.QuoteComputed(q.Summary.TotalArea) },
		}),
		documents: generator,
		metrics:   rec,
		maxBody:   maxBody,
		now:       now,
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/quote", s.handleQuote)
		r.Post("/generate-pdf", s.handleGeneratePDF)
		r.Options("/generate-pdf", s.handlePreflight)

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", s.handleChatStart)
			r.Get("/{id}", s.handleChatPrompt)
			r.Post("/{id}/answers", s.handleChatAnswer)
			r.Get("/{id}/pdf", s.handleChatPDF)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/catalog", s.handleAdminCatalog)
			r.Put("/rates", s.handleAdminRates)
			r.Put("/base-areas/{name}", s.handleAdminBaseArea)
			r.Put("/bed-types/{id}", s.handleAdminBedType)
			r.Put("/spaces/{id}", s.handleAdminSpace)
		})
	})

	return r
}

// instrument logs every request and records it under its route pattern.
func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		op := r.Method + " " + pattern
		elapsed := time.Since(start)

		s.metrics.Observe(op, status < http.StatusInternalServerError, elapsed)
		s.logger.Info("request",
			zap.String("op", op),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *server) sweepSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.flows.Sweep(); removed > 0 {
				s.logger.Debug("expired sessions removed", zap.String("op", "flow.Sweep"), zap.Int("removed", removed))
			}
			s.metrics.SetSessions(s.flows.Len())
		}
	}
}
