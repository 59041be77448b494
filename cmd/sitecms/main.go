// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/northbeam/sitecms/internal/cache"
	"github.com/northbeam/sitecms/internal/config"
	"github.com/northbeam/sitecms/internal/handler"
	"github.com/northbeam/sitecms/internal/imaging"
	"github.com/northbeam/sitecms/internal/logging"
	"github.com/northbeam/sitecms/internal/middleware"
	"github.com/northbeam/sitecms/internal/rbac"
	"github.com/northbeam/sitecms/internal/render"
	"github.com/northbeam/sitecms/internal/scheduler"
	"github.com/northbeam/sitecms/internal/session"
	"github.com/northbeam/sitecms/internal/settings"
	"github.com/northbeam/sitecms/internal/store"
	"github.com/northbeam/sitecms/internal/version"
	"github.com/northbeam/sitecms/web"
)

// Version information - injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "sitecms - Northbeam Software site and CMS\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_SESSION_SECRET   Session token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_DB_PATH          SQLite database path (default: ./data/sitecms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_UPLOADS_DIR      Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_REDIS_URL        Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("sitecms %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade the logger so WARN and ERROR records also land in the
	// audit log.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger = slog.New(logging.NewAuditHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Sessions and authorization.
	sessions := session.NewManager([]byte(cfg.SessionSecret), !cfg.IsDevelopment())
	grants := rbac.Default()

	// Settings service and cache.
	settingsService := settings.NewService(db)
	var cacheStore cache.Store
	if cfg.UseRedisCache() {
		cacheStore, err = cache.NewRedis(cfg.RedisURL, cfg.CachePrefix, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			slog.Warn("redis unavailable, using in-process cache", "error", err)
			cacheStore = cache.NewMemory(time.Duration(cfg.CacheTTL) * time.Second)
		} else {
			slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
		}
	} else {
		cacheStore = cache.NewMemory(time.Duration(cfg.CacheTTL) * time.Second)
		slog.Info("cache initialized", "backend", "memory")
	}
	cacheManager := cache.NewManager(cacheStore, settingsService, logger)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("closing cache", "error", err)
		}
	}()

	// Template renderer.
	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	// Image processing for uploads.
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	processor := imaging.NewProcessor(cfg.UploadsDir)

	// Scheduled post publishing.
	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Handlers.
	api := handler.NewAPI(handler.APIConfig{
		DB:        db,
		Sessions:  sessions,
		Grants:    grants,
		Settings:  settingsService,
		Cache:     cacheManager,
		Processor: processor,
		Logger:    logger,
	})
	public := handler.NewPublic(handler.PublicConfig{
		DB:       db,
		Cache:    cacheManager,
		Renderer: renderer,
		SiteURL:  cfg.SiteURL,
		IsDev:    cfg.IsDevelopment(),
		Logger:   logger,
	})

	// Router.
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(cfg.IsDevelopment()))

	csrfSecret := cfg.CSRFSecret
	if csrfSecret == "" {
		csrfSecret = cfg.SessionSecret
	}
	csrfConfig := middleware.DefaultCSRFConfig([]byte(csrfSecret), cfg.IsDevelopment())
	csrfConfig.TrustedOrigins = append(csrfConfig.TrustedOrigins, cfg.TrustedOrigins...)
	csrfMiddleware := middleware.CSRF(csrfConfig)

	// Admin API.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Mount("/", api.Routes())
	})

	// Static assets and uploads.
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	// Public site, including the CSRF-protected contact form.
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Mount("/", public.Routes())
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
