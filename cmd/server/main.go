package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
	"github.com/p-n-ai/pai-syllabus/internal/api"
	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/cache"
	"github.com/p-n-ai/pai-syllabus/internal/platform/config"
	"github.com/p-n-ai/pai-syllabus/internal/platform/database"
	"github.com/p-n-ai/pai-syllabus/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func run(ctx context.Context, cfg *config.Config) error {
	app, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      app.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newApp opens every backing service and assembles the API server. On
// success the returned cleanup closes whatever was opened.
func newApp(ctx context.Context, cfg *config.Config) (*api.Server, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	checks := map[string]api.Check{}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	st, err := openStore(ctx, cfg, checks, &closers)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	files, err := store.NewFileStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	models, err := newModels(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if models != nil && cfg.Cache.Enabled {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connecting to cache: %w", err)
		}
		closers = append(closers, func() { c.Close() })
		checks["cache"] = c.HealthCheck
		models = ai.NewCachedProvider(models, c, cfg.Cache.TTL)
		slog.Info("AI response cache enabled", "ttl", cfg.Cache.TTL)
	}

	return api.New(api.Deps{
		Store:               st,
		Files:               files,
		Catalog:             cat,
		Models:              models,
		Checks:              checks,
		MaxUploadBytes:      cfg.Upload.MaxBytes,
		AllowedOrigins:      cfg.CORS.AllowedOrigins,
		MaterialParallelism: cfg.AI.MaterialParallelism,
	}), cleanup, nil
}

func openStore(ctx context.Context, cfg *config.Config, checks map[string]api.Check, closers *[]func()) (store.Store, error) {
	if cfg.Store.Backend != config.StorePostgres {
		slog.Info("using in-memory store")
		return store.NewMemoryStore(), nil
	}

	db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	*closers = append(*closers, db.Close)
	checks["database"] = db.HealthCheck

	st, err := store.NewPostgresStore(ctx, db.Pool)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// newModels registers every configured provider with a router. It returns
// nil when none is configured, leaving only template generation.
func newModels(ctx context.Context, cfg *config.Config) (ai.Completer, error) {
	if !cfg.HasAIProvider() {
		slog.Info("no AI provider configured; model mode disabled")
		return nil, nil
	}

	opts := []ai.RouterOption{ai.WithTimeout(cfg.AI.Timeout)}
	if rps := cfg.AI.RequestsPerSecond; rps > 0 {
		opts = append(opts, ai.WithRateLimit(float64(rps), rps))
	}
	if budget := cfg.AI.TokenBudget; budget > 0 {
		opts = append(opts, ai.WithUsageMeter(ai.NewUsageMeter(int64(budget))))
	}
	router := ai.NewRouter(opts...)

	if p := cfg.AI.OpenAI; p.APIKey != "" {
		router.Register("openai", ai.NewOpenAIProvider(p.APIKey, ai.WithModel(p.Model)))
	}
	if p := cfg.AI.Anthropic; p.APIKey != "" {
		provider, err := ai.NewAnthropicProvider(p.APIKey, ai.WithAnthropicModel(p.Model))
		if err != nil {
			return nil, err
		}
		router.Register("anthropic", provider)
	}
	if p := cfg.AI.DeepSeek; p.APIKey != "" {
		router.Register("deepseek", ai.NewDeepSeekProvider(p.APIKey, ai.WithModel(p.Model)))
	}
	if p := cfg.AI.Google; p.APIKey != "" {
		provider, err := ai.NewGoogleProvider(ctx, p.APIKey, ai.WithGoogleModel(p.Model))
		if err != nil {
			return nil, err
		}
		router.Register("google", provider)
	}
	if p := cfg.AI.OpenRouter; p.APIKey != "" {
		router.Register("openrouter", ai.NewOpenRouterProvider(p.APIKey, ai.WithModel(p.Model)))
	}
	if o := cfg.AI.Ollama; o.Enabled {
		router.Register("ollama", ai.NewOllamaProvider(o.URL, ai.WithModel(o.Model)))
	}

	slog.Info("AI providers registered", "providers", router.Providers())
	return router, nil
}
