package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultRequestTimeout = 60 * time.Second

// Router sends each request through the registered providers in
// registration order until one succeeds.
type Router struct {
	providers map[string]Provider
	fallback  []string // ordered fallback chain
	timeout   time.Duration
	limiter   *rate.Limiter
	usage     *UsageMeter
	mu        sync.RWMutex
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTimeout bounds each provider attempt.
func WithTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second across all providers.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) RouterOption {
	return func(r *Router) {
		if rps <= 0 {
			r.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUsageMeter records token usage of successful completions.
func WithUsageMeter(m *UsageMeter) RouterOption {
	return func(r *Router) {
		r.usage = m
	}
}

// NewRouter creates a new AI router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		providers: make(map[string]Provider),
		timeout:   defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a provider to the router.
func (r *Router) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		r.fallback = append(r.fallback, name)
	}
	r.providers[name] = provider
}

// Complete routes a request to the first provider that answers.
func (r *Router) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	chain := r.chain()
	if len(chain) == 0 {
		return CompletionResponse{}, ErrNoProvider
	}
	if r.usage != nil && r.usage.Exhausted() {
		return CompletionResponse{}, ErrBudgetExceeded
	}

	var errs []error
	for _, name := range chain {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return CompletionResponse{}, fmt.Errorf("waiting for rate limiter: %w", err)
			}
		}

		resp, err := r.attempt(ctx, name, req)
		if err != nil {
			slog.Warn("AI provider failed, trying next",
				"provider", name,
				"task", req.Task.String(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if r.usage != nil {
			r.usage.Record(req.Task, resp.TotalTokens())
		}
		slog.Debug("AI request completed",
			"provider", name,
			"task", req.Task.String(),
			"model", resp.Model,
			"input_tokens", resp.InputTokens,
			"output_tokens", resp.OutputTokens,
		)
		return resp, nil
	}

	return CompletionResponse{}, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// HasProvider returns true if at least one provider is registered.
func (r *Router) HasProvider() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers) > 0
}

// Providers returns the registered provider names in fallback order.
func (r *Router) Providers() []string {
	return r.chain()
}

func (r *Router) attempt(ctx context.Context, name string, req CompletionRequest) (CompletionResponse, error) {
	r.mu.RLock()
	provider := r.providers[name]
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return provider.Complete(ctx, req)
}

// chain snapshots the fallback order so no lock is held while a provider is
// in flight.
func (r *Router) chain() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.fallback))
	copy(out, r.fallback)
	return out
}
