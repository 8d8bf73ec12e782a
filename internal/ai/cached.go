package ai

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"
)

const cacheKeyPrefix = "ai:completion:"

// ResponseCache stores completion text by key.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedProvider answers repeated identical requests from a ResponseCache.
// Cache failures are logged and never fail the completion.
type CachedProvider struct {
	next  Completer
	cache ResponseCache
	ttl   time.Duration
}

// NewCachedProvider wraps next with a response cache.
func NewCachedProvider(next Completer, cache ResponseCache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl}
}

func (c *CachedProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	key := CacheKey(req)

	if content, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.Warn("AI cache read failed", "task", req.Task.String(), "error", err)
	} else if ok {
		slog.Debug("AI cache hit", "task", req.Task.String())
		return CompletionResponse{Content: content, Model: "cache"}, nil
	}

	resp, err := c.next.Complete(ctx, req)
	if err != nil {
		return CompletionResponse{}, err
	}

	if err := c.cache.Set(ctx, key, resp.Content, c.ttl); err != nil {
		slog.Warn("AI cache write failed", "task", req.Task.String(), "error", err)
	}
	return resp, nil
}

// CacheKey derives a stable key from the full request.
func CacheKey(req CompletionRequest) string {
	data, _ := json.Marshal(req)
	sum := blake2b.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
