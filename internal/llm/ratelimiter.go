package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider wraps a Provider with a token bucket limiter. It is
// mainly useful against hosted OpenAI-compatible endpoints; a local Ollama
// instance serializes requests itself.
type RateLimitedProvider struct {
	inner    Provider
	rpm      int
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewRateLimitedProvider allows at most rpm completion requests per minute
// through to the wrapped provider. Health probes are not limited.
func NewRateLimitedProvider(inner Provider, rpm int) Provider {
	return &RateLimitedProvider{
		inner:    inner,
		rpm:      rpm,
		tokens:   rpm,
		lastFill: time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.inner.Name()
}

func (r *RateLimitedProvider) Health(ctx context.Context) HealthStatus {
	return r.inner.Health(ctx)
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}

// acquire blocks until a token is available or the context is done.
func (r *RateLimitedProvider) acquire(ctx context.Context) error {
	for {
		if r.tryTake() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (r *RateLimitedProvider) tryTake() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	refill := int(now.Sub(r.lastFill).Seconds() * float64(r.rpm) / 60.0)
	if refill > 0 {
		r.tokens += refill
		if r.tokens > r.rpm {
			r.tokens = r.rpm
		}
		r.lastFill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
