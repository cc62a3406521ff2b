package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for the two transient failure modes callers are expected
// to handle by holding work for retry. Everything else a provider returns
// is a plain wrapped error.
var (
	// ErrUnavailable means the inference service could not be reached.
	ErrUnavailable = errors.New("inference service unavailable")
	// ErrTimeout means the service did not respond within the configured
	// deadline. Cold starts can take tens of seconds; deadlines should be
	// generous.
	ErrTimeout = errors.New("inference request timed out")
)

// Provider defines the interface for inference providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Health probes the service without triggering generation.
	Health(ctx context.Context) HealthStatus
	// Name returns the name of this provider.
	Name() string
}

// transportError maps a low-level HTTP transport failure onto the typed
// sentinel the caller dispatches on.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
