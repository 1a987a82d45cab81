package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Static errors for render polling.
var (
	// ErrRenderTimeout is returned when the attempt ceiling is reached
	// without a ready result.
	ErrRenderTimeout = errors.New("render: video not ready after max attempts")
	// ErrRenderFailed is returned when the provider reports a terminal failure.
	ErrRenderFailed = errors.New("render: generation failed")
)

// Policy bounds the polling loop. Literal intervals live here as defaults so
// tests can inject zero delays.
type Policy struct {
	// Interval is the fixed delay between status checks.
	Interval time.Duration
	// MaxAttempts is the hard ceiling on status checks.
	MaxAttempts int
}

// DefaultPolicy returns the production polling bounds: 20 attempts, 10s apart.
func DefaultPolicy() Policy {
	return Policy{
		Interval:    10 * time.Second,
		MaxAttempts: 20,
	}
}

// Poller waits for an asynchronous render job to produce a video URL.
type Poller struct {
	policy Policy
	logger *slog.Logger
}

// NewPoller creates a Poller with the given policy.
// Non-positive MaxAttempts falls back to the default ceiling.
func NewPoller(policy Policy, logger *slog.Logger) *Poller {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy().MaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{policy: policy, logger: logger}
}

// Wait polls the renderer until the job is ready, failed, or the attempt
// ceiling is reached. Transport-level poll errors are logged and treated as
// "not yet ready"; only a provider-reported failure or exhausting all
// attempts is terminal.
func (p *Poller) Wait(ctx context.Context, r Renderer, handle string) (string, error) {
	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		result, err := r.Poll(ctx, handle)
		if err != nil {
			p.logger.Warn("render poll attempt failed",
				slog.String("handle", handle),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
		} else {
			switch result.State {
			case StateReady:
				return result.VideoURL, nil
			case StateFailed:
				return "", fmt.Errorf("%w: %s", ErrRenderFailed, result.Detail)
			case StatePending:
				p.logger.Debug("render still processing",
					slog.String("handle", handle),
					slog.Int("attempt", attempt),
				)
			}
		}

		if attempt == p.policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("render: wait cancelled: %w", ctx.Err())
		case <-time.After(p.policy.Interval):
		}
	}

	return "", fmt.Errorf("%w (%d attempts)", ErrRenderTimeout, p.policy.MaxAttempts)
}
