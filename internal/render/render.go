// Package render provides asynchronous text-to-video generation.
// Submitting a job returns an opaque handle; the job is then polled until a
// video URL is available. The provider's inconsistent response shapes are
// normalized into a tagged Result at this boundary so callers never see them.
package render

import "context"

// State classifies a render job's progress.
type State string

const (
	// StatePending means the job is still being rendered.
	StatePending State = "PENDING"
	// StateReady means rendering finished and a video URL is available.
	StateReady State = "READY"
	// StateFailed means the provider reported a terminal failure.
	StateFailed State = "FAILED"
)

// Result is the normalized outcome of polling a render job.
type Result struct {
	// State classifies the job's progress.
	State State
	// VideoURL is the rendered video location. Set only when State is StateReady.
	VideoURL string
	// Detail carries the provider's failure message. Set only when State is StateFailed.
	Detail string
}

// Renderer defines the interface for the asynchronous video provider.
type Renderer interface {
	// Submit starts a render job for the prompt and returns its handle.
	Submit(ctx context.Context, prompt string, durationSec int) (string, error)

	// Poll reports the current state of a previously submitted job.
	Poll(ctx context.Context, handle string) (Result, error)
}
