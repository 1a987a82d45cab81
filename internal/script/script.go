// Package script provides narration script generation from a text topic.
// The HTTP implementation talks to the OpenAI chat completions API.
package script

import "context"

// Generator defines the interface for turning a topic into narration text.
type Generator interface {
	// Generate produces a short single-narrator script for the given topic.
	// durationSec is the target video duration and language the narration
	// locale; both only steer the prompt.
	Generate(ctx context.Context, topic string, durationSec int, language string) (string, error)
}
