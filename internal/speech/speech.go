// Package speech provides text-to-speech synthesis of narration scripts.
// The HTTP implementation talks to the ElevenLabs API and writes the
// resulting audio to a local file.
package speech

import "context"

// Synthesizer defines the interface for turning narration text into audio.
type Synthesizer interface {
	// Synthesize converts text to speech in the given language and returns
	// the path of the local audio file it produced. The caller owns the file.
	Synthesize(ctx context.Context, text, language string) (string, error)
}
