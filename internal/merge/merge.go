// Package merge combines a remote audio track and a remote video track into
// a single local video file using the ffmpeg CLI.
package merge

import "context"

// Merger defines the interface for muxing remote audio and video artifacts.
// Arguments are always ordered (audioURL, videoURL).
type Merger interface {
	// Merge downloads both sources into workDir, muxes them, and returns the
	// path of the merged local file. Downloaded sources are removed whether
	// or not the mux succeeds; the merged file is the caller's to clean up.
	Merge(ctx context.Context, audioURL, videoURL, workDir string) (string, error)
}
