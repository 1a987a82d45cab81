package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Static errors for merge operations.
var (
	// ErrAudioURLRequired is returned when the audio URL is empty.
	ErrAudioURLRequired = errors.New("merge: audio URL is required")
	// ErrVideoURLRequired is returned when the video URL is empty.
	ErrVideoURLRequired = errors.New("merge: video URL is required")
	// ErrDownloadFailed is returned when fetching a source artifact fails.
	ErrDownloadFailed = errors.New("merge: download failed")
)

// FFmpegMerger implements Merger using the ffmpeg CLI.
type FFmpegMerger struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	httpClient *http.Client
}

// MergerOption is a function that configures an FFmpegMerger.
type MergerOption func(*FFmpegMerger)

// WithHTTPClient sets a custom HTTP client for source downloads.
func WithHTTPClient(c *http.Client) MergerOption {
	return func(m *FFmpegMerger) {
		m.httpClient = c
	}
}

// NewFFmpegMerger creates a new FFmpegMerger.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegMerger(ffmpegPath string, opts ...MergerOption) *FFmpegMerger {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	m := &FFmpegMerger{
		ffmpegPath: ffmpegPath,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge downloads the audio and video sources into workDir and muxes them:
// the video stream is copied, the audio transcoded to AAC, and the output
// truncated to the shorter stream. The two downloads are always removed.
func (m *FFmpegMerger) Merge(ctx context.Context, audioURL, videoURL, workDir string) (string, error) {
	if audioURL == "" {
		return "", ErrAudioURLRequired
	}
	if videoURL == "" {
		return "", ErrVideoURLRequired
	}
	if err := os.MkdirAll(workDir, 0750); err != nil {
		return "", fmt.Errorf("merge: create work directory: %w", err)
	}

	audioFile := filepath.Join(workDir, fmt.Sprintf("audio-%s.mp3", uuid.NewString()))
	videoFile := filepath.Join(workDir, fmt.Sprintf("video-%s.mp4", uuid.NewString()))
	outputFile := filepath.Join(workDir, fmt.Sprintf("merged-%s.mp4", uuid.NewString()))

	// Remove the downloaded sources on every exit path.
	defer func() {
		_ = os.Remove(audioFile)
		_ = os.Remove(videoFile)
	}()

	// The two sources live on unrelated hosts, so fetch them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.download(gctx, audioURL, audioFile) })
	g.Go(func() error { return m.download(gctx, videoURL, videoFile) })
	if err := g.Wait(); err != nil {
		return "", err
	}

	args := []string{
		"-y",            // Overwrite output file
		"-i", videoFile, // Video input
		"-i", audioFile, // Audio input
		"-c:v", "copy", // Copy video stream without re-encoding
		"-c:a", "aac", // Transcode audio to AAC
		"-shortest", // Truncate to the shorter stream
		outputFile,
	}

	if err := m.runFFmpeg(ctx, args); err != nil {
		_ = os.Remove(outputFile)
		return "", err
	}

	return outputFile, nil
}

// download fetches a URL into a local file.
func (m *FFmpegMerger) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("merge: create download request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDownloadFailed, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: status %d", ErrDownloadFailed, url, resp.StatusCode)
	}

	f, err := os.Create(dest) // #nosec G304 - dest is built from a trusted directory and a UUID
	if err != nil {
		return fmt.Errorf("merge: create download file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("merge: write download file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("merge: close download file: %w", err)
	}

	return nil
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (m *FFmpegMerger) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, m.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("merge: ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("merge: ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// Compile-time check that FFmpegMerger implements Merger.
var _ Merger = (*FFmpegMerger)(nil)
