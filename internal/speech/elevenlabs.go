package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Static errors for speech synthesis.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("speech: API key is required")
	// ErrTextRequired is returned when the input text is empty.
	ErrTextRequired = errors.New("speech: text is required")
	// ErrRequestFailed is returned when the API responds with a non-2xx status.
	ErrRequestFailed = errors.New("speech: request failed")
)

// ElevenLabsClient synthesizes speech through the ElevenLabs API.
type ElevenLabsClient struct {
	apiKey     string
	modelID    string
	baseURL    string
	outDir     string
	httpClient *http.Client
}

// ClientOption is a function that configures an ElevenLabsClient.
type ClientOption func(*ElevenLabsClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(ec *ElevenLabsClient) {
		ec.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(url string) ClientOption {
	return func(ec *ElevenLabsClient) {
		ec.baseURL = url
	}
}

// WithModelID sets the synthesis model.
func WithModelID(modelID string) ClientOption {
	return func(ec *ElevenLabsClient) {
		ec.modelID = modelID
	}
}

// NewElevenLabsClient creates a new synthesis client.
// Audio files are written under outDir, which is created if missing.
func NewElevenLabsClient(apiKey, outDir string, opts ...ClientOption) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if outDir == "" {
		outDir = filepath.Join(os.TempDir(), "afrovids")
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("speech: create output directory: %w", err)
	}

	c := &ElevenLabsClient{
		apiKey:     apiKey,
		modelID:    "eleven_multilingual_v2",
		baseURL:    "https://api.elevenlabs.io/v1",
		outDir:     outDir,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type synthesisRequest struct {
	Text         string `json:"text"`
	ModelID      string `json:"model_id"`
	OutputFormat string `json:"output_format"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Synthesize converts text to speech and writes the MP3 to the output
// directory, returning the file path.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, language string) (string, error) {
	if text == "" {
		return "", ErrTextRequired
	}

	voiceID := VoiceForLanguage(language)

	reqBody := synthesisRequest{
		Text:         text,
		ModelID:      c.modelID,
		OutputFormat: "mp3_44100_128",
		LanguageCode: language,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("speech: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("speech: create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(detail))
	}

	path := filepath.Join(c.outDir, fmt.Sprintf("tts-%s.mp3", uuid.NewString()))
	f, err := os.Create(path) // #nosec G304 - path is built from a trusted directory and a UUID
	if err != nil {
		return "", fmt.Errorf("speech: create audio file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("speech: write audio file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("speech: close audio file: %w", err)
	}

	return path, nil
}

// Compile-time check that ElevenLabsClient implements Synthesizer.
var _ Synthesizer = (*ElevenLabsClient)(nil)
