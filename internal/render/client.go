package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Static errors for render client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("render: API key is required")
	// ErrHandleRequired is returned when the job handle is not provided.
	ErrHandleRequired = errors.New("render: job handle is required")
	// ErrNoRenderHandle is returned when the submit response contains no generation ID.
	ErrNoRenderHandle = errors.New("render: submit failed: no generation ID returned")
	// ErrSubmitFailed is returned when the submit operation is rejected.
	ErrSubmitFailed = errors.New("render: submit failed")
	// ErrRequestFailed is returned when a request fails with a non-2xx status.
	ErrRequestFailed = errors.New("render: request failed")
)

// HTTPClient is the Leonardo implementation of the Renderer interface.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// NewHTTPClient creates a new render client for the Leonardo REST API.
func NewHTTPClient(apiKey string, opts ...ClientOption) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &HTTPClient{
		apiKey:     apiKey,
		baseURL:    "https://cloud.leonardo.ai/api/rest/v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// submitRequest is the request body for a text-to-video generation.
type submitRequest struct {
	Prompt             string `json:"prompt"`
	Height             int    `json:"height"`
	Width              int    `json:"width"`
	Resolution         string `json:"resolution"`
	Duration           int    `json:"duration"`
	IsPublic           bool   `json:"isPublic"`
	PromptEnhance      bool   `json:"promptEnhance"`
	FrameInterpolation bool   `json:"frameInterpolation"`
}

// submitResponse covers the generation ID's possible locations across the
// provider's job types.
type submitResponse struct {
	MotionVideoGenerationJob *generationJob `json:"motionVideoGenerationJob,omitempty"`
	SDGenerationJob          *generationJob `json:"sdGenerationJob,omitempty"`
	GenerationID             string         `json:"generationId,omitempty"`
}

type generationJob struct {
	GenerationID string `json:"generationId"`
}

// handle extracts the generation ID from whichever field the provider used.
func (r submitResponse) handle() string {
	if r.MotionVideoGenerationJob != nil && r.MotionVideoGenerationJob.GenerationID != "" {
		return r.MotionVideoGenerationJob.GenerationID
	}
	if r.SDGenerationJob != nil && r.SDGenerationJob.GenerationID != "" {
		return r.SDGenerationJob.GenerationID
	}
	return r.GenerationID
}

// statusResponse is the response from the generation status endpoint.
type statusResponse struct {
	GenerationsByPK *generationStatus `json:"generations_by_pk"`
}

type generationStatus struct {
	Status          string           `json:"status"`
	GeneratedImages []generatedImage `json:"generated_images,omitempty"`
	GeneratedVideos []generatedVideo `json:"generated_videos,omitempty"`
}

type generatedImage struct {
	MotionMP4URL string `json:"motionMP4URL,omitempty"`
}

type generatedVideo struct {
	URL string `json:"url,omitempty"`
}

// videoURL probes the two possible result fields; the first non-empty wins.
func (g *generationStatus) videoURL() string {
	if len(g.GeneratedImages) > 0 && g.GeneratedImages[0].MotionMP4URL != "" {
		return g.GeneratedImages[0].MotionMP4URL
	}
	if len(g.GeneratedVideos) > 0 && g.GeneratedVideos[0].URL != "" {
		return g.GeneratedVideos[0].URL
	}
	return ""
}

// Submit starts a text-to-video generation and returns its handle.
// A rejected request or a response without a generation ID fails immediately;
// submission is never retried.
func (c *HTTPClient) Submit(ctx context.Context, prompt string, durationSec int) (string, error) {
	if durationSec <= 0 {
		durationSec = 4
	}

	reqBody := submitRequest{
		Prompt:             prompt,
		Height:             480,
		Width:              832,
		Resolution:         "RESOLUTION_480",
		Duration:           durationSec,
		IsPublic:           false,
		PromptEnhance:      true,
		FrameInterpolation: true,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("render: marshal request: %w", err)
	}

	url := c.baseURL + "/generations-text-to-video"
	var resp submitResponse
	if err := c.doRequest(ctx, http.MethodPost, url, bodyBytes, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	handle := resp.handle()
	if handle == "" {
		return "", ErrNoRenderHandle
	}

	return handle, nil
}

// Poll reports the current state of a generation.
func (c *HTTPClient) Poll(ctx context.Context, handle string) (Result, error) {
	if handle == "" {
		return Result{}, ErrHandleRequired
	}

	url := fmt.Sprintf("%s/generations/%s", c.baseURL, handle)
	var resp statusResponse
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return Result{}, err
	}

	gen := resp.GenerationsByPK
	if gen == nil {
		return Result{State: StatePending}, nil
	}

	if videoURL := gen.videoURL(); videoURL != "" {
		return Result{State: StateReady, VideoURL: videoURL}, nil
	}

	if gen.Status == "FAILED" {
		return Result{State: StateFailed, Detail: "generation failed"}, nil
	}

	return Result{State: StatePending}, nil
}

// doRequest performs a single HTTP request and decodes the JSON response.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("render: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("render: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("render: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("render: unmarshal response: %w", err)
		}
	}

	return nil
}

// Compile-time check that HTTPClient implements Renderer.
var _ Renderer = (*HTTPClient)(nil)
