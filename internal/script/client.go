package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Static errors for script generation.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("script: API key is required")
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("script: topic is required")
	// ErrRequestFailed is returned when the API responds with a non-2xx status.
	ErrRequestFailed = errors.New("script: request failed")
	// ErrNoChoices is returned when the response contains no completion choices.
	ErrNoChoices = errors.New("script: no choices in response")
	// ErrEmptyScript is returned when the completion text is empty.
	ErrEmptyScript = errors.New("script: empty script returned")
)

// HTTPClient generates scripts through the OpenAI chat completions API.
type HTTPClient struct {
	apiKey     string
	model      string
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

// WithModel sets the chat model used for generation.
func WithModel(model string) ClientOption {
	return func(hc *HTTPClient) {
		hc.model = model
	}
}

// NewHTTPClient creates a new script generation client.
// The API key must be provided.
func NewHTTPClient(apiKey string, opts ...ClientOption) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &HTTPClient{
		apiKey:     apiKey,
		model:      "gpt-4o-mini",
		baseURL:    "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Generate produces a concise narration script for the topic.
// The script is kept short enough for text-to-speech (under ~1000 characters).
func (c *HTTPClient) Generate(ctx context.Context, topic string, durationSec int, language string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", ErrTopicRequired
	}
	if durationSec <= 0 {
		durationSec = 4
	}
	if language == "" {
		language = "en"
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(topic, durationSec, language)},
		},
		Temperature: 0.7,
		MaxTokens:   300, // roughly 1000 characters
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("script: marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("script: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("script: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("script: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("script: unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyScript
	}

	return text, nil
}

// buildPrompt renders the narration prompt for the chat model.
func buildPrompt(topic string, durationSec int, language string) string {
	return fmt.Sprintf(`Write a concise, single-narrator video script about %q in language %q.
- The video is about %d seconds long
- Keep it under 1000 characters
- Simple, easy-to-read language
- Do NOT include multiple characters or cinematic directions
- Make it engaging but short
- Output only the script text`, topic, language, durationSec)
}

// Compile-time check that HTTPClient implements Generator.
var _ Generator = (*HTTPClient)(nil)
