package script

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewHTTPClient_MissingAPIKey(t *testing.T) {
	_, err := NewHTTPClient("")
	if !errors.Is(err, ErrAPIKeyRequired) {
		t.Errorf("expected ErrAPIKeyRequired, got %v", err)
	}
}

func TestGenerate_Success(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{
				{Message: chatMessage{Role: "assistant", Content: "  Lagos street food is a world of flavor.  "}},
			},
		})
	}))
	defer server.Close()

	client, err := NewHTTPClient("test-key", WithBaseURL(server.URL), WithModel("gpt-4o-mini"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := client.Generate(context.Background(), "Lagos street food", 4, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Lagos street food is a world of flavor." {
		t.Errorf("unexpected script: %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %q", gotReq.Model)
	}
	if gotReq.MaxTokens != 300 {
		t.Errorf("expected max_tokens 300, got %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(gotReq.Messages))
	}
}

func TestGenerate_EmptyTopic(t *testing.T) {
	client, err := NewHTTPClient("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Generate(context.Background(), "   ", 4, "en")
	if !errors.Is(err, ErrTopicRequired) {
		t.Errorf("expected ErrTopicRequired, got %v", err)
	}
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer server.Close()

	client, _ := NewHTTPClient("bad-key", WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), "topic", 4, "en")
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("expected ErrRequestFailed, got %v", err)
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	client, _ := NewHTTPClient("test-key", WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), "topic", 4, "en")
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("expected ErrNoChoices, got %v", err)
	}
}

func TestGenerate_EmptyScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{{Message: chatMessage{Content: "   "}}},
		})
	}))
	defer server.Close()

	client, _ := NewHTTPClient("test-key", WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), "topic", 4, "en")
	if !errors.Is(err, ErrEmptyScript) {
		t.Errorf("expected ErrEmptyScript, got %v", err)
	}
}

func TestGenerate_DefaultsApplied(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{{Message: chatMessage{Content: "script"}}},
		})
	}))
	defer server.Close()

	client, _ := NewHTTPClient("test-key", WithBaseURL(server.URL))

	// Zero duration and empty language fall back to defaults inside the prompt.
	if _, err := client.Generate(context.Background(), "topic", 0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotReq.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(gotReq.Messages))
	}
}
