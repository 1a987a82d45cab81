package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestVoiceForLanguage(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"sw", "TxGEqnHWrfWFTfGW9XjX"},
		{"yo", "TxGEqnHWrfWFTfGW9XjX"},
		{"jam", "21m00Tcm4TlvDq8ikWAM"},
		{"ht", "EXAVITQu4vr4xnSDxMaL"},
		{"es-cu", "ErXwobaYiN019PkySvjV"},
		{"en", "21m00Tcm4TlvDq8ikWAM"},
		{"xx", "21m00Tcm4TlvDq8ikWAM"}, // unknown falls back to English
		{"", "21m00Tcm4TlvDq8ikWAM"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			if got := VoiceForLanguage(tt.language); got != tt.want {
				t.Errorf("VoiceForLanguage(%q) = %q, want %q", tt.language, got, tt.want)
			}
		})
	}
}

func TestNewElevenLabsClient_MissingAPIKey(t *testing.T) {
	_, err := NewElevenLabsClient("", t.TempDir())
	if !errors.Is(err, ErrAPIKeyRequired) {
		t.Errorf("expected ErrAPIKeyRequired, got %v", err)
	}
}

func TestSynthesize_Success(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	var gotPath, gotKey string
	var gotReq synthesisRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	client, err := NewElevenLabsClient("test-key", t.TempDir(), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, err := client.Synthesize(context.Background(), "hello world", "sw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(path)

	if !strings.HasSuffix(path, ".mp3") {
		t.Errorf("expected mp3 path, got %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audio file: %v", err)
	}
	if string(data) != string(audio) {
		t.Error("audio file content does not match response body")
	}

	if !strings.Contains(gotPath, "/text-to-speech/TxGEqnHWrfWFTfGW9XjX") {
		t.Errorf("expected Swahili voice in path, got %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected xi-api-key header, got %q", gotKey)
	}
	if gotReq.ModelID != "eleven_multilingual_v2" {
		t.Errorf("expected default model, got %q", gotReq.ModelID)
	}
	if gotReq.LanguageCode != "sw" {
		t.Errorf("expected language_code sw, got %q", gotReq.LanguageCode)
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	client, err := NewElevenLabsClient("test-key", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Synthesize(context.Background(), "", "en")
	if !errors.Is(err, ErrTextRequired) {
		t.Errorf("expected ErrTextRequired, got %v", err)
	}
}

func TestSynthesize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"quota exceeded"}`))
	}))
	defer server.Close()

	outDir := t.TempDir()
	client, _ := NewElevenLabsClient("test-key", outDir, WithBaseURL(server.URL))

	_, err := client.Synthesize(context.Background(), "hello", "en")
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("expected ErrRequestFailed, got %v", err)
	}

	// No partial file should be left behind.
	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatalf("read dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files in output dir, found %d", len(entries))
	}
}
