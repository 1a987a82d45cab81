package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// stubRenderer scripts Poll results for the Poller tests.
type stubRenderer struct {
	results []pollOutcome
	calls   int
}

type pollOutcome struct {
	result Result
	err    error
}

func (s *stubRenderer) Submit(_ context.Context, _ string, _ int) (string, error) {
	return "stub-handle", nil
}

func (s *stubRenderer) Poll(_ context.Context, _ string) (Result, error) {
	var out pollOutcome
	if s.calls < len(s.results) {
		out = s.results[s.calls]
	} else if len(s.results) > 0 {
		out = s.results[len(s.results)-1]
	}
	s.calls++
	return out.result, out.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxAttempts != 20 {
		t.Errorf("expected 20 attempts, got %d", p.MaxAttempts)
	}
	if p.Interval != 10*time.Second {
		t.Errorf("expected 10s interval, got %s", p.Interval)
	}
}

func TestWait_ReadyFirstAttempt(t *testing.T) {
	r := &stubRenderer{results: []pollOutcome{
		{result: Result{State: StateReady, VideoURL: "https://cdn/video.mp4"}},
	}}
	poller := NewPoller(Policy{Interval: 0, MaxAttempts: 20}, quietLogger())

	url, err := poller.Wait(context.Background(), r, "gen-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn/video.mp4" {
		t.Errorf("unexpected URL %q", url)
	}
	if r.calls != 1 {
		t.Errorf("expected 1 poll, got %d", r.calls)
	}
}

func TestWait_PendingThenReady(t *testing.T) {
	r := &stubRenderer{results: []pollOutcome{
		{result: Result{State: StatePending}},
		{result: Result{State: StatePending}},
		{result: Result{State: StateReady, VideoURL: "https://cdn/video.mp4"}},
	}}
	poller := NewPoller(Policy{Interval: 0, MaxAttempts: 20}, quietLogger())

	url, err := poller.Wait(context.Background(), r, "gen-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn/video.mp4" {
		t.Errorf("unexpected URL %q", url)
	}
	if r.calls != 3 {
		t.Errorf("expected 3 polls, got %d", r.calls)
	}
}

func TestWait_TransportErrorsTolerated(t *testing.T) {
	r := &stubRenderer{results: []pollOutcome{
		{err: errors.New("connection reset")},
		{err: errors.New("gateway timeout")},
		{result: Result{State: StateReady, VideoURL: "https://cdn/video.mp4"}},
	}}
	poller := NewPoller(Policy{Interval: 0, MaxAttempts: 5}, quietLogger())

	url, err := poller.Wait(context.Background(), r, "gen-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn/video.mp4" {
		t.Errorf("unexpected URL %q", url)
	}
}

func TestWait_TimeoutAfterExactCeiling(t *testing.T) {
	r := &stubRenderer{results: []pollOutcome{
		{result: Result{State: StatePending}},
	}}
	poller := NewPoller(Policy{Interval: 0, MaxAttempts: 7}, quietLogger())

	_, err := poller.Wait(context.Background(), r, "gen-1")
	if !errors.Is(err, ErrRenderTimeout) {
		t.Fatalf("expected ErrRenderTimeout, got %v", err)
	}
	if r.calls != 7 {
		t.Errorf("expected exactly 7 polls, got %d", r.calls)
	}
}

func TestWait_ProviderFailureIsTerminal(t *testing.T) {
	r := &stubRenderer{results: []pollOutcome{
		{result: Result{State: StateFailed, Detail: "nsfw content"}},
	}}
	poller := NewPoller(Policy{Interval: 0, MaxAttempts: 20}, quietLogger())

	_, err := poller.Wait(context.Background(), r, "gen-1")
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
	if r.calls != 1 {
		t.Errorf("expected 1 poll, got %d", r.calls)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	r := &stubRenderer{results: []pollOutcome{
		{result: Result{State: StatePending}},
	}}
	poller := NewPoller(Policy{Interval: time.Hour, MaxAttempts: 20}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := poller.Wait(ctx, r, "gen-1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
