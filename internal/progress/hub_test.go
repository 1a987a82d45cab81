package progress

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// fakeEndpoint records sent events for assertions.
type fakeEndpoint struct {
	mu      sync.Mutex
	events  []Event
	sendErr error
	closed  bool
}

func (f *fakeEndpoint) Send(ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEndpoint) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEndpoint) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublish_Delivers(t *testing.T) {
	hub := newTestHub()
	ep := &fakeEndpoint{}
	hub.Register("client-1", ep)

	hub.Publish("client-1", Status("generating audio"))

	events := ep.received()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Kind != KindStatus {
		t.Errorf("expected status event, got %s", events[0].Kind)
	}
	if events[0].Payload != "generating audio" {
		t.Errorf("unexpected payload %v", events[0].Payload)
	}
}

func TestPublish_UnknownClientIsNoOp(t *testing.T) {
	hub := newTestHub()

	// Should not panic and not deliver anywhere.
	hub.Publish("ghost", Status("hello"))
	hub.Publish("", Status("hello"))
}

func TestPublish_AfterUnregisterIsDropped(t *testing.T) {
	hub := newTestHub()
	ep := &fakeEndpoint{}
	hub.Register("client-1", ep)
	hub.Unregister(ep)

	hub.Publish("client-1", Status("late"))

	if len(ep.received()) != 0 {
		t.Error("expected no delivery after unregister")
	}
	if hub.Len() != 0 {
		t.Errorf("expected empty hub, got %d", hub.Len())
	}
}

func TestUnregister_ByEndpointNotIdentifier(t *testing.T) {
	hub := newTestHub()
	old := &fakeEndpoint{}
	hub.Register("client-1", old)

	// Client reconnects with a new endpoint under the same identifier.
	fresh := &fakeEndpoint{}
	hub.Register("client-1", fresh)

	if !old.closed {
		t.Error("expected replaced endpoint to be closed")
	}

	// Tearing down the stale endpoint must not evict the fresh mapping.
	hub.Unregister(old)

	hub.Publish("client-1", Status("still here"))
	if len(fresh.received()) != 1 {
		t.Error("expected fresh endpoint to keep receiving after stale unregister")
	}
}

func TestPublish_SendFailureEvictsSubscriber(t *testing.T) {
	hub := newTestHub()
	ep := &fakeEndpoint{sendErr: errors.New("broken pipe")}
	hub.Register("client-1", ep)

	hub.Publish("client-1", Status("first"))

	if hub.Len() != 0 {
		t.Error("expected failed endpoint to be evicted")
	}

	// Further publishes are silent no-ops.
	hub.Publish("client-1", Status("second"))
}

func TestRegister_EmptyArgsIgnored(t *testing.T) {
	hub := newTestHub()
	hub.Register("", &fakeEndpoint{})
	hub.Register("client-1", nil)

	if hub.Len() != 0 {
		t.Errorf("expected empty hub, got %d", hub.Len())
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := newTestHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ep := &fakeEndpoint{}
			id := string(rune('a' + n%5))
			hub.Register(id, ep)
			hub.Publish(id, Status("tick"))
			hub.Unregister(ep)
		}(i)
	}
	wg.Wait()
}

func TestEventConstructors(t *testing.T) {
	ev := Update("audio", "https://cdn/audio.mp3")
	payload, ok := ev.Payload.(UpdatePayload)
	if !ok {
		t.Fatalf("expected UpdatePayload, got %T", ev.Payload)
	}
	if payload.Step != "audio" || payload.Data != "https://cdn/audio.mp3" {
		t.Errorf("unexpected payload %+v", payload)
	}

	ev = Error("it broke")
	if ev.Kind != KindError {
		t.Errorf("expected error kind, got %s", ev.Kind)
	}

	ev = Complete("script", "v-url", "m-url")
	done, ok := ev.Payload.(CompletePayload)
	if !ok {
		t.Fatalf("expected CompletePayload, got %T", ev.Payload)
	}
	if done.Script != "script" || done.VideoURL != "v-url" || done.MergedURL != "m-url" {
		t.Errorf("unexpected payload %+v", done)
	}
}
