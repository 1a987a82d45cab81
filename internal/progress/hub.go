package progress

import (
	"log/slog"
	"sync"
)

// Endpoint is one subscriber connection. The WebSocket layer adapts its
// connections to this interface; tests use in-memory fakes.
type Endpoint interface {
	// Send pushes one event to the subscriber.
	Send(ev Event) error
	// Close tears the connection down.
	Close() error
}

// Hub maps client identifiers to their current endpoint.
// A reverse index makes disconnects O(1): connections are looked up by
// endpoint, since the identifier is caller-supplied and the endpoint is ours.
type Hub struct {
	mu         sync.Mutex
	byClient   map[string]Endpoint
	byEndpoint map[Endpoint]string
	logger     *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		byClient:   make(map[string]Endpoint),
		byEndpoint: make(map[Endpoint]string),
		logger:     logger,
	}
}

// Register binds a client identifier to an endpoint. A client registering
// again replaces and closes its previous endpoint.
func (h *Hub) Register(clientID string, ep Endpoint) {
	if clientID == "" || ep == nil {
		return
	}

	h.mu.Lock()
	if old, ok := h.byClient[clientID]; ok && old != ep {
		delete(h.byEndpoint, old)
		_ = old.Close()
	}
	h.byClient[clientID] = ep
	h.byEndpoint[ep] = clientID
	h.mu.Unlock()

	h.logger.Info("client registered", slog.String("client_id", clientID))
}

// Unregister removes the mapping entry whose endpoint matches.
// Unknown endpoints are ignored.
func (h *Hub) Unregister(ep Endpoint) {
	h.mu.Lock()
	clientID, ok := h.byEndpoint[ep]
	if ok {
		delete(h.byEndpoint, ep)
		// Only drop the forward entry if it still points at this endpoint;
		// the client may have re-registered on a new connection.
		if h.byClient[clientID] == ep {
			delete(h.byClient, clientID)
		}
	}
	h.mu.Unlock()

	if ok {
		h.logger.Info("client unregistered", slog.String("client_id", clientID))
	}
}

// Publish delivers an event to the client's current endpoint.
// Missing subscribers are a silent no-op; a failed send unregisters the
// endpoint. Delivery failure is never surfaced to the caller.
func (h *Hub) Publish(clientID string, ev Event) {
	if clientID == "" {
		return
	}

	h.mu.Lock()
	ep, ok := h.byClient[clientID]
	h.mu.Unlock()
	if !ok {
		return
	}

	if err := ep.Send(ev); err != nil {
		h.logger.Warn("progress delivery failed, dropping subscriber",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()),
		)
		h.Unregister(ep)
	}
}

// Len reports the number of registered subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.byClient)
}

// Compile-time check that Hub implements Publisher.
var _ Publisher = (*Hub)(nil)
