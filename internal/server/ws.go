package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/afrovids/afrovids-api/internal/progress"
)

const maxRegisterFrameSize = 1024

// wsEndpoint adapts a WebSocket connection to the progress endpoint contract.
// Writes are serialized; the pipeline and the hub may publish concurrently.
type wsEndpoint struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

var _ progress.Endpoint = (*wsEndpoint)(nil)

func (e *wsEndpoint) Send(ev progress.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn.WriteJSON(ev)
}

func (e *wsEndpoint) Close() error {
	return e.conn.Close()
}

// WSHandler upgrades HTTP connections and ties them to the progress hub.
type WSHandler struct {
	hub      *progress.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a WSHandler bound to the given hub.
// Origin checks are delegated to the CORS middleware.
func NewWSHandler(hub *progress.Hub, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeWS handles GET /ws requests. The client must send a register frame
// first; after that the connection only receives events until either side
// closes it.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()),
		)
		return
	}

	// The HTTP server's deadlines carry over to the hijacked connection and
	// would cut long-lived subscriptions short.
	_ = conn.UnderlyingConn().SetDeadline(time.Time{})

	conn.SetReadLimit(maxRegisterFrameSize)

	var reg registerMessage
	if err := conn.ReadJSON(&reg); err != nil || reg.Type != "register" || reg.ClientID == "" {
		h.logger.Warn("websocket registration rejected",
			slog.String("remote_addr", r.RemoteAddr),
		)
		_ = conn.Close()
		return
	}

	ep := &wsEndpoint{conn: conn}
	h.hub.Register(reg.ClientID, ep)
	h.logger.Info("websocket client registered",
		slog.String("client_id", reg.ClientID),
	)

	// Drain the connection until it drops. Clients send nothing after
	// registering, so the first read error means disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.Unregister(ep)
	_ = conn.Close()
	h.logger.Info("websocket client disconnected",
		slog.String("client_id", reg.ClientID),
	)
}
