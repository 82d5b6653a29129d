// Package live pushes the dashboard summary to websocket clients whenever the
// ledger changes.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/logging"
	"github.com/MrJamesThe3rd/pocket/internal/report"
)

const writeWait = 10 * time.Second

// Source provides the state sent to a client when it connects.
type Source interface {
	State() ledger.State
	Now() time.Time
}

// Message is what clients receive.
type Message struct {
	Type    string         `json:"type"`
	Summary report.Summary `json:"summary"`
}

// Hub owns every connection. Only the Run goroutine writes to a connection
// once it is registered.
type Hub struct {
	source   Source
	upgrader websocket.Upgrader
	log      *slog.Logger

	clients    map[*websocket.Conn]struct{}
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	done       chan struct{}
}

func NewHub(source Source, allowedOrigins []string) *Hub {
	return &Hub{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log:        logging.Component("live"),
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
	}
}

// originChecker allows requests without an Origin header (non-browser
// clients), "*" and the configured origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}

		return false
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}

			return nil
		case conn := <-h.register:
			h.clients[conn] = struct{}{}
			h.log.Info("client connected", "clients", len(h.clients))

			if msg, err := h.snapshot(h.source.State()); err == nil {
				h.send(conn, msg)
			}
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				h.log.Info("client disconnected", "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			for conn := range h.clients {
				h.send(conn, msg)
			}
		}
	}
}

func (h *Hub) send(conn *websocket.Conn, msg []byte) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		h.log.Warn("dropping client", "error", err)
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) snapshot(st ledger.State) ([]byte, error) {
	data, err := json.Marshal(Message{Type: "summary", Summary: report.Summarize(st, h.source.Now())})
	if err != nil {
		h.log.Error("failed to encode summary", "error", err)
		return nil, err
	}

	return data, nil
}

// Notify is a ledger.Listener. It never blocks the mutation that triggered
// it; when clients fall behind the update is dropped.
func (h *Hub) Notify(st ledger.State) {
	msg, err := h.snapshot(st)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast queue full, dropping update")
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	// Reads only detect the close; clients have nothing to say.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}
