// Package websocket pushes dashboard updates to connected browsers: upload
// progress while a file loads and refresh notifications when the dataset or
// filters change.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"claimsdash/internal/infrastructure"
)

// Message type constants understood by the dashboard client.
const (
	TypeConnection = "connection"
	TypeProgress   = "progress"
	TypeStatus     = "status"
	TypeError      = "error"
	TypeRefresh    = "refresh"
)

// Envelope is the wire format of every pushed message.
type Envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	quit    chan struct{}
	running bool
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Start launches the hub loop. Safe to call more than once.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop shuts the hub loop down and disconnects every client.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			infrastructure.WebSocketClients.Set(0)
			h.logger.Info("hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			infrastructure.WebSocketClients.Set(float64(count))

			h.logger.InfoContext(clientCtx(client), "client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.sendTo(client, Envelope{
				Type:      TypeConnection,
				Data:      map[string]string{"status": "connected", "client_id": client.id},
				Timestamp: time.Now().Format(time.RFC3339),
				TraceID:   client.traceID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			infrastructure.WebSocketClients.Set(float64(count))

			h.logger.InfoContext(clientCtx(client), "client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn("dropping message for slow client",
						slog.String("client_id", client.id))
				}
			}
		}
	}
}

func (h *Hub) sendTo(client *Client, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("client buffer full", slog.String("client_id", client.id))
	}
}

// Broadcast marshals an envelope and queues it for every client.
func (h *Hub) Broadcast(env Envelope) {
	if env.Timestamp == "" {
		env.Timestamp = time.Now().Format(time.RFC3339)
	}
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("marshal broadcast", slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast buffer full, dropping message",
			slog.String("type", env.Type))
	}
}

// BroadcastProgress pushes an upload progress fraction in [0,1] with the
// source file name.
func (h *Hub) BroadcastProgress(source string, fraction float64) {
	h.Broadcast(Envelope{
		Type: TypeProgress,
		Data: map[string]interface{}{"source": source, "fraction": fraction},
	})
}

// BroadcastStatus pushes a human-readable pipeline status line.
func (h *Hub) BroadcastStatus(message string) {
	h.Broadcast(Envelope{
		Type: TypeStatus,
		Data: map[string]string{"message": message},
	})
}

// BroadcastError pushes a pipeline failure to connected dashboards.
func (h *Hub) BroadcastError(message string) {
	h.Broadcast(Envelope{
		Type: TypeError,
		Data: map[string]string{"message": message},
	})
}

// BroadcastRefresh tells dashboards to refetch; reason is "upload",
// "filters", or "reset".
func (h *Hub) BroadcastRefresh(reason string) {
	h.Broadcast(Envelope{
		Type: TypeRefresh,
		Data: map[string]string{"reason": reason},
	})
}

func clientCtx(client *Client) context.Context {
	ctx := context.Background()
	if client.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, client.traceID)
	}
	return ctx
}
