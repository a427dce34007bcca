package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"catalogdash/internal/config"
	"catalogdash/internal/infrastructure"
	"catalogdash/pkg/contracts/events"
)

const (
	// broadcastQueueSize bounds messages waiting for the hub loop
	broadcastQueueSize = 256

	// clientQueueSize bounds messages waiting for one client's write pump
	clientQueueSize = 64
)

// Hub maintains the set of active clients and broadcasts messages to them.
// Publishing never blocks: when the queue is full the message is dropped.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	cfg     config.WebSocketConfig
	metrics *OTelMetrics
	logger  *slog.Logger

	quit    chan struct{}
	done    chan struct{}
	running bool
	stopped bool
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(cfg config.WebSocketConfig, metrics *OTelMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running || h.stopped {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run is the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.closeAll()
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.metrics.RecordConnection(ctx)
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.greet(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; !ok {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client)
			close(client.send)
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.metrics.RecordDisconnection(ctx, time.Since(client.connectedAt), "normal")
			h.logger.InfoContext(ctx, "Client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// greet sends the connection message to a newly registered client
func (h *Hub) greet(ctx context.Context, client *Client) {
	msg := events.NewMessage(events.MessageTypeConnection, client.traceID, events.ConnectionEvent{
		ClientID: client.id,
		Status:   "connected",
	})
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling connection message", slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) fanOut(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	failCount := 0
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// A client that cannot keep up is disconnected.
			failCount++
			close(client.send)
			delete(h.clients, client)
			h.metrics.RecordDisconnection(client.context(), time.Since(client.connectedAt), "slow_consumer")
			h.logger.Warn("Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	h.logger.Debug("Broadcast message to clients",
		slog.Int("client_count", len(h.clients)),
		slog.Int("fail_count", failCount),
		slog.Int("message_size", len(message)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// BroadcastEvent queues an event for every connected client. The trace id
// of ctx is copied into the envelope.
func (h *Hub) BroadcastEvent(ctx context.Context, msgType events.MessageType, data any) {
	msg := events.NewMessage(msgType, infrastructure.GetTraceID(ctx), data)
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(msgType)))
		return
	}

	select {
	case <-h.quit:
		h.metrics.RecordDroppedMessage(ctx, string(msgType), "stopped")
		return
	default:
	}

	select {
	case h.broadcast <- payload:
		h.metrics.RecordMessage(ctx, "sent", string(msgType), len(payload))
	default:
		h.metrics.RecordDroppedMessage(ctx, string(msgType), "queue_full")
		h.logger.WarnContext(ctx, "Broadcast queue full, dropping message",
			slog.String("message_type", string(msgType)))
	}
}

// Register adds a client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes a client from the hub and closes its send queue
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop gracefully stops the hub and closes every client queue
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	running := h.running
	h.mu.Unlock()

	close(h.quit)
	if running {
		<-h.done
	}
}
