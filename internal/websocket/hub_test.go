package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"catalogdash/internal/config"
	"catalogdash/internal/infrastructure"
	"catalogdash/pkg/contracts/events"
)

type written struct {
	messageType int
	data        []byte
}

// mockConnection is an in-memory Connection
type mockConnection struct {
	mu      sync.Mutex
	writes  []written
	reads   chan []byte
	closed  bool
	onPong  func(string) error
	limit   int64
	readErr error
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		reads:   make(chan []byte, 8),
		readErr: &websocket.CloseError{Code: websocket.CloseNormalClosure},
	}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	m.writes = append(m.writes, written{messageType: messageType, data: data})
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	msg, ok := <-m.reads
	if !ok {
		return 0, nil, m.readErr
	}
	return websocket.TextMessage, msg, nil
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConnection) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error { return nil }
func (m *mockConnection) SetReadLimit(limit int64)         { m.limit = limit }

func (m *mockConnection) SetPongHandler(h func(string) error) { m.onPong = h }

func (m *mockConnection) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}
}

func (m *mockConnection) snapshot() []written {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]written(nil), m.writes...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(config.Default().WebSocket, nil, testLogger())
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) events.Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg events.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return events.Message{}
	}
}

func TestHubRegisterSendsConnectionMessage(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub, newMockConnection(), "trace-1")

	require.True(t, hub.Register(client))

	msg := receive(t, client)
	assert.Equal(t, events.MessageTypeConnection, msg.Type)
	assert.Equal(t, "trace-1", msg.TraceID)
	data, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, client.ID(), data["client_id"])
	assert.Equal(t, "connected", data["status"])

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "127.0.0.1:40000", client.remoteAddr)
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := newTestHub(t)
	a := NewClient(hub, newMockConnection(), "")
	b := NewClient(hub, newMockConnection(), "")
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	receive(t, a)
	receive(t, b)

	ctx := infrastructure.WithTraceID(context.Background(), "trace-42")
	hub.BroadcastEvent(ctx, events.MessageTypeDatasetDeleted, events.DatasetDeletedEvent{DatasetID: "ds-1"})

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		assert.Equal(t, events.MessageTypeDatasetDeleted, msg.Type)
		assert.Equal(t, "trace-42", msg.TraceID)
		assert.Equal(t, map[string]any{"dataset_id": "ds-1"}, msg.Data)
	}
}

func TestHubUnregisterClosesQueue(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub, newMockConnection(), "")
	require.True(t, hub.Register(client))
	receive(t, client)

	hub.Unregister(client)

	_, ok := <-client.send
	assert.False(t, ok)
	assert.Zero(t, hub.ClientCount())
}

func TestHubStop(t *testing.T) {
	hub := NewHub(config.Default().WebSocket, nil, testLogger())
	hub.Start()
	client := NewClient(hub, newMockConnection(), "")
	require.True(t, hub.Register(client))
	receive(t, client)

	hub.Stop()
	hub.Stop()

	_, ok := <-client.send
	assert.False(t, ok)
	assert.False(t, hub.Register(NewClient(hub, newMockConnection(), "")))

	// Publishing after shutdown returns immediately.
	hub.BroadcastEvent(context.Background(), events.MessageTypeChartGenerated, nil)
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewOTelMetrics(provider.Meter("test"))
	require.NoError(t, err)

	// Not started: nothing drains the queue.
	hub := NewHub(config.Default().WebSocket, metrics, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range broadcastQueueSize + 10 {
			hub.BroadcastEvent(context.Background(), events.MessageTypeChartGenerated, events.ChartGeneratedEvent{Kind: "trend"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastEvent blocked on a full queue")
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.Equal(t, int64(10), sumCounter(t, rm, "websocket_dropped_messages_total"))
	assert.Equal(t, int64(broadcastQueueSize), sumCounter(t, rm, "websocket_messages_total"))
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestClientWritePump(t *testing.T) {
	hub := NewHub(config.Default().WebSocket, nil, testLogger())
	conn := newMockConnection()
	client := NewClient(hub, conn, "")

	client.send <- []byte(`{"type":"chart:generated"}`)
	close(client.send)
	client.WritePump()

	writes := conn.snapshot()
	require.Len(t, writes, 2)
	assert.Equal(t, websocket.TextMessage, writes[0].messageType)
	assert.JSONEq(t, `{"type":"chart:generated"}`, string(writes[0].data))
	assert.Equal(t, websocket.CloseMessage, writes[1].messageType)
	assert.True(t, conn.closed)
}

func TestClientReadPumpUnregisters(t *testing.T) {
	hub := newTestHub(t)
	conn := newMockConnection()
	client := NewClient(hub, conn, "")
	require.True(t, hub.Register(client))
	receive(t, client)

	conn.reads <- []byte(heartbeat)
	conn.reads <- []byte("ignored\n")
	close(conn.reads)
	client.ReadPump()

	assert.Equal(t, int64(2), client.messagesReceived)
	assert.Equal(t, int64(maxMessageSize), conn.limit)
	require.NotNil(t, conn.onPong)
	assert.NoError(t, conn.onPong(""))

	_, ok := <-client.send
	assert.False(t, ok)
	assert.Zero(t, hub.ClientCount())
}

func TestNewClientPingPeriod(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.WebSocketConfig
		ping time.Duration
		pong time.Duration
	}{
		{
			name: "configured",
			cfg:  config.WebSocketConfig{PingPeriod: 20 * time.Second, PongWait: 30 * time.Second},
			ping: 20 * time.Second,
			pong: 30 * time.Second,
		},
		{
			name: "ping not shorter than pong",
			cfg:  config.WebSocketConfig{PingPeriod: 30 * time.Second, PongWait: 30 * time.Second},
			ping: 27 * time.Second,
			pong: 30 * time.Second,
		},
		{
			name: "zero values",
			ping: 54 * time.Second,
			pong: 60 * time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(tt.cfg, nil, testLogger())
			c := NewClient(hub, newMockConnection(), "")
			assert.Equal(t, tt.ping, c.pingPeriod)
			assert.Equal(t, tt.pong, c.pongWait)
		})
	}
}
