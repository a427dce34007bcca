// Package events contains the event contracts pushed to dashboards over
// the WebSocket connection.
package events

import (
	"time"

	api "catalogdash/pkg/contracts/api/v1"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Connection messages
	MessageTypeConnection MessageType = "connection"
	MessageTypeError      MessageType = "error"

	// Dataset lifecycle
	MessageTypeDatasetLoaded  MessageType = "dataset:loaded"
	MessageTypeDatasetDeleted MessageType = "dataset:deleted"

	// Charts
	MessageTypeChartGenerated MessageType = "chart:generated"
)

// Message is the envelope of every WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      any         `json:"data,omitempty"`
}

// NewMessage stamps data with the current time
func NewMessage(t MessageType, traceID string, data any) Message {
	return Message{
		Type:      t,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Data:      data,
	}
}

// ConnectionEvent greets a newly connected client
type ConnectionEvent struct {
	ClientID string `json:"client_id"`
	Status   string `json:"status"`
}

// DatasetLoadedEvent announces a new dataset
type DatasetLoadedEvent struct {
	Dataset api.DatasetInfo `json:"dataset"`
}

// DatasetDeletedEvent announces a discarded dataset. Evicted is set when
// the store dropped it to make room.
type DatasetDeletedEvent struct {
	DatasetID string `json:"dataset_id"`
	Evicted   bool   `json:"evicted,omitempty"`
}

// ChartGeneratedEvent announces a computed chart
type ChartGeneratedEvent struct {
	DatasetID string  `json:"dataset_id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Total     float64 `json:"total"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
