// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/ursa/internal/logging"
	"github.com/tomtom215/ursa/internal/metrics"
	"github.com/tomtom215/ursa/internal/models"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication.
const (
	MessageTypeInit            = "init"
	MessageTypeDetection       = "detection"
	MessageTypeThreatUpdated   = "threat_updated"
	MessageTypePattern         = "pattern"
	MessageTypeEntity          = "entity"
	MessageTypeScenarioStarted = "scenario_started"
	MessageTypeScenarioStopped = "scenario_stopped"
	MessageTypeScenarioSummary = "scenario_summary"
	MessageTypePing            = "ping"
	MessageTypePong            = "pong"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// InitData is sent to a client right after it connects.
type InitData struct {
	Cameras   []models.Camera  `json:"cameras"`
	Threats   []*models.Threat `json:"threats"`
	Timestamp time.Time        `json:"timestamp"`
}

// DetectionData announces a new threat.
type DetectionData struct {
	Threat    *models.Threat         `json:"threat"`
	Reasoning *models.ReasoningEntry `json:"reasoning,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// ScenarioData describes a demo scenario lifecycle event.
type ScenarioData struct {
	Scenario        string    `json:"scenario"`
	Message         string    `json:"message,omitempty"`
	ThreatsDetected int       `json:"threats_detected,omitempty"`
	PatternsFound   int       `json:"patterns_found,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	now        func() time.Time
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		now:        time.Now,
	}
}

// RunWithContext runs the hub until ctx is cancelled, then closes every
// client and returns ctx.Err().
//
// Shutdown is checked first, then client lifecycle events, then broadcasts,
// so client state is consistent before a message fans out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(n))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(n))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", n).Msg("websocket client disconnected")
}

func (h *Hub) shutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients returns clients in id order. Callers hold h.mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var slow []*Client
	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}

	for _, client := range slow {
		close(client.send)
		delete(h.clients, client)
		metrics.WSSlowClients.Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("dropping slow websocket client")
	}

	metrics.WSMessagesSent.WithLabelValues(message.Type).Inc()
	metrics.WSConnections.Set(float64(len(h.clients)))
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastJSON queues a message for every client. Messages are dropped
// when the broadcast buffer is full.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastDetection announces a new threat.
func (h *Hub) BroadcastDetection(t *models.Threat, reasoning *models.ReasoningEntry) {
	h.BroadcastJSON(MessageTypeDetection, DetectionData{
		Threat:    t,
		Reasoning: reasoning,
		Timestamp: h.now(),
	})
}

// BroadcastThreatUpdated publishes the latest state of a threat.
func (h *Hub) BroadcastThreatUpdated(t *models.Threat) {
	h.BroadcastJSON(MessageTypeThreatUpdated, t)
}

// BroadcastPattern publishes a pattern snapshot.
func (h *Hub) BroadcastPattern(p *models.Pattern) {
	h.BroadcastJSON(MessageTypePattern, p)
}

// BroadcastEntity publishes a tracked entity.
func (h *Hub) BroadcastEntity(e models.TrackedEntity) {
	h.BroadcastJSON(MessageTypeEntity, e)
}

// BroadcastScenario publishes a scenario lifecycle event of the given type.
func (h *Hub) BroadcastScenario(messageType string, data ScenarioData) {
	if data.Timestamp.IsZero() {
		data.Timestamp = h.now()
	}
	h.BroadcastJSON(messageType, data)
}

// String implements fmt.Stringer for supervisor logging.
func (h *Hub) String() string {
	return "websocket-hub"
}
