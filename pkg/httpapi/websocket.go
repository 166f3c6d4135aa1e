package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"callinsight/pkg/analytics"
	"callinsight/pkg/metrics"
)

// ReportEvent is the wire format for streamed report summaries. Clients
// monitoring a queue of calls get the headline numbers without the full
// transcript payload.
type ReportEvent struct {
	Timestamp      time.Time          `json:"timestamp"`
	PrimaryIntent  string             `json:"primary_intent"`
	Tone           analytics.Polarity `json:"conversation_tone"`
	CallOutcome    analytics.Outcome  `json:"call_outcome"`
	QualityScore   float64            `json:"quality_score"`
	EscalationRisk float64            `json:"escalation_risk"`
	BriefSummary   string             `json:"brief_summary"`
	Degraded       bool               `json:"degraded"`
}

// Client represents a connected WebSocket client
type Client struct {
	hub    *ReportHub
	conn   *websocket.Conn
	send   chan []byte
	logger *logrus.Logger
}

// ReportHub manages WebSocket clients and broadcasts completed reports
type ReportHub struct {
	logger     *logrus.Logger
	clients    map[*Client]bool
	broadcast  chan *ReportEvent
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// WebSocketUpgrader configures the WebSocket connection
var WebSocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewReportHub creates a new report stream hub
func NewReportHub(logger *logrus.Logger) *ReportHub {
	return &ReportHub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *ReportEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub loop until ctx is canceled.
func (h *ReportHub) Run(ctx context.Context) {
	h.logger.Info("Starting WebSocket report hub")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Shutting down WebSocket report hub")
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

			if metrics.IsMetricsEnabled() && metrics.WSClientsConnected != nil {
				metrics.WSClientsConnected.Inc()
			}
			h.logger.Info("Client connected to report stream")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				if metrics.IsMetricsEnabled() && metrics.WSClientsConnected != nil {
					metrics.WSClientsConnected.Dec()
				}
				h.logger.Info("Client disconnected from report stream")
			}
			h.mutex.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.WithError(err).Error("Failed to marshal report event")
				continue
			}

			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer, drop the event for this client.
				}
			}
			h.mutex.RUnlock()
		}
	}
}

func (h *ReportHub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// BroadcastReport queues a completed report for delivery to all clients.
// Never blocks the analysis path.
func (h *ReportHub) BroadcastReport(report *analytics.AnalysisReport) {
	event := &ReportEvent{
		Timestamp:      time.Now().UTC(),
		PrimaryIntent:  report.Intent.PrimaryIntent,
		Tone:           report.Summary.ConversationTone,
		CallOutcome:    report.Quality.CallOutcome,
		QualityScore:   report.Quality.QualityScore,
		EscalationRisk: report.Quality.EscalationRisk,
		BriefSummary:   report.Summary.BriefSummary,
		Degraded:       report.Degraded,
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("Report stream broadcast buffer full, dropping event")
	}
}

// HandleWebSocket upgrades an HTTP request into a report stream client.
func (h *ReportHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := WebSocketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		logger: h.logger,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// writePump delivers hub events to one connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection and detects closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
