package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/notewell/meetscribe/internal/metrics"
	"github.com/notewell/meetscribe/pkg/logger"
)

// Event types pushed to clients over the lifetime of a recording session.
const (
	EventSessionStarted   = "session_started"
	EventTranscriptUpdate = "transcript_update"
	EventSessionEnded     = "session_ended"
	EventAnalysisComplete = "analysis_complete"
)

// Message is the envelope for every event sent to WebSocket clients.
type Message struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Server fans live session events out to all connected WebSocket clients.
// Clients are listen-only; inbound frames are read and discarded to service
// pings. Slow clients are disconnected rather than allowed to stall the
// broadcast loop.
type Server struct {
	upgrader   websocket.Upgrader
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	logger     *logger.Logger
}

// NewServer creates a WebSocket server. Run must be started before clients
// connect.
func NewServer(log *logger.Logger) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The HTTP layer enforces CORS; the upgrade itself accepts any
			// origin so local tooling can subscribe.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		logger:     log.Named("websocket"),
	}
}

// Run drives the hub until ctx is cancelled, then closes every client.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case c := <-s.register:
			s.clients[c] = struct{}{}
			metrics.WebsocketClients.Inc()
			s.logger.Debug("Client connected", logger.Int("clients", len(s.clients)))

		case c := <-s.unregister:
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
				metrics.WebsocketClients.Dec()
				s.logger.Debug("Client disconnected", logger.Int("clients", len(s.clients)))
			}

		case payload := <-s.broadcast:
			for c := range s.clients {
				select {
				case c.send <- payload:
				default:
					delete(s.clients, c)
					close(c.send)
					metrics.WebsocketClients.Dec()
					s.logger.Warn("Dropping slow WebSocket client")
				}
			}

		case <-ctx.Done():
			for c := range s.clients {
				delete(s.clients, c)
				close(c.send)
				metrics.WebsocketClients.Dec()
			}
			return
		}
	}
}

// Broadcast queues msg for delivery to every connected client. It never
// blocks the caller: when the hub's queue is full the message is dropped
// with a warning, since live updates are advisory and the next update
// supersedes this one.
func (s *Server) Broadcast(msg *Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to marshal WebSocket message", logger.Error(err), logger.String("type", msg.Type))
		return
	}
	select {
	case s.broadcast <- payload:
	default:
		s.logger.Warn("WebSocket broadcast queue full, dropping message", logger.String("type", msg.Type))
	}
}

// HandleConnection upgrades an HTTP request to a WebSocket subscription.
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", logger.Error(err))
		return
	}
	c := &client{server: s, conn: conn, send: make(chan []byte, 16)}
	s.register <- c

	go c.writePump()
	go c.readPump()
}
