package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/pkg/logger"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard and API share an origin; same-origin checks happen upstream
	CheckOrigin: func(r *http.Request) bool { return true },
}

type session struct {
	conn    *websocket.Conn
	adminID string
	send    chan *models.Notification
}

// Hub fans notifications out to connected CMS sessions. Per-recipient
// notifications go only to that admin's sessions; broadcasts go to everyone.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*session]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{sessions: make(map[*session]struct{})}
}

// Serve upgrades a request and pumps notifications until the client leaves
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, adminID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := &session{
		conn:    conn,
		adminID: adminID,
		send:    make(chan *models.Notification, 16),
	}

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	go h.writePump(s)
	h.readPump(s)
}

// readPump drains client frames; the dashboard never sends anything useful,
// but reading is required to notice disconnects
func (h *Hub) readPump(s *session) {
	defer h.drop(s)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(s *session) {
	for n := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := s.conn.WriteJSON(n); err != nil {
			h.drop(s)
			return
		}
	}
}

func (h *Hub) drop(s *session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
	}
	h.mu.Unlock()
	s.conn.Close()
}

// Broadcast pushes a notification to every matching live session. Slow
// sessions are skipped rather than blocking the caller.
func (h *Hub) Broadcast(n *models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions {
		if n.RecipientID != nil && *n.RecipientID != s.adminID {
			continue
		}
		select {
		case s.send <- n:
		default:
		}
	}
}

// Close disconnects every session
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		delete(h.sessions, s)
		close(s.send)
		s.conn.Close()
	}
}
