package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourorg/propmanager/internal/activity"
	"github.com/yourorg/propmanager/internal/observability/metrics"
)

// ActiviteHandler streams mutation events to WebSocket clients.
type ActiviteHandler struct {
	activite       *activity.Broadcaster
	logger         *slog.Logger
	allowedOrigins []string
}

// NewActiviteHandler creates a new activity feed handler.
func NewActiviteHandler(activite *activity.Broadcaster, logger *slog.Logger, allowedOrigins []string) *ActiviteHandler {
	return &ActiviteHandler{
		activite:       activite,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// upgrader is initialized per-request to use instance's allowed origins
func (h *ActiviteHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/activite
func (h *ActiviteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	events, cancel := h.activite.Subscribe()
	defer cancel()

	metrics.IncWebsocketClients()
	defer metrics.DecWebsocketClients()

	h.logger.Debug("activity feed client connected", slog.String("remote", r.RemoteAddr))

	// Drain client frames so close messages are processed
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Heartbeat ping to keep connection alive
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, open := <-events:
			if !open {
				return
			}
			if err := ws.WriteJSON(event); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("websocket closed", slog.String("remote", r.RemoteAddr))
				}
				return
			}
		case <-ticker.C:
			_ = ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		case <-disconnected:
			return
		case <-r.Context().Done():
			return
		}
	}
}
