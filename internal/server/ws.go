package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/app"
)

const (
	writeWait    = 5 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FrameSource is the render loop seen by the frames feed.
type FrameSource interface {
	Subscribe() (<-chan app.Frame, func())
}

// FramesHandler streams render frames to WebSocket clients as JSON.
type FramesHandler struct {
	source FrameSource
	log    *zap.Logger
}

// NewFramesHandler creates a new FramesHandler reading from source.
func NewFramesHandler(source FrameSource, log *zap.Logger) *FramesHandler {
	return &FramesHandler{source: source, log: log}
}

// ServeHTTP upgrades the connection and forwards frames until the client
// goes away. Slow clients skip frames rather than fall behind.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	frames, unsubscribe := h.source.Subscribe()
	defer unsubscribe()

	// Reads only detect the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(f); err != nil {
				h.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
