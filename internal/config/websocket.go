package config

import (
	"net/http"
	"os"

	"github.com/gorilla/websocket"
)

// WebSocket configures the upgrader used by live board sessions.
type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket builds the upgrader. WS_ALLOWED_ORIGIN, when set and
// outside development mode, pins upgrades to that single Origin header
// value; otherwise any origin is accepted, which matches the
// cookie-based auth model (the session cookie, not the origin, is what
// gates a board session).
func NewWebSocket() (*WebSocket, error) {
	allowedOrigin := os.Getenv("WS_ALLOWED_ORIGIN")

	upgrader := websocket.Upgrader{
		// board events are small JSON cells; the default 4KiB buffers
		// only waste space
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || Development() {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	ws := &WebSocket{
		Upgrader: upgrader,
	}

	return ws, nil
}
