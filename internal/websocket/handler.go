package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket upgrades connections and runs them as Hub clients. When
// greet is non-nil its messages are sent to each client right after it
// connects, so a fresh client starts from the current state.
func HandleWebSocket(hub *Hub, greet func() []Message, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // household LAN, any origin
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}
		defer conn.CloseNow()

		var greeting []Message
		if greet != nil {
			greeting = greet()
		}

		client := NewClient(hub, conn)
		client.Run(r.Context(), greeting)
	}
}
