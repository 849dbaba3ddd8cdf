package remote

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/pathway/internal/errors"
)

// Handler upgrades requests to WebSocket, accepts the hello frame and hands
// the Conn to fn, then serves events until the peer disconnects. fn runs
// before the read loop starts and must not block on Conn events.
func Handler(cfg Config, fn func(*Conn)) http.Handler {
	cfg = cfg.withDefaults()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.Logger.Debug("websocket upgrade failed", "error", err)
			return
		}

		c, err := Accept(ws, cfg)
		if err != nil {
			cfg.Logger.Warn("remote handshake failed", "remote_addr", r.RemoteAddr, "error", errors.New("H004").Wrap(err))
			if cfg.OnError != nil {
				cfg.OnError("handshake", err)
			}
			_ = ws.Close()
			return
		}

		fn(c)
		if err := c.Serve(r.Context()); err != nil {
			cfg.Logger.Warn("remote connection ended", "remote_addr", r.RemoteAddr, "error", err)
			if cfg.OnError != nil {
				cfg.OnError("serve", err)
			}
		}
	})
}
