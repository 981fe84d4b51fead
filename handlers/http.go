package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"maze-daze/server/services"
)

// NewUpgrader returns the websocket upgrader used by the game endpoint
func NewUpgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		// the renderer is served from another origin
		CheckOrigin: func(r *http.Request) bool { return true },
	}
}

// ServeWS upgrades the request and serves the game protocol on it
func ServeWS(upgrader *websocket.Upgrader, playerService *services.PlayerService, worldService *services.WorldService, clientManager *ClientManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("Failed to upgrade connection")
			return
		}
		HandleClientConnection(conn, playerService, worldService, clientManager)
	}
}

// Healthz reports that the server is up
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
