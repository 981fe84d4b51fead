package handlers

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ClientManager manages connected clients
type ClientManager struct {
	clients map[string]*ClientHandler // Map PlayerID to ClientHandler
	mutex   sync.RWMutex
	active  sync.WaitGroup // running connection handlers
}

// NewClientManager creates a new client manager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
	}
}

// AddClient adds a client to the manager. A previous connection of the
// same player is closed.
func (cm *ClientManager) AddClient(playerID string, handler *ClientHandler) {
	cm.mutex.Lock()
	previous := cm.clients[playerID]
	cm.clients[playerID] = handler
	cm.mutex.Unlock()

	if previous != nil && previous != handler {
		log.WithField("player", playerID).Info("Replacing previous connection")
		previous.conn.Close()
	}
}

// RemoveClient removes a client from the manager if it is still the
// registered one for the player. It reports whether it was removed.
func (cm *ClientManager) RemoveClient(playerID string, handler *ClientHandler) bool {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if cm.clients[playerID] != handler {
		return false
	}
	delete(cm.clients, playerID)
	return true
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// SendUpdate pushes a fresh level view to a player, if connected
func (cm *ClientManager) SendUpdate(playerID string) {
	cm.mutex.RLock()
	client, ok := cm.clients[playerID]
	cm.mutex.RUnlock()
	if ok {
		client.sendUpdate()
	}
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.ExecuteOnAllClients(func(id string, client *ClientHandler) {
		if err := client.conn.SendMessage(msg); err != nil {
			log.WithError(err).WithField("player", id).Warn("Error broadcasting to client")
		}
	})
}

// CloseAll disconnects every client
func (cm *ClientManager) CloseAll() {
	cm.ExecuteOnAllClients(func(_ string, client *ClientHandler) {
		client.conn.Close()
	})
}

// ExecuteOnAllClients executes a function for each connected client
func (cm *ClientManager) ExecuteOnAllClients(action func(playerID string, client *ClientHandler)) {
	cm.mutex.RLock()
	clients := make(map[string]*ClientHandler, len(cm.clients))
	for id, client := range cm.clients {
		clients[id] = client
	}
	cm.mutex.RUnlock()

	for id, client := range clients {
		action(id, client)
	}
}

// Wait blocks until every connection handler returned or the timeout hit.
// It reports whether all handlers finished.
func (cm *ClientManager) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		cm.active.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
