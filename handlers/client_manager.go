package handlers

import (
	"sync"

	"go.uber.org/zap"
)

// ClientManager manages connected preview clients
type ClientManager struct {
	clients map[string]*ClientHandler // Map connection ID to ClientHandler
	mutex   sync.RWMutex
	logger  *zap.Logger
}

// NewClientManager creates a new client manager
func NewClientManager(logger *zap.Logger) *ClientManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
		logger:  logger,
	}
}

// AddClient adds a client to the manager
func (cm *ClientManager) AddClient(id string, handler *ClientHandler) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[id] = handler
}

// RemoveClient removes a client from the manager
func (cm *ClientManager) RemoveClient(id string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, id)
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if err := client.conn.SendMessage(msg); err != nil {
			cm.logger.Warn("Error broadcasting to client", zap.String("client", id), zap.Error(err))
		}
	}
}

// CloseAll closes every client connection
func (cm *ClientManager) CloseAll() {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for _, client := range cm.clients {
		client.conn.Close()
	}
}
