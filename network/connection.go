package network

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// ErrSendBufferFull is returned when the client is not draining its messages
var ErrSendBufferFull = errors.New("send buffer full")

// Connection wraps the WebSocket connection with additional fields
type Connection struct {
	ID     string
	ws     *websocket.Conn
	send   chan []byte
	mutex  sync.Mutex
	closed bool
	logger *zap.Logger
}

// NewConnection creates a new connection wrapper with a fresh id
func NewConnection(ws *websocket.Conn, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Connection{
		ID:     id,
		ws:     ws,
		send:   make(chan []byte, sendBufferSize), // Buffered channel for outgoing messages
		logger: logger.With(zap.String("conn", id)),
	}
}

// ReadPump reads messages from the WebSocket connection until it fails
func (c *Connection) ReadPump(h MessageHandler) {
	defer func() {
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("Error reading message", zap.Error(err))
			}
			break
		}

		// Handle the incoming message
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages to the WebSocket connection until Close
func (c *Connection) WritePump() {
	defer func() {
		c.ws.Close()
	}()

	for message := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))

		w, err := c.ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}

	// Channel closed
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		// If the send channel is full, close the connection
		c.ws.Close()
		return ErrSendBufferFull
	}
}

// Close stops the write pump. It is safe to call more than once.
func (c *Connection) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// MessageHandler interface for handling messages
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
