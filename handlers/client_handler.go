package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dungeon-viewer/previewer/messages"
	"dungeon-viewer/previewer/models"
	"dungeon-viewer/previewer/network"
	"dungeon-viewer/previewer/persistence"
	"dungeon-viewer/previewer/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	ctx           context.Context
	conn          *network.Connection
	previews      *services.PreviewService
	maps          *services.MapService
	clientManager *ClientManager
	logger        *zap.Logger
}

// HandleClientConnection serves one client until its connection closes
func HandleClientConnection(ctx context.Context, wsConn *websocket.Conn, previews *services.PreviewService, maps *services.MapService, clientManager *ClientManager, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn := network.NewConnection(wsConn, logger)
	handler := &ClientHandler{
		ctx:           ctx,
		conn:          conn,
		previews:      previews,
		maps:          maps,
		clientManager: clientManager,
		logger:        logger.With(zap.String("client", conn.ID)),
	}
	handler.logger.Info("Client connected", zap.String("remote", wsConn.RemoteAddr().String()))

	clientManager.AddClient(conn.ID, handler)

	// Start the write pump in a goroutine
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.WritePump()
	}()

	// Handle the read pump in the current goroutine
	conn.ReadPump(handler)

	// Clean up when the connection is closed
	clientManager.RemoveClient(conn.ID)
	conn.Close()
	<-done
	handler.logger.Info("Client disconnected")
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var msg messages.IncomingMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.logger.Debug("Error unmarshaling message", zap.Error(err))
		h.sendError(messages.ErrCodeBadMessage, "Message is not valid JSON")
		return
	}

	h.logger.Debug("Message received", zap.String("type", string(msg.Type)))

	switch msg.Type {
	case messages.MessageTypePreview:
		h.handlePreview(msg.Payload)
	case messages.MessageTypeListMaps:
		h.handleListMaps()
	case messages.MessageTypeSaveMap:
		h.handleSaveMap(msg.Payload)
	default:
		h.logger.Debug("Unknown message type", zap.String("type", string(msg.Type)))
		h.sendError(messages.ErrCodeUnknownType, "Unknown message type received")
	}
}

// handlePreview renders a preview for the requested map
func (h *ClientHandler) handlePreview(payload json.RawMessage) {
	var req messages.PreviewMessage
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			h.sendError(messages.ErrCodeBadMessage, "Invalid preview payload")
			return
		}
	}

	res, err := h.previews.Preview(h.ctx, req.Map)
	if err != nil {
		h.logger.Debug("Preview failed", zap.String("map", req.Map), zap.Error(err))
		h.sendFailure(messages.ErrCodePreviewFailed, err)
		return
	}

	h.send(messages.BaseMessage{
		Type: messages.MessageTypePreviewResult,
		Payload: messages.PreviewResultMessage{
			Map:   res.Map,
			Stats: res.Stats,
			Lines: res.Lines,
		},
	})
}

// handleListMaps sends the stored map names
func (h *ClientHandler) handleListMaps() {
	names, err := h.maps.List(h.ctx)
	if err != nil {
		h.logger.Warn("Listing maps failed", zap.Error(err))
		h.sendFailure(messages.ErrCodeStorageFailure, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	h.send(messages.BaseMessage{
		Type:    messages.MessageTypeMapList,
		Payload: messages.MapListMessage{Maps: names},
	})
}

// handleSaveMap stores an uploaded map and tells every client about it
func (h *ClientHandler) handleSaveMap(payload json.RawMessage) {
	var req messages.SaveMapMessage
	if err := json.Unmarshal(payload, &req); err != nil {
		h.sendError(messages.ErrCodeBadMessage, "Invalid save_map payload")
		return
	}

	m, err := h.maps.Import(h.ctx, req.Name, req.Rows)
	if err != nil {
		h.sendFailure(messages.ErrCodeStorageFailure, err)
		return
	}

	h.clientManager.BroadcastToAll(messages.BaseMessage{
		Type: messages.MessageTypeMapSaved,
		Payload: messages.MapSavedMessage{
			Name:   m.Name,
			Width:  m.Width,
			Height: m.Height,
			By:     h.conn.ID,
		},
	})
}

// sendFailure maps an error to the matching error code
func (h *ClientHandler) sendFailure(fallback string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, persistence.ErrMapNotFound):
		h.sendError(messages.ErrCodeMapNotFound, err.Error())
	case errors.As(err, &verr):
		h.sendError(messages.ErrCodeInvalidMap, verr.Error())
	default:
		h.sendError(fallback, err.Error())
	}
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.NewError(code, message))
}

func (h *ClientHandler) send(msg messages.BaseMessage) {
	if err := h.conn.SendMessage(msg); err != nil {
		h.logger.Warn("Error sending message", zap.String("type", string(msg.Type)), zap.Error(err))
	}
}
