package messages

import (
	"encoding/json"

	"dungeon-viewer/previewer/models"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypePreview       MessageType = "preview"
	MessageTypePreviewResult MessageType = "preview_result"
	MessageTypeListMaps      MessageType = "list_maps"
	MessageTypeMapList       MessageType = "map_list"
	MessageTypeSaveMap       MessageType = "save_map"
	MessageTypeMapSaved      MessageType = "map_saved"
	MessageTypeError         MessageType = "error"
)

// Error codes sent in ErrorMessage
const (
	ErrCodeBadMessage     = "BAD_MESSAGE"
	ErrCodeUnknownType    = "UNKNOWN_MESSAGE_TYPE"
	ErrCodeMapNotFound    = "MAP_NOT_FOUND"
	ErrCodeInvalidMap     = "INVALID_MAP"
	ErrCodePreviewFailed  = "PREVIEW_FAILED"
	ErrCodeStorageFailure = "STORAGE_FAILURE"
)

// BaseMessage is the envelope for all outgoing messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// IncomingMessage is the envelope for client requests; the payload is decoded
// once the type is known
type IncomingMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PreviewMessage requests a preview of a stored map, or the sample when empty
type PreviewMessage struct {
	Map string `json:"map"`
}

// PreviewResultMessage carries a rendered preview
type PreviewResultMessage struct {
	Map   string           `json:"map"`
	Stats models.GridStats `json:"stats"`
	Lines []string         `json:"lines"`
}

// MapListMessage lists the stored map names
type MapListMessage struct {
	Maps []string `json:"maps"`
}

// SaveMapMessage uploads a map in markup form
type SaveMapMessage struct {
	Name string   `json:"name"`
	Rows []string `json:"rows"`
}

// MapSavedMessage is broadcast to every client when a map is stored
type MapSavedMessage struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	By     string `json:"by"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError wraps an error response in its envelope
func NewError(code, message string) BaseMessage {
	return BaseMessage{
		Type:    MessageTypeError,
		Payload: ErrorMessage{Code: code, Message: message},
	}
}
