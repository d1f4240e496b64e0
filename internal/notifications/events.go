package notifications

import (
	"encoding/json"
	"log/slog"
	"time"

	"abusebin/internal/middleware"
)

// Server-emitted event types. Clients receive these alongside the raw frames
// other peers relay.
const (
	// EventConnected is sent to a client right after its connection is
	// accepted.
	EventConnected = "connected"

	EventPasteCreated    = "paste.created"
	EventPasteUpdated    = "paste.updated"
	EventPasteDeleted    = "paste.deleted"
	EventCommentCreated  = "comment.created"
	EventCommentDeleted  = "comment.deleted"
	EventReactionUpdated = "reaction.updated"
	EventFollowCreated   = "follow.created"
	EventHallPostCreated = "hall.created"
	EventUserBanned      = "user.banned"
)

// Event is the envelope for server-emitted relay messages.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Emit broadcasts a server event to every connected peer. Marshal failures
// are logged and dropped; the relay offers no delivery guarantee anyway.
func (h *Hub) Emit(eventType string, data any) {
	payload, ok := marshalEvent(eventType, data)
	if !ok {
		return
	}
	h.BroadcastAll(payload)
}

// EmitTo sends a server event to a single client.
func (h *Hub) EmitTo(client *Client, eventType string, data any) {
	payload, ok := marshalEvent(eventType, data)
	if !ok {
		return
	}
	client.TrySend(payload)
}

func marshalEvent(eventType string, data any) ([]byte, bool) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		middleware.Logger.Warn("failed to marshal relay event",
			slog.String("type", eventType),
			slog.String("error", err.Error()))
		return nil, false
	}
	return payload, true
}
