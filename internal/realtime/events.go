package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	EventJoinConversation    = "join_conversation"
	EventConversationHistory = "conversation_history"
	EventSendMessage         = "send_message"
	EventNewMessage          = "new_message"
	EventTyping              = "typing"
	EventStopTyping          = "stop_typing"
	EventUserTyping          = "user_typing"
	EventUserStopTyping      = "user_stop_typing"
	EventReadMessage         = "read_message"
	EventMessageRead         = "message_read"
	EventError               = "error"
)

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encode(event string, data any) ([]byte, error) {
	return json.Marshal(outbound{Event: event, Data: data})
}

type joinPayload struct {
	UserID      uuid.UUID `json:"userId"`
	OtherUserID uuid.UUID `json:"otherUserId"`
}

type sendPayload struct {
	UserID     uuid.UUID  `json:"userId"`
	ReceiverID uuid.UUID  `json:"receiverId"`
	Message    string     `json:"message"`
	FoodID     *uuid.UUID `json:"foodId"`
}

type typingPayload struct {
	UserID      uuid.UUID `json:"userId"`
	OtherUserID uuid.UUID `json:"otherUserId"`
}

type readPayload struct {
	MessageID   uuid.UUID `json:"messageId"`
	UserID      uuid.UUID `json:"userId"`
	OtherUserID uuid.UUID `json:"otherUserId"`
}

type errorPayload struct {
	Event string `json:"event,omitempty"`
	Error string `json:"error"`
	Code  string `json:"code"`
}
