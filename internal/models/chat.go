package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	SenderID   uuid.UUID  `db:"sender_id" json:"senderId"`
	ReceiverID uuid.UUID  `db:"receiver_id" json:"receiverId"`
	Body       string     `db:"message" json:"message"`
	Timestamp  time.Time  `db:"timestamp" json:"timestamp"`
	IsRead     bool       `db:"is_read" json:"isRead"`
	FoodID     *uuid.UUID `db:"food_id" json:"foodId"`
}

// Counterpart returns the participant that is not userID.
func (m *Message) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ConversationSummary is one row of a user's chat list.
type ConversationSummary struct {
	OtherUser     Provider `json:"otherUser"`
	LatestMessage *Message `json:"latestMessage"`
	FoodTitle     *string  `json:"foodTitle"`
	UnreadCount   int      `json:"unreadCount"`
}

type ChatRepo interface {
	CreateMessage(ctx context.Context, m *Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*Message, error)
	ListConversation(ctx context.Context, a, b uuid.UUID) ([]*Message, error)
	ListFoodThread(ctx context.Context, userID, foodID uuid.UUID) ([]*Message, error)
	ListMessagesForUser(ctx context.Context, userID uuid.UUID) ([]*Message, error)
	MarkMessageRead(ctx context.Context, id uuid.UUID) (bool, error)
}
