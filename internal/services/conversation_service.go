package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/models"
)

const maxMessageLength = 4000

type ConversationService struct {
	chats models.ChatRepo
	users models.UserRepo
	foods models.FoodRepo
	now   func() time.Time
}

func NewConversationService(chats models.ChatRepo, users models.UserRepo, foods models.FoodRepo) *ConversationService {
	return &ConversationService{
		chats: chats,
		users: users,
		foods: foods,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (cs *ConversationService) Append(ctx context.Context, senderID, receiverID uuid.UUID, body string, foodID *uuid.UUID) (*models.Message, error) {
	body = strings.TrimSpace(body)
	switch {
	case body == "":
		return nil, models.NewValidationError("message cannot be empty")
	case len(body) > maxMessageLength:
		return nil, models.NewValidationError("message is too long")
	case receiverID == uuid.Nil:
		return nil, models.NewValidationError("receiver is required")
	case senderID == receiverID:
		return nil, models.NewValidationError("you cannot message yourself")
	}

	if _, err := cs.users.GetUser(ctx, receiverID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("receiver")
		}
		return nil, err
	}
	if foodID != nil {
		if _, err := cs.foods.GetFood(ctx, *foodID); err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("food listing")
			}
			return nil, err
		}
	}

	m := &models.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		Timestamp:  cs.now(),
		IsRead:     false,
		FoodID:     foodID,
	}
	if err := cs.chats.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// History returns every message between a and b, oldest first.
func (cs *ConversationService) History(ctx context.Context, a, b uuid.UUID) ([]*models.Message, error) {
	return cs.chats.ListConversation(ctx, a, b)
}

func (cs *ConversationService) FoodThread(ctx context.Context, userID, foodID uuid.UUID) ([]*models.Message, error) {
	return cs.chats.ListFoodThread(ctx, userID, foodID)
}

// MarkRead flips the read flag for the receiver. changed is false when the
// message was already read, so callers can skip notifications.
func (cs *ConversationService) MarkRead(ctx context.Context, messageID, readerID uuid.UUID) (msg *models.Message, changed bool, err error) {
	msg, err = cs.chats.GetMessage(ctx, messageID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, false, models.NewNotFoundError("message")
	}
	if err != nil {
		return nil, false, err
	}
	if msg.ReceiverID != readerID {
		return nil, false, models.NewForbiddenError("only the receiver can mark a message as read")
	}
	if msg.IsRead {
		return msg, false, nil
	}

	changed, err = cs.chats.MarkMessageRead(ctx, messageID)
	if err != nil {
		return nil, false, err
	}
	msg.IsRead = true
	return msg, changed, nil
}

// ConversationsForUser groups a user's messages by counterpart, most recent
// conversation first.
func (cs *ConversationService) ConversationsForUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationSummary, error) {
	messages, err := cs.chats.ListMessagesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var order []uuid.UUID
	latest := map[uuid.UUID]*models.Message{}
	unread := map[uuid.UUID]int{}
	for _, m := range messages {
		other := m.Counterpart(userID)
		if _, seen := latest[other]; !seen {
			latest[other] = m
			order = append(order, other)
		}
		if m.ReceiverID == userID && !m.IsRead {
			unread[other]++
		}
	}

	users, err := cs.users.GetUsersByIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	titles := map[uuid.UUID]*string{}
	summaries := make([]models.ConversationSummary, 0, len(order))
	for _, other := range order {
		m := latest[other]
		summary := models.ConversationSummary{
			OtherUser:     models.Provider{UserID: other},
			LatestMessage: m,
			UnreadCount:   unread[other],
		}
		if u, ok := users[other]; ok {
			summary.OtherUser = u.Summary()
		}
		if m.FoodID != nil {
			title, err := cs.foodTitle(ctx, *m.FoodID, titles)
			if err != nil {
				return nil, err
			}
			summary.FoodTitle = title
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (cs *ConversationService) foodTitle(ctx context.Context, foodID uuid.UUID, cache map[uuid.UUID]*string) (*string, error) {
	if title, ok := cache[foodID]; ok {
		return title, nil
	}
	food, err := cs.foods.GetFood(ctx, foodID)
	if errors.Is(err, models.ErrRecordNotFound) {
		cache[foodID] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[foodID] = &food.Title
	return &food.Title, nil
}
