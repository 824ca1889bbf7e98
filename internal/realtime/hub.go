package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/metrics"
	"github.com/joshua-takyi/foodshare/internal/models"
)

const inboundBuffer = 256

// Conversations is the chat store the hub writes through.
type Conversations interface {
	Append(ctx context.Context, senderID, receiverID uuid.UUID, body string, foodID *uuid.UUID) (*models.Message, error)
	History(ctx context.Context, a, b uuid.UUID) ([]*models.Message, error)
	MarkRead(ctx context.Context, messageID, readerID uuid.UUID) (*models.Message, bool, error)
}

type inboundEvent struct {
	from Peer
	env  Envelope
}

// Hub owns the registry and processes every inbound event on one goroutine,
// so events from a single connection are handled in the order they arrived.
type Hub struct {
	registry      *Registry
	conversations Conversations
	presence      models.PresenceRepo
	presenceTTL   time.Duration
	metrics       metrics.Recorder
	logger        *slog.Logger

	inbound chan inboundEvent
	done    chan struct{}
}

type HubOptions struct {
	Presence    models.PresenceRepo
	PresenceTTL time.Duration
	Metrics     metrics.Recorder
	Logger      *slog.Logger
}

func NewHub(conversations Conversations, opts HubOptions) *Hub {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PresenceTTL <= 0 {
		opts.PresenceTTL = 90 * time.Second
	}
	return &Hub{
		registry:      NewRegistry(),
		conversations: conversations,
		presence:      opts.Presence,
		presenceTTL:   opts.PresenceTTL,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		inbound:       make(chan inboundEvent, inboundBuffer),
		done:          make(chan struct{}),
	}
}

// Run dispatches inbound events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.inbound:
			h.dispatch(ctx, ev.from, ev.env)
		}
	}
}

// Submit queues an event for the dispatcher. It returns false once the hub
// has stopped.
func (h *Hub) Submit(from Peer, env Envelope) bool {
	select {
	case h.inbound <- inboundEvent{from: from, env: env}:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Register(ctx context.Context, p Peer) {
	if old := h.registry.Add(p); old != nil {
		h.logger.Info("websocket connection replaced", "user_id", p.UserID())
		if c, ok := old.(interface{ Close() }); ok {
			c.Close()
		}
	}
	h.metrics.ConnectionOpened()
	h.touch(ctx, p.UserID())
}

func (h *Hub) Unregister(ctx context.Context, p Peer) {
	h.metrics.ConnectionClosed()
	if !h.registry.Remove(p) {
		return
	}
	if h.presence != nil {
		if err := h.presence.MarkOffline(ctx, p.UserID()); err != nil {
			h.logger.Warn("failed to clear presence", "user_id", p.UserID(), "error", err)
		}
	}
}

// Touch refreshes the user's presence TTL. Called on every pong.
func (h *Hub) Touch(ctx context.Context, userID uuid.UUID) {
	h.touch(ctx, userID)
}

func (h *Hub) touch(ctx context.Context, userID uuid.UUID) {
	if h.presence == nil {
		return
	}
	if err := h.presence.MarkOnline(ctx, userID, h.presenceTTL); err != nil {
		h.logger.Warn("failed to refresh presence", "user_id", userID, "error", err)
	}
}

// IsOnline prefers the shared presence store and falls back to the local
// registry when none is configured.
func (h *Hub) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	if h.presence != nil {
		return h.presence.IsOnline(ctx, userID)
	}
	_, ok := h.registry.Get(userID)
	return ok, nil
}

func (h *Hub) dispatch(ctx context.Context, from Peer, env Envelope) {
	var err error
	switch env.Event {
	case EventJoinConversation:
		err = h.handleJoin(ctx, from, env.Data)
	case EventSendMessage:
		err = h.handleSend(ctx, from, env.Data)
	case EventTyping:
		err = h.handleTyping(from, env.Data, EventUserTyping)
	case EventStopTyping:
		err = h.handleTyping(from, env.Data, EventUserStopTyping)
	case EventReadMessage:
		err = h.handleRead(ctx, from, env.Data)
	default:
		err = models.NewValidationError("unknown event %q", env.Event)
	}
	if err != nil {
		h.sendError(from, env.Event, err)
	}
}

// decode unmarshals data and checks the claimed sender is the connection's user.
func decode(from Peer, data json.RawMessage, dst any, claimed func() uuid.UUID) error {
	if len(data) == 0 {
		return models.NewValidationError("event data is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return models.NewValidationError("malformed event data")
	}
	if claimed() != from.UserID() {
		return models.NewForbiddenError("userId does not match the authenticated user")
	}
	return nil
}

func (h *Hub) handleJoin(ctx context.Context, from Peer, data json.RawMessage) error {
	var p joinPayload
	if err := decode(from, data, &p, func() uuid.UUID { return p.UserID }); err != nil {
		return err
	}
	messages, err := h.conversations.History(ctx, p.UserID, p.OtherUserID)
	if err != nil {
		return err
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	h.deliver(from, EventConversationHistory, map[string]any{"messages": messages})
	return nil
}

func (h *Hub) handleSend(ctx context.Context, from Peer, data json.RawMessage) error {
	var p sendPayload
	if err := decode(from, data, &p, func() uuid.UUID { return p.UserID }); err != nil {
		return err
	}
	msg, err := h.conversations.Append(ctx, p.UserID, p.ReceiverID, p.Message, p.FoodID)
	if err != nil {
		return err
	}
	h.metrics.RecordChatMessage("ws")

	h.deliver(from, EventNewMessage, msg)
	h.deliverTo(msg.ReceiverID, EventNewMessage, msg)
	return nil
}

func (h *Hub) handleTyping(from Peer, data json.RawMessage, event string) error {
	var p typingPayload
	if err := decode(from, data, &p, func() uuid.UUID { return p.UserID }); err != nil {
		return err
	}
	h.deliverTo(p.OtherUserID, event, map[string]any{"userId": p.UserID})
	return nil
}

func (h *Hub) handleRead(ctx context.Context, from Peer, data json.RawMessage) error {
	var p readPayload
	if err := decode(from, data, &p, func() uuid.UUID { return p.UserID }); err != nil {
		return err
	}
	msg, changed, err := h.conversations.MarkRead(ctx, p.MessageID, p.UserID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	payload := map[string]any{"messageId": msg.ID}
	h.deliverTo(msg.SenderID, EventMessageRead, payload)
	h.deliver(from, EventMessageRead, payload)
	return nil
}

func (h *Hub) deliverTo(userID uuid.UUID, event string, data any) {
	if p, ok := h.registry.Get(userID); ok {
		h.deliver(p, event, data)
	}
}

func (h *Hub) deliver(p Peer, event string, data any) {
	frame, err := encode(event, data)
	if err != nil {
		h.logger.Error("failed to encode websocket frame", "event", event, "error", err)
		return
	}
	if !p.Deliver(frame) {
		h.logger.Warn("dropped websocket frame", "event", event, "user_id", p.UserID())
	}
}

func (h *Hub) sendError(p Peer, event string, err error) {
	appErr, ok := models.AsAppError(err)
	if !ok || appErr.Code == models.CodeInternal {
		h.logger.Error("websocket event failed", "event", event, "user_id", p.UserID(), "error", err)
		appErr = models.NewInternalError(err)
	}
	h.deliver(p, EventError, errorPayload{Event: event, Error: appErr.Message, Code: string(appErr.Code)})
}

// PublishMessage pushes a message stored over HTTP to whichever participants
// are connected.
func (h *Hub) PublishMessage(msg *models.Message) {
	h.deliverTo(msg.SenderID, EventNewMessage, msg)
	h.deliverTo(msg.ReceiverID, EventNewMessage, msg)
}

// PublishRead tells both participants a message was read over HTTP.
func (h *Hub) PublishRead(msg *models.Message) {
	payload := map[string]any{"messageId": msg.ID}
	h.deliverTo(msg.SenderID, EventMessageRead, payload)
	h.deliverTo(msg.ReceiverID, EventMessageRead, payload)
}
