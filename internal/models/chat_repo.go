package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (pg *PostgresRepo) CreateMessage(ctx context.Context, m *Message) error {
	_, err := pg.db.NamedExecContext(ctx, `
		INSERT INTO chats (id, sender_id, receiver_id, message, timestamp, is_read, food_id)
		VALUES (:id, :sender_id, :receiver_id, :message, :timestamp, :is_read, :food_id)`, m)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) GetMessage(ctx context.Context, id uuid.UUID) (*Message, error) {
	var m Message
	if err := pg.db.GetContext(ctx, &m, `SELECT * FROM chats WHERE id = $1`, id); err != nil {
		return nil, notFoundOr(err)
	}
	return &m, nil
}

func (pg *PostgresRepo) ListConversation(ctx context.Context, a, b uuid.UUID) ([]*Message, error) {
	var list []*Message
	err := pg.db.SelectContext(ctx, &list, `
		SELECT * FROM chats
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY timestamp ASC, id ASC`, a, b)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return list, nil
}

func (pg *PostgresRepo) ListFoodThread(ctx context.Context, userID, foodID uuid.UUID) ([]*Message, error) {
	var list []*Message
	err := pg.db.SelectContext(ctx, &list, `
		SELECT * FROM chats
		WHERE food_id = $1 AND (sender_id = $2 OR receiver_id = $2)
		ORDER BY timestamp ASC, id ASC`, foodID, userID)
	if err != nil {
		return nil, fmt.Errorf("list food thread: %w", err)
	}
	return list, nil
}

// ListMessagesForUser returns every message touching userID, newest first.
func (pg *PostgresRepo) ListMessagesForUser(ctx context.Context, userID uuid.UUID) ([]*Message, error) {
	var list []*Message
	err := pg.db.SelectContext(ctx, &list, `
		SELECT * FROM chats
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY timestamp DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user messages: %w", err)
	}
	return list, nil
}

// MarkMessageRead flips is_read once. It reports whether this call changed the row.
func (pg *PostgresRepo) MarkMessageRead(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := pg.db.ExecContext(ctx, `UPDATE chats SET is_read = TRUE WHERE id = $1 AND is_read = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("mark message read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
