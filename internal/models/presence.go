package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const presenceKeyPrefix = "foodshare:presence:"

type PresenceRepo interface {
	MarkOnline(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	MarkOffline(ctx context.Context, userID uuid.UUID) error
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

func presenceKey(userID uuid.UUID) string {
	return presenceKeyPrefix + userID.String()
}

// MarkOnline sets or refreshes the presence key. It expires on its own if the
// connection dies without a clean disconnect.
func (rr *RedisRepo) MarkOnline(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	if err := rr.client.Set(ctx, presenceKey(userID), time.Now().UTC().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("mark online: %w", err)
	}
	return nil
}

func (rr *RedisRepo) MarkOffline(ctx context.Context, userID uuid.UUID) error {
	if err := rr.client.Del(ctx, presenceKey(userID)).Err(); err != nil {
		return fmt.Errorf("mark offline: %w", err)
	}
	return nil
}

func (rr *RedisRepo) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := rr.client.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check presence: %w", err)
	}
	return n > 0, nil
}
