package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (pg *PostgresRepo) CreateRating(ctx context.Context, r *Rating) error {
	_, err := pg.db.NamedExecContext(ctx, `
		INSERT INTO ratings
			(id, giver_id, receiver_id, resource_type, resource_id, score, comment, created_at)
		VALUES
			(:id, :giver_id, :receiver_id, :resource_type, :resource_id, :score, :comment, :created_at)`, r)
	if err != nil {
		if IsUniqueViolation(err) {
			return NewConflictError("you have already rated this user for this resource")
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) RatingExists(ctx context.Context, giverID, receiverID uuid.UUID, ref ResourceRef) (bool, error) {
	var exists bool
	err := pg.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM ratings
			WHERE giver_id = $1 AND receiver_id = $2 AND resource_type = $3 AND resource_id = $4
		)`, giverID, receiverID, ref.Type, ref.ID)
	if err != nil {
		return false, fmt.Errorf("check rating: %w", err)
	}
	return exists, nil
}

// ListScoresForReceiver returns raw scores so averaging and rounding stay in one place.
func (pg *PostgresRepo) ListScoresForReceiver(ctx context.Context, receiverID uuid.UUID) ([]int, error) {
	var scores []int
	if err := pg.db.SelectContext(ctx, &scores, `SELECT score FROM ratings WHERE receiver_id = $1`, receiverID); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return scores, nil
}
