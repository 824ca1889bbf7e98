package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Rating struct {
	ID         uuid.UUID `db:"id" json:"id"`
	GiverID    uuid.UUID `db:"giver_id" json:"giver_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	ResourceRef
	Score     int       `db:"score" json:"score" validate:"required,min=1,max=5"`
	Comment   string    `db:"comment" json:"comment" validate:"max=1000"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

type RatingRepo interface {
	CreateRating(ctx context.Context, r *Rating) error
	RatingExists(ctx context.Context, giverID, receiverID uuid.UUID, ref ResourceRef) (bool, error)
	ListScoresForReceiver(ctx context.Context, receiverID uuid.UUID) ([]int, error)
}
