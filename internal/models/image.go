package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Image struct {
	ID uuid.UUID `db:"id" json:"id"`
	ResourceRef
	ImageURL   string    `db:"image_url" json:"image_url"`
	PublicID   string    `db:"public_id" json:"-"`
	Caption    string    `db:"caption" json:"caption"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

type ImageRepo interface {
	CreateImage(ctx context.Context, img *Image) error
	GetImage(ctx context.Context, id uuid.UUID) (*Image, error)
	ListImages(ctx context.Context, ref ResourceRef) ([]*Image, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
}
