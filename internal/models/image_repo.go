package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (pg *PostgresRepo) CreateImage(ctx context.Context, img *Image) error {
	_, err := pg.db.NamedExecContext(ctx, `
		INSERT INTO images (id, resource_type, resource_id, image_url, public_id, caption, uploaded_at)
		VALUES (:id, :resource_type, :resource_id, :image_url, :public_id, :caption, :uploaded_at)`, img)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) GetImage(ctx context.Context, id uuid.UUID) (*Image, error) {
	var img Image
	if err := pg.db.GetContext(ctx, &img, `SELECT * FROM images WHERE id = $1`, id); err != nil {
		return nil, notFoundOr(err)
	}
	return &img, nil
}

func (pg *PostgresRepo) ListImages(ctx context.Context, ref ResourceRef) ([]*Image, error) {
	var list []*Image
	err := pg.db.SelectContext(ctx, &list, `
		SELECT * FROM images WHERE resource_type = $1 AND resource_id = $2
		ORDER BY uploaded_at ASC`, ref.Type, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return list, nil
}

func (pg *PostgresRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	res, err := pg.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return expectRow(res)
}
