package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const bookSelect = `
	SELECT b.id, b.donor_id, b.title, b.author, b.condition, b.genre, b.educational_level,
	       b.subject, b.pickup_location, b.pickup_latitude, b.pickup_longitude, b.status,
	       b.created_at, b.updated_at,
	       u.id AS "donor.user_id",
	       u.first_name AS "donor.first_name",
	       u.last_name AS "donor.last_name"
	FROM book_listings b
	JOIN users u ON u.id = b.donor_id`

func (pg *PostgresRepo) CreateBook(ctx context.Context, book *BookListing) error {
	_, err := pg.db.NamedExecContext(ctx, `
		INSERT INTO book_listings
			(id, donor_id, title, author, condition, genre, educational_level, subject,
			 pickup_location, pickup_latitude, pickup_longitude, status, created_at, updated_at)
		VALUES
			(:id, :donor_id, :title, :author, :condition, :genre, :educational_level, :subject,
			 :pickup_location, :pickup_latitude, :pickup_longitude, :status, :created_at, :updated_at)`, book)
	if err != nil {
		return fmt.Errorf("insert book listing: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) GetBook(ctx context.Context, id uuid.UUID) (*BookListing, error) {
	var book BookListing
	if err := pg.db.GetContext(ctx, &book, bookSelect+` WHERE b.id = $1`, id); err != nil {
		return nil, notFoundOr(err)
	}
	return &book, nil
}

func (pg *PostgresRepo) UpdateBook(ctx context.Context, book *BookListing) error {
	res, err := pg.db.NamedExecContext(ctx, `
		UPDATE book_listings SET
			title             = :title,
			author            = :author,
			condition         = :condition,
			genre             = :genre,
			educational_level = :educational_level,
			subject           = :subject,
			pickup_location   = :pickup_location,
			pickup_latitude   = :pickup_latitude,
			pickup_longitude  = :pickup_longitude,
			status            = :status,
			updated_at        = :updated_at
		WHERE id = :id`, book)
	if err != nil {
		return fmt.Errorf("update book listing: %w", err)
	}
	return expectRow(res)
}

func (pg *PostgresRepo) DeleteBook(ctx context.Context, id uuid.UUID) error {
	res, err := pg.db.ExecContext(ctx, `DELETE FROM book_listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book listing: %w", err)
	}
	return expectRow(res)
}

func (pg *PostgresRepo) ListBooks(ctx context.Context, filter BookFilter) ([]*BookListing, error) {
	status := filter.Status
	if status == "" {
		status = ResourceAvailable
	}
	query := bookSelect + ` WHERE b.status = $1`
	args := []any{status}
	idx := 2

	if g := strings.TrimSpace(filter.Genre); g != "" && !strings.EqualFold(g, "all") {
		query += fmt.Sprintf(` AND b.genre ILIKE $%d`, idx)
		args = append(args, escapeLike(g))
		idx++
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query += fmt.Sprintf(` AND (b.title ILIKE $%[1]d OR b.author ILIKE $%[1]d OR b.subject ILIKE $%[1]d)`, idx)
		args = append(args, "%"+escapeLike(q)+"%")
	}
	query += ` ORDER BY b.created_at DESC`

	var list []*BookListing
	if err := pg.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list book listings: %w", err)
	}
	return list, nil
}
