package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const foodSelect = `
	SELECT f.id, f.provider_id, f.title, f.description, f.food_type, f.allergens,
	       f.quantity, f.unit, f.pickup_location, f.pickup_latitude, f.pickup_longitude,
	       f.available_from, f.available_until, f.expiration_date, f.status,
	       f.created_at, f.updated_at,
	       u.id AS "provider.user_id",
	       u.first_name AS "provider.first_name",
	       u.last_name AS "provider.last_name"
	FROM food_listings f
	JOIN users u ON u.id = f.provider_id`

func (pg *PostgresRepo) CreateFood(ctx context.Context, food *FoodListing) error {
	_, err := pg.db.NamedExecContext(ctx, `
		INSERT INTO food_listings
			(id, provider_id, title, description, food_type, allergens, quantity, unit,
			 pickup_location, pickup_latitude, pickup_longitude, available_from,
			 available_until, expiration_date, status, created_at, updated_at)
		VALUES
			(:id, :provider_id, :title, :description, :food_type, :allergens, :quantity, :unit,
			 :pickup_location, :pickup_latitude, :pickup_longitude, :available_from,
			 :available_until, :expiration_date, :status, :created_at, :updated_at)`, food)
	if err != nil {
		return fmt.Errorf("insert food listing: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) GetFood(ctx context.Context, id uuid.UUID) (*FoodListing, error) {
	var food FoodListing
	if err := pg.db.GetContext(ctx, &food, foodSelect+` WHERE f.id = $1`, id); err != nil {
		return nil, notFoundOr(err)
	}
	return &food, nil
}

func (pg *PostgresRepo) UpdateFood(ctx context.Context, food *FoodListing) error {
	res, err := pg.db.NamedExecContext(ctx, `
		UPDATE food_listings SET
			title            = :title,
			description      = :description,
			food_type        = :food_type,
			allergens        = :allergens,
			quantity         = :quantity,
			unit             = :unit,
			pickup_location  = :pickup_location,
			pickup_latitude  = :pickup_latitude,
			pickup_longitude = :pickup_longitude,
			available_from   = :available_from,
			available_until  = :available_until,
			expiration_date  = :expiration_date,
			status           = :status,
			updated_at       = :updated_at
		WHERE id = :id`, food)
	if err != nil {
		return fmt.Errorf("update food listing: %w", err)
	}
	return expectRow(res)
}

func (pg *PostgresRepo) DeleteFood(ctx context.Context, id uuid.UUID) error {
	res, err := pg.db.ExecContext(ctx, `DELETE FROM food_listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete food listing: %w", err)
	}
	return expectRow(res)
}

func (pg *PostgresRepo) ListFood(ctx context.Context, filter FoodFilter) ([]*FoodListing, error) {
	query, args := buildFoodQuery(filter)
	var list []*FoodListing
	if err := pg.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list food listings: %w", err)
	}
	return list, nil
}

// buildFoodQuery turns a filter into SQL. The status clause is always present.
func buildFoodQuery(filter FoodFilter) (string, []any) {
	status := filter.Status
	if status == "" {
		status = ResourceAvailable
	}

	var b strings.Builder
	b.WriteString(foodSelect)
	b.WriteString(` WHERE f.status = $1`)
	args := []any{status}
	idx := 2

	if ft := strings.TrimSpace(filter.FoodType); ft != "" && !strings.EqualFold(ft, "all") {
		fmt.Fprintf(&b, ` AND f.food_type ILIKE $%d`, idx)
		args = append(args, escapeLike(ft))
		idx++
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		fmt.Fprintf(&b, ` AND (f.title ILIKE $%[1]d OR f.description ILIKE $%[1]d
			OR u.first_name ILIKE $%[1]d OR u.last_name ILIKE $%[1]d
			OR (u.first_name || ' ' || u.last_name) ILIKE $%[1]d)`, idx)
		args = append(args, "%"+escapeLike(q)+"%")
		idx++
	}
	if filter.ExpiresAfter != nil {
		fmt.Fprintf(&b, ` AND f.expiration_date >= $%d`, idx)
		args = append(args, *filter.ExpiresAfter)
	}
	b.WriteString(` ORDER BY f.created_at DESC`)
	return b.String(), args
}

func (pg *PostgresRepo) ListFoodByProvider(ctx context.Context, providerID uuid.UUID) ([]*FoodListing, error) {
	var list []*FoodListing
	err := pg.db.SelectContext(ctx, &list,
		foodSelect+` WHERE f.provider_id = $1 ORDER BY f.created_at DESC`, providerID)
	if err != nil {
		return nil, fmt.Errorf("list provider food listings: %w", err)
	}
	return list, nil
}

// ListFoodMessagedBy returns the listings a user has started chats about.
func (pg *PostgresRepo) ListFoodMessagedBy(ctx context.Context, userID uuid.UUID) ([]*FoodListing, error) {
	var list []*FoodListing
	err := pg.db.SelectContext(ctx, &list, foodSelect+`
		WHERE f.id IN (SELECT DISTINCT food_id FROM chats WHERE sender_id = $1 AND food_id IS NOT NULL)
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list messaged food listings: %w", err)
	}
	return list, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
