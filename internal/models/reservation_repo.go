package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

func (pg *PostgresRepo) CreateReservation(ctx context.Context, r *Reservation) error {
	_, err := pg.db.NamedExecContext(ctx, `
		INSERT INTO reservations
			(id, resource_type, resource_id, requester_id, status, pickup_time,
			 reservation_time, created_at, updated_at)
		VALUES
			(:id, :resource_type, :resource_id, :requester_id, :status, :pickup_time,
			 :reservation_time, :created_at, :updated_at)`, r)
	if err != nil {
		if IsUniqueViolation(err) {
			return NewConflictError("this resource already has an active reservation")
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var r Reservation
	if err := pg.db.GetContext(ctx, &r, `SELECT * FROM reservations WHERE id = $1`, id); err != nil {
		return nil, notFoundOr(err)
	}
	return &r, nil
}

// resourceTables maps each resource kind to the table holding its status.
var resourceTables = map[ResourceType]string{
	ResourceFood: "food_listings",
	ResourceBook: "book_listings",
}

// TransitionReservation moves a reservation from one status to another. The
// WHERE on the current status makes concurrent transitions lose cleanly.
func (pg *PostgresRepo) TransitionReservation(ctx context.Context, id uuid.UUID, from, to ReservationStatus, resourceStatus ResourceStatus) (*Reservation, error) {
	tx, err := pg.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reservation transition: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var r Reservation
	err = tx.GetContext(ctx, &r, `
		UPDATE reservations SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING *`, to, id, from)
	if err != nil {
		if errors.Is(notFoundOr(err), ErrRecordNotFound) {
			return nil, NewConflictError("reservation status changed, please retry")
		}
		if IsUniqueViolation(err) {
			return nil, NewConflictError("this resource already has an active reservation")
		}
		return nil, fmt.Errorf("update reservation status: %w", err)
	}

	if resourceStatus != "" {
		table, ok := resourceTables[r.Type]
		if !ok {
			return nil, fmt.Errorf("unknown resource type %q", r.Type)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE `+table+` SET status = $1, updated_at = NOW() WHERE id = $2`, resourceStatus, r.ResourceRef.ID)
		if err != nil {
			return nil, fmt.Errorf("set %s status: %w", r.Type, err)
		}
		if err := expectRow(res); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reservation transition: %w", err)
	}
	return &r, nil
}

// CancelActiveReservations cancels every pending or confirmed reservation on ref.
func (pg *PostgresRepo) CancelActiveReservations(ctx context.Context, ref ResourceRef) (int64, error) {
	res, err := pg.db.ExecContext(ctx, `
		UPDATE reservations SET status = $1, updated_at = NOW()
		WHERE resource_type = $2 AND resource_id = $3 AND status IN ($4, $5)`,
		ReservationCancelled, ref.Type, ref.ID, ReservationPending, ReservationConfirmed)
	if err != nil {
		return 0, fmt.Errorf("cancel active reservations: %w", err)
	}
	return res.RowsAffected()
}

func (pg *PostgresRepo) ListReservationsByRequester(ctx context.Context, requesterID uuid.UUID) ([]*Reservation, error) {
	var list []*Reservation
	err := pg.db.SelectContext(ctx, &list,
		`SELECT * FROM reservations WHERE requester_id = $1 ORDER BY created_at DESC`, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return list, nil
}
