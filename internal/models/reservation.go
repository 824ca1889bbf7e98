package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// reservationTransitions lists the statuses reachable from each status.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled},
}

func ParseReservationStatus(raw string) (ReservationStatus, error) {
	switch s := ReservationStatus(raw); s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return s, nil
	}
	return "", NewValidationError("invalid reservation status %q", raw)
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

type Reservation struct {
	ID uuid.UUID `db:"id" json:"id"`
	ResourceRef
	RequesterID     uuid.UUID         `db:"requester_id" json:"requester_id"`
	Status          ReservationStatus `db:"status" json:"status"`
	PickupTime      *time.Time        `db:"pickup_time" json:"pickup_time"`
	ReservationTime time.Time         `db:"reservation_time" json:"reservation_time"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

type ReservationRepo interface {
	CreateReservation(ctx context.Context, r *Reservation) error
	GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error)
	// TransitionReservation moves a reservation from one status to another and,
	// unless resourceStatus is empty, sets the resource's status in the same
	// transaction.
	TransitionReservation(ctx context.Context, id uuid.UUID, from, to ReservationStatus, resourceStatus ResourceStatus) (*Reservation, error)
	CancelActiveReservations(ctx context.Context, ref ResourceRef) (int64, error)
	ListReservationsByRequester(ctx context.Context, requesterID uuid.UUID) ([]*Reservation, error)
}
