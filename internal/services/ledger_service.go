package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/models"
)

type LedgerService struct {
	reservations models.ReservationRepo
	ratings      models.RatingRepo
	resolver     *ResourceResolver
	now          func() time.Time
}

func NewLedgerService(reservations models.ReservationRepo, ratings models.RatingRepo, resolver *ResourceResolver) *LedgerService {
	return &LedgerService{
		reservations: reservations,
		ratings:      ratings,
		resolver:     resolver,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (ls *LedgerService) Reserve(ctx context.Context, ref models.ResourceRef, requesterID uuid.UUID, pickupTime *time.Time) (*models.Reservation, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	info, err := ls.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if info.OwnerID == requesterID {
		return nil, models.NewValidationError("you cannot reserve your own %s listing", ref.Type)
	}
	if info.Status != models.ResourceAvailable {
		return nil, models.NewConflictError(fmt.Sprintf("this %s listing is not available", ref.Type))
	}

	now := ls.now()
	r := &models.Reservation{
		ID:              uuid.New(),
		ResourceRef:     ref,
		RequesterID:     requesterID,
		Status:          models.ReservationPending,
		PickupTime:      pickupTime,
		ReservationTime: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := ls.reservations.CreateReservation(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// resourceStatusAfter is the resource status implied by a reservation moving
// from one status to another. ok is false when the resource is unaffected.
func resourceStatusAfter(from, to models.ReservationStatus) (models.ResourceStatus, bool) {
	switch {
	case to == models.ReservationConfirmed:
		return models.ResourceReserved, true
	case to == models.ReservationCompleted:
		return models.ResourceCompleted, true
	case to == models.ReservationCancelled && from == models.ReservationConfirmed:
		return models.ResourceAvailable, true
	}
	return "", false
}

func (ls *LedgerService) UpdateReservationStatus(ctx context.Context, id, actingUser uuid.UUID, next models.ReservationStatus) (*models.Reservation, error) {
	current, err := ls.reservations.GetReservation(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("reservation")
	}
	if err != nil {
		return nil, err
	}

	// A requester can still cancel after the listing was deleted.
	info, err := ls.resolver.Resolve(ctx, current.ResourceRef)
	gone := resourceGone(err)
	if err != nil && !gone {
		return nil, err
	}

	isOwner := !gone && info.OwnerID == actingUser
	isRequester := current.RequesterID == actingUser
	switch {
	case !isOwner && !isRequester:
		if gone {
			return nil, err
		}
		return nil, models.NewForbiddenError("you are not part of this reservation")
	case !isOwner && next != models.ReservationCancelled:
		return nil, models.NewForbiddenError(fmt.Sprintf("only the owner can mark a reservation %s", next))
	}

	if current.Status.IsTerminal() {
		return nil, models.NewConflictError(fmt.Sprintf("reservation is already %s", current.Status))
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, models.NewConflictError(fmt.Sprintf("cannot move reservation from %s to %s", current.Status, next))
	}

	var resourceStatus models.ResourceStatus
	if status, ok := resourceStatusAfter(current.Status, next); ok && !gone {
		resourceStatus = status
	}
	updated, err := ls.reservations.TransitionReservation(ctx, id, current.Status, next, resourceStatus)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NewNotFoundError(string(current.Type) + " resource")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ls *LedgerService) ListReservations(ctx context.Context, userID uuid.UUID) ([]*models.Reservation, error) {
	return ls.reservations.ListReservationsByRequester(ctx, userID)
}

type RatingInput struct {
	GiverID    uuid.UUID
	ReceiverID uuid.UUID
	Ref        models.ResourceRef
	Score      int
	Comment    string
}

func (ls *LedgerService) Rate(ctx context.Context, in RatingInput) (*models.Rating, error) {
	if in.Score < 1 || in.Score > 5 {
		return nil, models.NewValidationError("score must be between 1 and 5")
	}
	if in.ReceiverID == uuid.Nil {
		return nil, models.NewValidationError("receiver_id is required")
	}
	if in.GiverID == in.ReceiverID {
		return nil, models.NewValidationError("you cannot rate yourself")
	}
	if err := in.Ref.Validate(); err != nil {
		return nil, err
	}
	if _, err := ls.resolver.Resolve(ctx, in.Ref); err != nil {
		return nil, err
	}

	r := &models.Rating{
		ID:          uuid.New(),
		GiverID:     in.GiverID,
		ReceiverID:  in.ReceiverID,
		ResourceRef: in.Ref,
		Score:       in.Score,
		Comment:     strings.TrimSpace(in.Comment),
		CreatedAt:   ls.now(),
	}
	if err := ls.ratings.CreateRating(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (ls *LedgerService) RatingExists(ctx context.Context, giverID, receiverID uuid.UUID, ref models.ResourceRef) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}
	return ls.ratings.RatingExists(ctx, giverID, receiverID, ref)
}

func (ls *LedgerService) AverageRating(ctx context.Context, userID uuid.UUID) (models.RatingSummary, error) {
	scores, err := ls.ratings.ListScoresForReceiver(ctx, userID)
	if err != nil {
		return models.RatingSummary{}, err
	}
	return summarize(scores), nil
}

// summarize averages scores to one decimal, rounding halves to even.
func summarize(scores []int) models.RatingSummary {
	if len(scores) == 0 {
		return models.RatingSummary{}
	}
	total := 0
	for _, s := range scores {
		total += s
	}
	avg := float64(total) / float64(len(scores))
	return models.RatingSummary{
		AverageRating: math.RoundToEven(avg*10) / 10,
		RatingCount:   len(scores),
	}
}
