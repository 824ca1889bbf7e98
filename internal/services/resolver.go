package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/models"
)

// ResourceInfo is what the ledger needs to know about any resource kind.
type ResourceInfo struct {
	Ref     models.ResourceRef
	OwnerID uuid.UUID
	Title   string
	Status  models.ResourceStatus
}

type resourceKind struct {
	lookup func(ctx context.Context, id uuid.UUID) (*ResourceInfo, error)
}

// ResourceResolver dispatches a ResourceRef to the repository owning its kind.
type ResourceResolver struct {
	kinds map[models.ResourceType]resourceKind
}

func NewResourceResolver(foods models.FoodRepo, books models.BookRepo) *ResourceResolver {
	return &ResourceResolver{kinds: map[models.ResourceType]resourceKind{
		models.ResourceFood: {
			lookup: func(ctx context.Context, id uuid.UUID) (*ResourceInfo, error) {
				f, err := foods.GetFood(ctx, id)
				if err != nil {
					return nil, err
				}
				return &ResourceInfo{
					Ref:     models.ResourceRef{Type: models.ResourceFood, ID: f.ID},
					OwnerID: f.ProviderID,
					Title:   f.Title,
					Status:  f.Status,
				}, nil
			},
		},
		models.ResourceBook: {
			lookup: func(ctx context.Context, id uuid.UUID) (*ResourceInfo, error) {
				b, err := books.GetBook(ctx, id)
				if err != nil {
					return nil, err
				}
				return &ResourceInfo{
					Ref:     models.ResourceRef{Type: models.ResourceBook, ID: b.ID},
					OwnerID: b.DonorID,
					Title:   b.Title,
					Status:  b.Status,
				}, nil
			},
		},
	}}
}

func (r *ResourceResolver) kind(t models.ResourceType) (resourceKind, error) {
	k, ok := r.kinds[t]
	if !ok {
		return resourceKind{}, models.NewNotFoundError("resource type " + string(t))
	}
	return k, nil
}

func (r *ResourceResolver) Resolve(ctx context.Context, ref models.ResourceRef) (*ResourceInfo, error) {
	k, err := r.kind(ref.Type)
	if err != nil {
		return nil, err
	}
	info, err := k.lookup(ctx, ref.ID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NewNotFoundError(string(ref.Type) + " resource")
	}
	return info, err
}

// resourceGone reports whether err is the NotFound Resolve returns for a
// deleted resource.
func resourceGone(err error) bool {
	appErr, ok := models.AsAppError(err)
	return ok && appErr.Code == models.CodeNotFound
}
