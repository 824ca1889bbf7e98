package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/models"
)

type FavouriteService struct {
	favouritesRepo models.FavouriteRepo
	resolver       *ResourceResolver
}

func NewFavouriteService(favouritesRepo models.FavouriteRepo, resolver *ResourceResolver) *FavouriteService {
	return &FavouriteService{
		favouritesRepo: favouritesRepo,
		resolver:       resolver,
	}
}

func (fs *FavouriteService) available() error {
	if fs.favouritesRepo == nil {
		return models.NewUnavailableError("saved resources are not configured")
	}
	return nil
}

func (fs *FavouriteService) Save(ctx context.Context, userID uuid.UUID, ref models.ResourceRef) (*models.SavedResources, error) {
	if err := fs.available(); err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if _, err := fs.resolver.Resolve(ctx, ref); err != nil {
		return nil, err
	}
	return fs.favouritesRepo.SaveResource(ctx, userID, ref)
}

func (fs *FavouriteService) Unsave(ctx context.Context, userID uuid.UUID, ref models.ResourceRef) error {
	if err := fs.available(); err != nil {
		return err
	}
	if err := ref.Validate(); err != nil {
		return err
	}
	return fs.favouritesRepo.UnsaveResource(ctx, userID, ref)
}

// List returns a user's saved resources, newest first.
func (fs *FavouriteService) List(ctx context.Context, userID uuid.UUID) ([]models.SavedItem, error) {
	if err := fs.available(); err != nil {
		return nil, err
	}
	saved, err := fs.favouritesRepo.GetSavedResources(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]models.SavedItem, 0, len(saved.Items))
	for _, item := range saved.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})
	return items, nil
}
