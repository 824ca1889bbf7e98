package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/models"
)

// ReservationCanceller cancels the reservations still active on a resource.
type ReservationCanceller interface {
	CancelActiveReservations(ctx context.Context, ref models.ResourceRef) (int64, error)
}

// ResourceCleaner removes rows and assets that point at a resource before it
// is deleted.
type ResourceCleaner interface {
	PurgeResource(ctx context.Context, ref models.ResourceRef) error
}

type CatalogService struct {
	foods        models.FoodRepo
	books        models.BookRepo
	reservations ReservationCanceller
	cleaners     []ResourceCleaner
	now          func() time.Time
}

func NewCatalogService(foods models.FoodRepo, books models.BookRepo, reservations ReservationCanceller, cleaners ...ResourceCleaner) *CatalogService {
	return &CatalogService{
		foods:        foods,
		books:        books,
		reservations: reservations,
		cleaners:     cleaners,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// releaseResource cancels active reservations and purges dependents of ref.
func (cs *CatalogService) releaseResource(ctx context.Context, ref models.ResourceRef) error {
	if _, err := cs.reservations.CancelActiveReservations(ctx, ref); err != nil {
		return err
	}
	for _, cleaner := range cs.cleaners {
		if err := cleaner.PurgeResource(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

// FoodQuery is the parsed form of the listing search parameters.
type FoodQuery struct {
	FoodType          string
	Query             string
	Status            string
	MinExpirationDays *int
	Latitude          *float64
	Longitude         *float64
	MaxDistance       *float64
}

type BookQuery struct {
	Genre       string
	Query       string
	Status      string
	Latitude    *float64
	Longitude   *float64
	MaxDistance *float64
}

func validateWindow(from, until *time.Time) error {
	if from != nil && until != nil && from.After(*until) {
		return models.NewValidationError("available_from must not be after available_until")
	}
	return nil
}

func validateStruct(v any) error {
	if err := models.Validate.Struct(v); err != nil {
		return models.ValidationFailure(err)
	}
	return nil
}

func (cs *CatalogService) CreateFood(ctx context.Context, ownerID uuid.UUID, in models.FoodListingInput) (*models.FoodListing, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := models.ValidateCoordinates(in.PickupLatitude, in.PickupLongitude); err != nil {
		return nil, err
	}
	if err := validateWindow(in.AvailableFrom, in.AvailableUntil); err != nil {
		return nil, err
	}

	now := cs.now()
	food := &models.FoodListing{
		ID:              uuid.New(),
		ProviderID:      ownerID,
		Title:           in.Title,
		Description:     in.Description,
		FoodType:        in.FoodType,
		Allergens:       in.Allergens,
		Quantity:        in.Quantity,
		Unit:            in.Unit,
		PickupLocation:  in.PickupLocation,
		PickupLatitude:  in.PickupLatitude,
		PickupLongitude: in.PickupLongitude,
		AvailableFrom:   in.AvailableFrom,
		AvailableUntil:  in.AvailableUntil,
		ExpirationDate:  in.ExpirationDate,
		Status:          models.ResourceAvailable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := cs.foods.CreateFood(ctx, food); err != nil {
		return nil, err
	}
	return cs.GetFood(ctx, food.ID)
}

func (cs *CatalogService) GetFood(ctx context.Context, id uuid.UUID) (*models.FoodListing, error) {
	food, err := cs.foods.GetFood(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("food listing")
	}
	return food, err
}

// loadOwnedFood fetches a listing and checks actingUser owns it. Ownership is
// checked before any input validation.
func (cs *CatalogService) loadOwnedFood(ctx context.Context, id, actingUser uuid.UUID) (*models.FoodListing, error) {
	food, err := cs.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if food.ProviderID != actingUser {
		return nil, models.NewForbiddenError("you can only modify your own listings")
	}
	return food, nil
}

// AuthorizeFood reports NotFound or Forbidden unless actingUser owns the listing.
func (cs *CatalogService) AuthorizeFood(ctx context.Context, id, actingUser uuid.UUID) error {
	_, err := cs.loadOwnedFood(ctx, id, actingUser)
	return err
}

func (cs *CatalogService) UpdateFood(ctx context.Context, id uuid.UUID, patch models.FoodListingPatch, actingUser uuid.UUID) (*models.FoodListing, error) {
	food, err := cs.loadOwnedFood(ctx, id, actingUser)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if _, err := models.ParseResourceStatus(string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	patch.Apply(food)
	if err := models.ValidateCoordinates(food.PickupLatitude, food.PickupLongitude); err != nil {
		return nil, err
	}
	if err := validateWindow(food.AvailableFrom, food.AvailableUntil); err != nil {
		return nil, err
	}
	food.UpdatedAt = cs.now()

	if err := cs.foods.UpdateFood(ctx, food); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("food listing")
		}
		return nil, err
	}
	return food, nil
}

func (cs *CatalogService) DeleteFood(ctx context.Context, id, actingUser uuid.UUID) error {
	if _, err := cs.loadOwnedFood(ctx, id, actingUser); err != nil {
		return err
	}
	if err := cs.releaseResource(ctx, models.ResourceRef{Type: models.ResourceFood, ID: id}); err != nil {
		return err
	}
	if err := cs.foods.DeleteFood(ctx, id); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.NewNotFoundError("food listing")
		}
		return err
	}
	return nil
}

func (cs *CatalogService) ListFood(ctx context.Context, q FoodQuery) ([]*models.FoodListing, error) {
	filter := models.FoodFilter{
		FoodType: q.FoodType,
		Query:    q.Query,
	}
	if q.Status != "" {
		status, err := models.ParseResourceStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if q.MinExpirationDays != nil {
		after := cs.now().AddDate(0, 0, *q.MinExpirationDays)
		filter.ExpiresAfter = &after
	}

	list, err := cs.foods.ListFood(ctx, filter)
	if err != nil {
		return nil, err
	}
	list = FilterByDistance(list, q.Latitude, q.Longitude, q.MaxDistance)
	annotateDistance(list, q.Latitude, q.Longitude)
	return list, nil
}

func (cs *CatalogService) ListFoodByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.FoodListing, error) {
	return cs.foods.ListFoodByProvider(ctx, ownerID)
}

// InterestedFood lists the food a user has messaged providers about.
func (cs *CatalogService) InterestedFood(ctx context.Context, userID uuid.UUID) ([]*models.FoodListing, error) {
	return cs.foods.ListFoodMessagedBy(ctx, userID)
}

func (cs *CatalogService) CreateBook(ctx context.Context, ownerID uuid.UUID, in models.BookListingInput) (*models.BookListing, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := models.ValidateCoordinates(in.PickupLatitude, in.PickupLongitude); err != nil {
		return nil, err
	}

	now := cs.now()
	book := &models.BookListing{
		ID:               uuid.New(),
		DonorID:          ownerID,
		Title:            in.Title,
		Author:           in.Author,
		Condition:        in.Condition,
		Genre:            in.Genre,
		EducationalLevel: in.EducationalLevel,
		Subject:          in.Subject,
		PickupLocation:   in.PickupLocation,
		PickupLatitude:   in.PickupLatitude,
		PickupLongitude:  in.PickupLongitude,
		Status:           models.ResourceAvailable,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := cs.books.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return cs.GetBook(ctx, book.ID)
}

func (cs *CatalogService) GetBook(ctx context.Context, id uuid.UUID) (*models.BookListing, error) {
	book, err := cs.books.GetBook(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("book listing")
	}
	return book, err
}

func (cs *CatalogService) loadOwnedBook(ctx context.Context, id, actingUser uuid.UUID) (*models.BookListing, error) {
	book, err := cs.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.DonorID != actingUser {
		return nil, models.NewForbiddenError("you can only modify your own listings")
	}
	return book, nil
}

func (cs *CatalogService) AuthorizeBook(ctx context.Context, id, actingUser uuid.UUID) error {
	_, err := cs.loadOwnedBook(ctx, id, actingUser)
	return err
}

func (cs *CatalogService) UpdateBook(ctx context.Context, id uuid.UUID, patch models.BookListingPatch, actingUser uuid.UUID) (*models.BookListing, error) {
	book, err := cs.loadOwnedBook(ctx, id, actingUser)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if _, err := models.ParseResourceStatus(string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	patch.Apply(book)
	if err := models.ValidateCoordinates(book.PickupLatitude, book.PickupLongitude); err != nil {
		return nil, err
	}
	book.UpdatedAt = cs.now()

	if err := cs.books.UpdateBook(ctx, book); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("book listing")
		}
		return nil, err
	}
	return book, nil
}

func (cs *CatalogService) DeleteBook(ctx context.Context, id, actingUser uuid.UUID) error {
	if _, err := cs.loadOwnedBook(ctx, id, actingUser); err != nil {
		return err
	}
	if err := cs.releaseResource(ctx, models.ResourceRef{Type: models.ResourceBook, ID: id}); err != nil {
		return err
	}
	if err := cs.books.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.NewNotFoundError("book listing")
		}
		return err
	}
	return nil
}

func (cs *CatalogService) ListBooks(ctx context.Context, q BookQuery) ([]*models.BookListing, error) {
	filter := models.BookFilter{Genre: q.Genre, Query: q.Query}
	if q.Status != "" {
		status, err := models.ParseResourceStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	list, err := cs.books.ListBooks(ctx, filter)
	if err != nil {
		return nil, err
	}
	list = FilterByDistance(list, q.Latitude, q.Longitude, q.MaxDistance)
	annotateDistance(list, q.Latitude, q.Longitude)
	return list, nil
}
