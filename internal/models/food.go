package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Provider is the public face of a listing owner.
type Provider struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
}

type FoodListing struct {
	ID              uuid.UUID      `db:"id" json:"food_id"`
	ProviderID      uuid.UUID      `db:"provider_id" json:"provider_id"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	FoodType        string         `db:"food_type" json:"food_type"`
	Allergens       string         `db:"allergens" json:"allergens"`
	Quantity        int            `db:"quantity" json:"quantity"`
	Unit            string         `db:"unit" json:"unit"`
	PickupLocation  string         `db:"pickup_location" json:"pickup_location"`
	PickupLatitude  *float64       `db:"pickup_latitude" json:"pickup_latitude"`
	PickupLongitude *float64       `db:"pickup_longitude" json:"pickup_longitude"`
	AvailableFrom   *time.Time     `db:"available_from" json:"available_from"`
	AvailableUntil  *time.Time     `db:"available_until" json:"available_until"`
	ExpirationDate  *time.Time     `db:"expiration_date" json:"expiration_date"`
	Status          ResourceStatus `db:"status" json:"status"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`

	Provider      Provider `db:"provider" json:"provider"`
	DistanceMiles *float64 `db:"-" json:"distance_miles,omitempty"`
	Distance      string   `db:"-" json:"distance,omitempty"`
}

func (f *FoodListing) Location() (float64, float64, bool) {
	if f.PickupLatitude == nil || f.PickupLongitude == nil {
		return 0, 0, false
	}
	return *f.PickupLatitude, *f.PickupLongitude, true
}

func (f *FoodListing) SetDistance(miles float64, label string) {
	f.DistanceMiles = &miles
	f.Distance = label
}

type FoodListingInput struct {
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description" validate:"max=2000"`
	FoodType        string     `json:"food_type" validate:"max=50"`
	Allergens       string     `json:"allergens"`
	Quantity        int        `json:"quantity" validate:"gte=0"`
	Unit            string     `json:"unit" validate:"max=50"`
	PickupLocation  string     `json:"pickup_location"`
	PickupLatitude  *float64   `json:"pickup_latitude"`
	PickupLongitude *float64   `json:"pickup_longitude"`
	AvailableFrom   *time.Time `json:"available_from"`
	AvailableUntil  *time.Time `json:"available_until"`
	ExpirationDate  *time.Time `json:"expiration_date"`
}

// FoodListingPatch carries only the fields a client sent. A nil field is left untouched.
type FoodListingPatch struct {
	Title           *string         `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string         `json:"description" validate:"omitempty,max=2000"`
	FoodType        *string         `json:"food_type" validate:"omitempty,max=50"`
	Allergens       *string         `json:"allergens"`
	Quantity        *int            `json:"quantity" validate:"omitempty,gte=0"`
	Unit            *string         `json:"unit" validate:"omitempty,max=50"`
	PickupLocation  *string         `json:"pickup_location"`
	PickupLatitude  *float64        `json:"pickup_latitude"`
	PickupLongitude *float64        `json:"pickup_longitude"`
	AvailableFrom   *time.Time      `json:"available_from"`
	AvailableUntil  *time.Time      `json:"available_until"`
	ExpirationDate  *time.Time      `json:"expiration_date"`
	Status          *ResourceStatus `json:"status"`
}

// Apply copies every present field onto f.
func (p FoodListingPatch) Apply(f *FoodListing) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.FoodType != nil {
		f.FoodType = *p.FoodType
	}
	if p.Allergens != nil {
		f.Allergens = *p.Allergens
	}
	if p.Quantity != nil {
		f.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		f.Unit = *p.Unit
	}
	if p.PickupLocation != nil {
		f.PickupLocation = *p.PickupLocation
	}
	if p.PickupLatitude != nil {
		f.PickupLatitude = p.PickupLatitude
	}
	if p.PickupLongitude != nil {
		f.PickupLongitude = p.PickupLongitude
	}
	if p.AvailableFrom != nil {
		f.AvailableFrom = p.AvailableFrom
	}
	if p.AvailableUntil != nil {
		f.AvailableUntil = p.AvailableUntil
	}
	if p.ExpirationDate != nil {
		f.ExpirationDate = p.ExpirationDate
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
}

type FoodFilter struct {
	FoodType     string
	Query        string
	Status       ResourceStatus
	ExpiresAfter *time.Time
}

type FoodRepo interface {
	CreateFood(ctx context.Context, food *FoodListing) error
	GetFood(ctx context.Context, id uuid.UUID) (*FoodListing, error)
	UpdateFood(ctx context.Context, food *FoodListing) error
	DeleteFood(ctx context.Context, id uuid.UUID) error
	ListFood(ctx context.Context, filter FoodFilter) ([]*FoodListing, error)
	ListFoodByProvider(ctx context.Context, providerID uuid.UUID) ([]*FoodListing, error)
	ListFoodMessagedBy(ctx context.Context, userID uuid.UUID) ([]*FoodListing, error)
}
