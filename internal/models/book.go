package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type BookListing struct {
	ID               uuid.UUID      `db:"id" json:"book_id"`
	DonorID          uuid.UUID      `db:"donor_id" json:"donor_id"`
	Title            string         `db:"title" json:"title"`
	Author           string         `db:"author" json:"author"`
	Condition        string         `db:"condition" json:"condition"`
	Genre            string         `db:"genre" json:"genre"`
	EducationalLevel string         `db:"educational_level" json:"educational_level"`
	Subject          string         `db:"subject" json:"subject"`
	PickupLocation   string         `db:"pickup_location" json:"pickup_location"`
	PickupLatitude   *float64       `db:"pickup_latitude" json:"pickup_latitude"`
	PickupLongitude  *float64       `db:"pickup_longitude" json:"pickup_longitude"`
	Status           ResourceStatus `db:"status" json:"status"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`

	Donor         Provider `db:"donor" json:"donor"`
	DistanceMiles *float64 `db:"-" json:"distance_miles,omitempty"`
	Distance      string   `db:"-" json:"distance,omitempty"`
}

func (b *BookListing) Location() (float64, float64, bool) {
	if b.PickupLatitude == nil || b.PickupLongitude == nil {
		return 0, 0, false
	}
	return *b.PickupLatitude, *b.PickupLongitude, true
}

func (b *BookListing) SetDistance(miles float64, label string) {
	b.DistanceMiles = &miles
	b.Distance = label
}

type BookListingInput struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Author           string   `json:"author" validate:"max=200"`
	Condition        string   `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	Genre            string   `json:"genre" validate:"max=100"`
	EducationalLevel string   `json:"educational_level" validate:"max=100"`
	Subject          string   `json:"subject" validate:"max=100"`
	PickupLocation   string   `json:"pickup_location"`
	PickupLatitude   *float64 `json:"pickup_latitude"`
	PickupLongitude  *float64 `json:"pickup_longitude"`
}

type BookListingPatch struct {
	Title            *string         `json:"title" validate:"omitempty,min=1,max=200"`
	Author           *string         `json:"author" validate:"omitempty,max=200"`
	Condition        *string         `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	Genre            *string         `json:"genre"`
	EducationalLevel *string         `json:"educational_level"`
	Subject          *string         `json:"subject"`
	PickupLocation   *string         `json:"pickup_location"`
	PickupLatitude   *float64        `json:"pickup_latitude"`
	PickupLongitude  *float64        `json:"pickup_longitude"`
	Status           *ResourceStatus `json:"status"`
}

func (p BookListingPatch) Apply(b *BookListing) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Condition != nil {
		b.Condition = *p.Condition
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.EducationalLevel != nil {
		b.EducationalLevel = *p.EducationalLevel
	}
	if p.Subject != nil {
		b.Subject = *p.Subject
	}
	if p.PickupLocation != nil {
		b.PickupLocation = *p.PickupLocation
	}
	if p.PickupLatitude != nil {
		b.PickupLatitude = p.PickupLatitude
	}
	if p.PickupLongitude != nil {
		b.PickupLongitude = p.PickupLongitude
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

type BookFilter struct {
	Genre  string
	Query  string
	Status ResourceStatus
}

type BookRepo interface {
	CreateBook(ctx context.Context, book *BookListing) error
	GetBook(ctx context.Context, id uuid.UUID) (*BookListing, error)
	UpdateBook(ctx context.Context, book *BookListing) error
	DeleteBook(ctx context.Context, id uuid.UUID) error
	ListBooks(ctx context.Context, filter BookFilter) ([]*BookListing, error)
}
