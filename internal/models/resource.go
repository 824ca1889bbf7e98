package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ResourceType string

const (
	ResourceFood ResourceType = "food"
	ResourceBook ResourceType = "book"
)

func ParseResourceType(raw string) (ResourceType, error) {
	switch ResourceType(strings.ToLower(strings.TrimSpace(raw))) {
	case ResourceFood:
		return ResourceFood, nil
	case ResourceBook:
		return ResourceBook, nil
	}
	return "", NewValidationError("resource_type must be one of food, book")
}

// ResourceRef points at any shareable resource without a foreign key.
type ResourceRef struct {
	Type ResourceType `db:"resource_type" json:"resource_type" bson:"resource_type"`
	ID   uuid.UUID    `db:"resource_id" json:"resource_id" bson:"resource_id"`
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s:%s", r.Type, r.ID)
}

func (r ResourceRef) Validate() error {
	if _, err := ParseResourceType(string(r.Type)); err != nil {
		return err
	}
	if r.ID == uuid.Nil {
		return NewValidationError("resource_id is required")
	}
	return nil
}

type ResourceStatus string

const (
	ResourceAvailable ResourceStatus = "available"
	ResourceReserved  ResourceStatus = "reserved"
	ResourceCompleted ResourceStatus = "completed"
	ResourceRemoved   ResourceStatus = "removed"
)

func ParseResourceStatus(raw string) (ResourceStatus, error) {
	switch s := ResourceStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case ResourceAvailable, ResourceReserved, ResourceCompleted, ResourceRemoved:
		return s, nil
	}
	return "", NewValidationError("invalid status %q", raw)
}

// ValidateCoordinates enforces that a location is either fully present and in
// range or fully absent.
func ValidateCoordinates(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		return NewValidationError("Both latitude and longitude must be provided together")
	}
	if *lat < -90 || *lat > 90 {
		return NewValidationError("latitude must be between -90 and 90")
	}
	if *lon < -180 || *lon > 180 {
		return NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}
