package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `db:"id" json:"user_id"`
	Email          string    `db:"email" json:"email"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Major          string    `db:"major" json:"major"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	Address        string    `db:"address" json:"address"`
	ProfilePicture string    `db:"profile_picture" json:"profile_picture"`
	RoleID         *int      `db:"role_id" json:"role_id"`
	Role           *string   `db:"role" json:"role"`
	Latitude       *float64  `db:"latitude" json:"latitude"`
	Longitude      *float64  `db:"longitude" json:"longitude"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) Summary() Provider {
	return Provider{UserID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

type SignupInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Major       string `json:"major" validate:"max=100"`
	PhoneNumber string `json:"phone_number" validate:"max=30"`
	Role        string `json:"role" validate:"omitempty,oneof=undergrad master phd employee professor"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfilePatch struct {
	FirstName      *string  `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string  `json:"last_name" validate:"omitempty,min=1,max=100"`
	Major          *string  `json:"major" validate:"omitempty,max=100"`
	PhoneNumber    *string  `json:"phone_number" validate:"omitempty,max=30"`
	Address        *string  `json:"address"`
	ProfilePicture *string  `json:"profile_picture" validate:"omitempty,url"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

func (p ProfilePatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Major != nil {
		u.Major = *p.Major
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.Latitude != nil {
		u.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		u.Longitude = p.Longitude
	}
}

// AuthSession is what the auth provider hands back on login or refresh.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	UserID       uuid.UUID `json:"user_id"`
}

type AuthRepo interface {
	SignUp(ctx context.Context, email, password string) (uuid.UUID, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthSession, error)
	RequestPasswordReset(ctx context.Context, email string) error
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	RoleIDByName(ctx context.Context, name string) (*int, error)
}
