package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
)

const defaultRole = "undergrad"

type UserService struct {
	auth          models.AuthRepo
	users         models.UserRepo
	allowedDomain string
	now           func() time.Time
}

func NewUserService(auth models.AuthRepo, users models.UserRepo, allowedDomain string) *UserService {
	return &UserService{
		auth:          auth,
		users:         users,
		allowedDomain: allowedDomain,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SignUp registers the account with the auth provider, which sends the
// verification email, then stores the profile.
func (us *UserService) SignUp(ctx context.Context, in models.SignupInput) (*models.User, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, models.ValidationFailure(err)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !helpers.IsAllowedEmail(email, us.allowedDomain) {
		return nil, models.NewValidationError("only @%s email addresses can sign up", us.allowedDomain)
	}
	if !helpers.IsPasswordStrong(in.Password) {
		return nil, models.NewValidationError("password must be at least 8 characters with upper and lower case letters, a number and a symbol")
	}

	if _, err := us.users.GetUserByEmail(ctx, email); err == nil {
		return nil, models.NewConflictError("email already in use")
	} else if !errors.Is(err, models.ErrRecordNotFound) {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = defaultRole
	}
	roleID, err := us.users.RoleIDByName(ctx, role)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.NewValidationError("unknown role %q", role)
		}
		return nil, err
	}

	id, err := us.auth.SignUp(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			return nil, models.NewConflictError("email already in use")
		}
		return nil, err
	}

	now := us.now()
	user := &models.User{
		ID:          id,
		Email:       email,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Major:       in.Major,
		PhoneNumber: in.PhoneNumber,
		RoleID:      roleID,
		Role:        &role,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := us.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			return nil, models.NewConflictError("email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (us *UserService) Login(ctx context.Context, in models.LoginInput) (*models.AuthSession, *models.User, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, nil, models.ValidationFailure(err)
	}
	session, err := us.auth.SignIn(ctx, strings.ToLower(strings.TrimSpace(in.Email)), in.Password)
	if err != nil {
		return nil, nil, models.NewUnauthenticatedError("invalid email or password")
	}
	user, err := us.users.GetUser(ctx, session.UserID)
	if err != nil && !errors.Is(err, models.ErrRecordNotFound) {
		return nil, nil, err
	}
	return session, user, nil
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	if refreshToken == "" {
		return nil, models.NewUnauthenticatedError("refresh token is required")
	}
	session, err := us.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, models.NewUnauthenticatedError("session expired, please log in again")
	}
	return session, nil
}

// RequestPasswordReset never reveals whether the address has an account.
func (us *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return models.NewValidationError("a valid email is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := us.users.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return us.auth.RequestPasswordReset(ctx, email)
}

func (us *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := us.users.GetUser(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user")
	}
	return user, err
}

func (us *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.User, error) {
	if err := models.Validate.Struct(patch); err != nil {
		return nil, models.ValidationFailure(err)
	}
	// coordinates travel as a pair, even when the other one is already stored
	if err := models.ValidateCoordinates(patch.Latitude, patch.Longitude); err != nil {
		return nil, err
	}

	user, err := us.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(user)
	user.UpdatedAt = us.now()
	if err := us.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
