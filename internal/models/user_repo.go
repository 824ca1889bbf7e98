package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/supabase-community/gotrue-go/types"
)

const userSelect = `
	SELECT u.id, u.email, u.first_name, u.last_name, u.major, u.phone_number, u.address,
	       u.profile_picture, u.role_id, r.name AS role, u.latitude, u.longitude,
	       u.is_active, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id`

// ErrEmailTaken is returned when the auth provider already knows the address.
var ErrEmailTaken = errors.New("email already in use")

func (su *SupabaseRepo) SignUp(ctx context.Context, email, password string) (uuid.UUID, error) {
	res, err := su.supabaseClient.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already registered") {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("supabase signup: %w", err)
	}
	return res.User.ID, nil
}

func (su *SupabaseRepo) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("supabase sign in: %w", err)
	}
	return sessionFromToken(resp), nil
}

func (su *SupabaseRepo) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("supabase refresh: %w", err)
	}
	return sessionFromToken(resp), nil
}

func (su *SupabaseRepo) RequestPasswordReset(ctx context.Context, email string) error {
	if err := su.supabaseClient.Auth.Recover(types.RecoverRequest{Email: email}); err != nil {
		return fmt.Errorf("supabase recover: %w", err)
	}
	return nil
}

func sessionFromToken(t *types.TokenResponse) *AuthSession {
	return &AuthSession{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		UserID:       t.User.ID,
	}
}

func (pg *PostgresRepo) CreateUser(ctx context.Context, user *User) error {
	_, err := pg.db.NamedExecContext(ctx, `
		INSERT INTO users
			(id, email, first_name, last_name, major, phone_number, address, profile_picture,
			 role_id, latitude, longitude, is_active, created_at, updated_at)
		VALUES
			(:id, :email, :first_name, :last_name, :major, :phone_number, :address, :profile_picture,
			 :role_id, :latitude, :longitude, :is_active, :created_at, :updated_at)`, user)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := pg.db.GetContext(ctx, &u, userSelect+` WHERE u.id = $1`, id); err != nil {
		return nil, notFoundOr(err)
	}
	return &u, nil
}

func (pg *PostgresRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := pg.db.GetContext(ctx, &u, userSelect+` WHERE LOWER(u.email) = LOWER($1)`, email); err != nil {
		return nil, notFoundOr(err)
	}
	return &u, nil
}

func (pg *PostgresRepo) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error) {
	out := make(map[uuid.UUID]*User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(userSelect+` WHERE u.id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build user lookup: %w", err)
	}
	var users []*User
	if err := pg.db.SelectContext(ctx, &users, pg.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lookup users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (pg *PostgresRepo) UpdateUser(ctx context.Context, user *User) error {
	res, err := pg.db.NamedExecContext(ctx, `
		UPDATE users SET
			first_name      = :first_name,
			last_name       = :last_name,
			major           = :major,
			phone_number    = :phone_number,
			address         = :address,
			profile_picture = :profile_picture,
			latitude        = :latitude,
			longitude       = :longitude,
			updated_at      = :updated_at
		WHERE id = :id`, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return expectRow(res)
}

func (pg *PostgresRepo) RoleIDByName(ctx context.Context, name string) (*int, error) {
	var id int
	if err := pg.db.GetContext(ctx, &id, `SELECT id FROM roles WHERE name = $1`, name); err != nil {
		return nil, notFoundOr(err)
	}
	return &id, nil
}
