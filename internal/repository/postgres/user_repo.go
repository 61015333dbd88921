package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stonesign/plaque-cms/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (int64, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return 0, err
	}
	role := u.Role
	if role == "" {
		role = model.RoleUser
	}
	const q = `
INSERT INTO users (open_id, name, email, login_method, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	var id int64
	if err := pool.QueryRow(ctx, q, u.OpenID, u.Name, u.Email, u.LoginMethod, string(role)).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("open id %q already registered: %w", u.OpenID, err)
		}
		return 0, err
	}
	return id, nil
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}
	const q = `
SELECT id, open_id, name, email, login_method, role, created_at, updated_at, last_signed_in
FROM users WHERE id=$1`
	var (
		u    model.User
		role string
	)
	err = pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod, &role,
		&u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}
