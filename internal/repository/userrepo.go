// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/stonesign/plaque-cms/internal/model"
)

// UserRepository gives read access to accounts created by the login flow.
// Create exists for operator tooling only.
type UserRepository interface {
	// Create inserts a new user and returns its id.
	Create(ctx context.Context, u *model.User) (int64, error)
	// GetByID loads a user by ID; nil when absent.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
