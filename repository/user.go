package repository

import (
	"context"

	"github.com/selfmastery/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists a new user; a duplicate email surfaces as
	// domain.ErrEmailTaken (unique index on email).
	Create(ctx context.Context, user *domain.User) error
	// Update persists name and email changes.
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
