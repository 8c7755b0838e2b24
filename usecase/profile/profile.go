package profile

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// Update applies a partial profile change: empty name or email leaves the
// stored value untouched. Moving to an email held by a different user
// fails with ErrEmailInUse.
func (uc *UseCase) Update(ctx context.Context, userID, name, email string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		if _, err := uc.users.GetByEmail(ctx, email); err == nil {
			return nil, domain.ErrEmailInUse
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password and the minimum length of the new one.
func (uc *UseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}

	if err := uc.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	uc.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}
