package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/repository"
)

// bcryptCost is the fixed iteration-cost parameter for password hashing.
// Each hash still carries its own random salt.
const bcryptCost = 10

type UseCase struct {
	users  repository.UserRepository
	tokens *TokenIssuer
	logger *zap.Logger
}

func New(users repository.UserRepository, tokens *TokenIssuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new user with a hashed password. The plaintext is
// neither persisted nor logged.
func (uc *UseCase) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	// The unique index backstops the lookup above against concurrent
	// registrations with the same email.
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password produce the identical error so registered emails
// cannot be enumerated.
func (uc *UseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
