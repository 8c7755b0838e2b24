package repository

import (
	"context"

	"github.com/selfmastery/backend/domain"
)

// TaskListRepository performs ownership-scoped access to task lists.
// Lookups that miss, whether the list is absent or owned by another user,
// return domain.ErrListNotFound.
type TaskListRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.TaskList, error)
	// MaxOrder returns the highest sort order among the user's lists,
	// or 0 when the user has none. Read separately from Create on
	// purpose: the read-then-insert sequence is not atomic.
	MaxOrder(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, list *domain.TaskList) error
	GetOwned(ctx context.Context, userID, listID string) (*domain.TaskList, error)
	// Update persists name and color. The sort order is immutable here.
	Update(ctx context.Context, userID string, list *domain.TaskList) error
	Delete(ctx context.Context, userID, listID string) error
}
