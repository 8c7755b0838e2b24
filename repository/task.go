package repository

import (
	"context"
	"time"

	"github.com/selfmastery/backend/domain"
)

// TaskRepository performs task access scoped transitively through the
// parent list's owner. Get/Update/Delete return domain.ErrTaskNotFound
// both when the task is absent and when its list belongs to someone else.
type TaskRepository interface {
	// ListByList returns the tasks of one list ordered ascending by due
	// date (nulls first), ties broken by comparing the priority strings
	// literally.
	ListByList(ctx context.Context, listID string) ([]domain.Task, error)
	// ListByOwner returns every task across the user's lists, each
	// annotated with its parent list's name. No ordering guarantee.
	ListByOwner(ctx context.Context, userID string) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	GetOwned(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, userID string, task *domain.Task) error
	Delete(ctx context.Context, userID, taskID string) error
	// DeleteByList removes every task referencing the list.
	DeleteByList(ctx context.Context, listID string) error
	// DueReminders returns uncompleted tasks whose reminder is at or
	// before the given instant.
	DueReminders(ctx context.Context, before time.Time) ([]domain.Task, error)
}
