package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	lists  repository.TaskListRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, lists repository.TaskListRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		lists:  lists,
		logger: logger,
	}
}

// Fields carries the caller-settable task attributes. Update applies all
// of them; Create ignores Completed.
type Fields struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Completed   bool
	Reminder    *time.Time
	Recurring   string
}

// ListForList returns the tasks of one of the user's lists, ordered by
// due date then priority. The list must belong to the user.
func (uc *UseCase) ListForList(ctx context.Context, userID, listID string) ([]domain.Task, error) {
	if _, err := uc.lists.GetOwned(ctx, userID, listID); err != nil {
		return nil, err
	}
	return uc.tasks.ListByList(ctx, listID)
}

// ListAll returns every task across the user's lists, annotated with the
// parent list's name.
func (uc *UseCase) ListAll(ctx context.Context, userID string) ([]domain.Task, error) {
	return uc.tasks.ListByOwner(ctx, userID)
}

// Create adds a task under one of the user's lists. New tasks always
// start uncompleted, whatever the caller sent.
func (uc *UseCase) Create(ctx context.Context, userID, listID string, fields Fields) (*domain.Task, error) {
	if _, err := uc.lists.GetOwned(ctx, userID, listID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ListID:      listID,
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    fields.Priority,
		Completed:   false,
		Reminder:    fields.Reminder,
		Recurring:   fields.Recurring,
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return uc.tasks.GetOwned(ctx, userID, taskID)
}

// Update replaces every caller-settable field of the task. This is the
// only operation that may flip the completed flag.
func (uc *UseCase) Update(ctx context.Context, userID, taskID string, fields Fields) (*domain.Task, error) {
	task := &domain.Task{
		ID:          taskID,
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    fields.Priority,
		Completed:   fields.Completed,
		Reminder:    fields.Reminder,
		Recurring:   fields.Recurring,
	}
	if err := uc.tasks.Update(ctx, userID, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, userID, taskID string) error {
	return uc.tasks.Delete(ctx, userID, taskID)
}
