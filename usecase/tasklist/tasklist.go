package tasklist

import (
	"context"

	"go.uber.org/zap"

	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/repository"
)

type UseCase struct {
	lists  repository.TaskListRepository
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(lists repository.TaskListRepository, tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		lists:  lists,
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.TaskList, error) {
	return uc.lists.ListByUser(ctx, userID)
}

// Create assigns the next display order as max+1 (1 for the first list).
// The read and the insert are two independent statements; concurrent
// creations by the same user can race to the same order value.
func (uc *UseCase) Create(ctx context.Context, userID, name, color string) (*domain.TaskList, error) {
	max, err := uc.lists.MaxOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &domain.TaskList{
		UserID: userID,
		Name:   name,
		Color:  color,
		Order:  max + 1,
	}
	if err := uc.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (uc *UseCase) Get(ctx context.Context, userID, listID string) (*domain.TaskList, error) {
	return uc.lists.GetOwned(ctx, userID, listID)
}

// Update changes name and color. The display order is not mutable here.
func (uc *UseCase) Update(ctx context.Context, userID, listID, name, color string) (*domain.TaskList, error) {
	list := &domain.TaskList{
		ID:    listID,
		Name:  name,
		Color: color,
	}
	if err := uc.lists.Update(ctx, userID, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes the list and then every task referencing it, in that
// order and without a wrapping transaction. A crash between the two steps
// leaves orphaned tasks; a failed second step is logged, not rolled back.
func (uc *UseCase) Delete(ctx context.Context, userID, listID string) error {
	if err := uc.lists.Delete(ctx, userID, listID); err != nil {
		return err
	}
	if err := uc.tasks.DeleteByList(ctx, listID); err != nil {
		uc.logger.Error("cascade task delete failed, tasks orphaned",
			zap.String("list_id", listID),
			zap.Error(err))
		return err
	}
	return nil
}
