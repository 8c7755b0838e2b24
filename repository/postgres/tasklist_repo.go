package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/repository"
)

type taskListRepository struct {
	pool *pgxpool.Pool
}

// NewTaskListRepository returns a Postgres-backed TaskListRepository.
func NewTaskListRepository(pool *pgxpool.Pool) repository.TaskListRepository {
	return &taskListRepository{pool: pool}
}

func (r *taskListRepository) ListByUser(ctx context.Context, userID string) ([]domain.TaskList, error) {
	const query = `
	SELECT id, user_id, name, color, sort_order, created_at, updated_at
	FROM tasklists
	WHERE user_id = $1
	ORDER BY sort_order ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []domain.TaskList
	for rows.Next() {
		list, err := scanTaskList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, rows.Err()
}

func (r *taskListRepository) MaxOrder(ctx context.Context, userID string) (int, error) {
	const query = `
	SELECT COALESCE(MAX(sort_order), 0)
	FROM tasklists
	WHERE user_id = $1
	`
	var max int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func (r *taskListRepository) Create(ctx context.Context, list *domain.TaskList) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasklists (id, user_id, name, color, sort_order)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		list.ID,
		list.UserID,
		list.Name,
		list.Color,
		list.Order,
	).Scan(&list.CreatedAt, &list.UpdatedAt)
}

func (r *taskListRepository) GetOwned(ctx context.Context, userID, listID string) (*domain.TaskList, error) {
	const query = `
	SELECT id, user_id, name, color, sort_order, created_at, updated_at
	FROM tasklists
	WHERE id = $1 AND user_id = $2
	`
	return scanTaskList(r.pool.QueryRow(ctx, query, listID, userID))
}

func (r *taskListRepository) Update(ctx context.Context, userID string, list *domain.TaskList) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasklists
	SET name = $3,
		color = $4,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING sort_order, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		list.ID,
		userID,
		list.Name,
		list.Color,
	).Scan(&list.Order, &list.CreatedAt, &list.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrListNotFound
		}
		return err
	}
	list.UserID = userID
	return nil
}

func (r *taskListRepository) Delete(ctx context.Context, userID, listID string) error {
	const query = `DELETE FROM tasklists WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, listID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func scanTaskList(row pgx.Row) (*domain.TaskList, error) {
	var list domain.TaskList
	if err := row.Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.Color,
		&list.Order,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}
