package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

// ownedTask filters a task through the requesting user's list-id set, so a
// task under someone else's list is indistinguishable from a missing one.
const ownedTask = `t.list_id IN (SELECT id FROM tasklists WHERE user_id = $2)`

func (r *taskRepository) ListByList(ctx context.Context, listID string) ([]domain.Task, error) {
	// priority is compared as text on purpose: high < low < medium.
	const query = `
	SELECT t.id, t.list_id, '', t.title, t.description, t.due_date, t.priority,
	       t.completed, t.reminder, t.recurring, t.created_at, t.updated_at
	FROM tasks t
	WHERE t.list_id = $1
	ORDER BY t.due_date ASC NULLS FIRST, t.priority ASC
	`
	return r.queryTasks(ctx, query, listID)
}

func (r *taskRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Task, error) {
	const query = `
	SELECT t.id, t.list_id, l.name, t.title, t.description, t.due_date, t.priority,
	       t.completed, t.reminder, t.recurring, t.created_at, t.updated_at
	FROM tasks t
	JOIN tasklists l ON l.id = t.list_id
	WHERE l.user_id = $1
	`
	return r.queryTasks(ctx, query, userID)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, list_id, title, description, due_date, priority, completed, reminder, recurring)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		task.ID,
		task.ListID,
		task.Title,
		task.Description,
		nullTime(task.DueDate),
		task.Priority,
		task.Completed,
		nullTime(task.Reminder),
		task.Recurring,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) GetOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	const query = `
	SELECT t.id, t.list_id, '', t.title, t.description, t.due_date, t.priority,
	       t.completed, t.reminder, t.recurring, t.created_at, t.updated_at
	FROM tasks t
	WHERE t.id = $1 AND ` + ownedTask
	return scanTask(r.pool.QueryRow(ctx, query, taskID, userID))
}

func (r *taskRepository) Update(ctx context.Context, userID string, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks t
	SET title = $3,
		description = $4,
		due_date = $5,
		priority = $6,
		completed = $7,
		reminder = $8,
		recurring = $9,
		updated_at = NOW()
	WHERE t.id = $1 AND ` + ownedTask + `
	RETURNING t.list_id, t.created_at, t.updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		userID,
		task.Title,
		task.Description,
		nullTime(task.DueDate),
		task.Priority,
		task.Completed,
		nullTime(task.Reminder),
		task.Recurring,
	).Scan(&task.ListID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	const query = `DELETE FROM tasks t WHERE t.id = $1 AND ` + ownedTask
	tag, err := r.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) DeleteByList(ctx context.Context, listID string) error {
	const query = `DELETE FROM tasks WHERE list_id = $1`
	_, err := r.pool.Exec(ctx, query, listID)
	return err
}

func (r *taskRepository) DueReminders(ctx context.Context, before time.Time) ([]domain.Task, error) {
	const query = `
	SELECT t.id, t.list_id, l.name, t.title, t.description, t.due_date, t.priority,
	       t.completed, t.reminder, t.recurring, t.created_at, t.updated_at
	FROM tasks t
	JOIN tasklists l ON l.id = t.list_id
	WHERE t.reminder IS NOT NULL AND t.reminder <= $1 AND t.completed = FALSE
	`
	return r.queryTasks(ctx, query, before)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var (
		due      *time.Time
		reminder *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.ListID,
		&task.ListName,
		&task.Title,
		&task.Description,
		&due,
		&task.Priority,
		&task.Completed,
		&reminder,
		&task.Recurring,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = due
	task.Reminder = reminder
	return &task, nil
}
