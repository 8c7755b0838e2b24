// Package testutil provides in-memory repository fakes for tests. The
// fakes honor the repositories' contracts, including the ordering rules
// and the ownership-scoped not-found behavior.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/selfmastery/backend/domain"
)

// Store is the shared in-memory state behind the repository fakes.
type Store struct {
	mu    sync.Mutex
	users map[string]domain.User
	lists map[string]domain.TaskList
	tasks map[string]domain.Task
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		lists: make(map[string]domain.TaskList),
		tasks: make(map[string]domain.Task),
	}
}

func (s *Store) Users() *FakeUserRepo         { return &FakeUserRepo{store: s} }
func (s *Store) TaskLists() *FakeTaskListRepo { return &FakeTaskListRepo{store: s} }
func (s *Store) Tasks() *FakeTaskRepo         { return &FakeTaskRepo{store: s} }

// FakeUserRepo implements repository.UserRepository.
type FakeUserRepo struct {
	store *Store
}

func (r *FakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *FakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *FakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

func (r *FakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for id, existing := range r.store.users {
		if id != user.ID && existing.Email == user.Email {
			return domain.ErrEmailInUse
		}
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.UpdatedAt = time.Now()
	r.store.users[user.ID] = stored
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *FakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.PasswordHash = passwordHash
	stored.UpdatedAt = time.Now()
	r.store.users[id] = stored
	return nil
}

// FakeTaskListRepo implements repository.TaskListRepository.
type FakeTaskListRepo struct {
	store *Store
}

func (r *FakeTaskListRepo) ListByUser(_ context.Context, userID string) ([]domain.TaskList, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var lists []domain.TaskList
	for _, list := range r.store.lists {
		if list.UserID == userID {
			lists = append(lists, list)
		}
	}
	sort.SliceStable(lists, func(i, j int) bool { return lists[i].Order < lists[j].Order })
	return lists, nil
}

func (r *FakeTaskListRepo) MaxOrder(_ context.Context, userID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	max := 0
	for _, list := range r.store.lists {
		if list.UserID == userID && list.Order > max {
			max = list.Order
		}
	}
	return max, nil
}

func (r *FakeTaskListRepo) Create(_ context.Context, list *domain.TaskList) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	now := time.Now()
	list.CreatedAt = now
	list.UpdatedAt = now
	// No uniqueness check on (user, order): concurrent creations racing
	// to the same order value are representable, as in the real store.
	r.store.lists[list.ID] = *list
	return nil
}

func (r *FakeTaskListRepo) GetOwned(_ context.Context, userID, listID string) (*domain.TaskList, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	list, ok := r.store.lists[listID]
	if !ok || list.UserID != userID {
		return nil, domain.ErrListNotFound
	}
	return &list, nil
}

func (r *FakeTaskListRepo) Update(_ context.Context, userID string, list *domain.TaskList) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.lists[list.ID]
	if !ok || stored.UserID != userID {
		return domain.ErrListNotFound
	}
	stored.Name = list.Name
	stored.Color = list.Color
	stored.UpdatedAt = time.Now()
	r.store.lists[list.ID] = stored
	*list = stored
	return nil
}

func (r *FakeTaskListRepo) Delete(_ context.Context, userID, listID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	list, ok := r.store.lists[listID]
	if !ok || list.UserID != userID {
		return domain.ErrListNotFound
	}
	delete(r.store.lists, listID)
	return nil
}

// FakeTaskRepo implements repository.TaskRepository.
type FakeTaskRepo struct {
	store *Store
}

func (r *FakeTaskRepo) ListByList(_ context.Context, listID string) ([]domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var tasks []domain.Task
	for _, task := range r.store.tasks {
		if task.ListID == listID {
			tasks = append(tasks, task)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func (r *FakeTaskRepo) ListByOwner(_ context.Context, userID string) ([]domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var tasks []domain.Task
	for _, task := range r.store.tasks {
		list, ok := r.store.lists[task.ListID]
		if ok && list.UserID == userID {
			task.ListName = list.Name
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *FakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.store.tasks[task.ID] = *task
	return nil
}

func (r *FakeTaskRepo) GetOwned(_ context.Context, userID, taskID string) (*domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	task, ok := r.store.tasks[taskID]
	if !ok || !r.owned(userID, task.ListID) {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *FakeTaskRepo) Update(_ context.Context, userID string, task *domain.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.tasks[task.ID]
	if !ok || !r.owned(userID, stored.ListID) {
		return domain.ErrTaskNotFound
	}
	stored.Title = task.Title
	stored.Description = task.Description
	stored.DueDate = task.DueDate
	stored.Priority = task.Priority
	stored.Completed = task.Completed
	stored.Reminder = task.Reminder
	stored.Recurring = task.Recurring
	stored.UpdatedAt = time.Now()
	r.store.tasks[task.ID] = stored
	*task = stored
	return nil
}

func (r *FakeTaskRepo) Delete(_ context.Context, userID, taskID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	task, ok := r.store.tasks[taskID]
	if !ok || !r.owned(userID, task.ListID) {
		return domain.ErrTaskNotFound
	}
	delete(r.store.tasks, taskID)
	return nil
}

func (r *FakeTaskRepo) DeleteByList(_ context.Context, listID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, task := range r.store.tasks {
		if task.ListID == listID {
			delete(r.store.tasks, id)
		}
	}
	return nil
}

func (r *FakeTaskRepo) DueReminders(_ context.Context, before time.Time) ([]domain.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var due []domain.Task
	for _, task := range r.store.tasks {
		if task.Completed || task.Reminder == nil || task.Reminder.After(before) {
			continue
		}
		if list, ok := r.store.lists[task.ListID]; ok {
			task.ListName = list.Name
		}
		due = append(due, task)
	}
	return due, nil
}

// owned reports whether the task's list belongs to the user; the caller
// must hold the store lock.
func (r *FakeTaskRepo) owned(userID, listID string) bool {
	list, ok := r.store.lists[listID]
	return ok && list.UserID == userID
}

// sortTasks mirrors the store ordering: due date ascending with absent
// dates first, ties broken by comparing priority strings literally.
func sortTasks(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return true
		case a.DueDate != nil && b.DueDate == nil:
			return false
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Priority < b.Priority
	})
}
