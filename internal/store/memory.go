package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/taskboard/internal/domain"
)

// memoryStore is a mutex-guarded in-memory DataStore. It backs local
// development when POSTGRES_DSN is not provided, and the test suites.
type memoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	tasks map[string]domain.Task
}

// NewMemoryStore returns an empty in-memory DataStore.
func NewMemoryStore() DataStore {
	return &memoryStore{
		users: make(map[string]domain.User),
		tasks: make(map[string]domain.Task),
	}
}

func (s *memoryStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := user
	return &u, nil
}

func (s *memoryStore) CreateUser(_ context.Context, input CreateUserInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == input.Email {
			return nil, ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *memoryStore) TaskExistsWithOwner(_ context.Context, taskID, ownerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[taskID]
	return ok && task.AuthorID == ownerID, nil
}

func (s *memoryStore) ListTasks(_ context.Context, filter TaskFilter) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter.TextContains))
	var result []domain.Task
	for _, task := range s.tasks {
		if task.AuthorID != filter.AuthorID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(task.Text), needle) {
			continue
		}
		result = append(result, task)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memoryStore) GetTask(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := task
	return &t, nil
}

func (s *memoryStore) CreateTask(_ context.Context, text, authorID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task := domain.Task{
		ID:        uuid.NewString(),
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *memoryStore) UpdateTask(_ context.Context, id string, input UpdateTaskInput) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	if input.Text != nil {
		task.Text = *input.Text
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	task.UpdatedAt = time.Now().UTC()
	s.tasks[id] = task
	return &task, nil
}

func (s *memoryStore) DeleteTask(_ context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.tasks, id)
	return &task, nil
}
