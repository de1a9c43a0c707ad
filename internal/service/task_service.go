package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/taskboard/internal/auth"
	"github.com/spec-kit/taskboard/internal/domain"
	"github.com/spec-kit/taskboard/internal/events"
	"github.com/spec-kit/taskboard/internal/store"
	apperrors "github.com/spec-kit/taskboard/pkg/util"
)

// TaskService exposes the owner-scoped task operations. Every method first
// consults the guard; the store is never touched on an authorization
// failure.
type TaskService struct {
	store      store.DataStore
	guard      *auth.Guard
	dispatcher events.Dispatcher
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	Store      store.DataStore
	Guard      *auth.Guard
	Dispatcher events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		store:      deps.Store,
		guard:      deps.Guard,
		dispatcher: deps.Dispatcher,
	}
}

// Tasks lists the caller's tasks, optionally filtered by substring match on
// the text.
func (s *TaskService) Tasks(ctx context.Context, searchString string) ([]domain.Task, error) {
	userID, err := s.guard.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasks(ctx, store.TaskFilter{
		TextContains: searchString,
		AuthorID:     userID,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}
	return tasks, nil
}

// Task fetches a single task after confirming the caller owns it.
func (s *TaskService) Task(ctx context.Context, id string) (*domain.Task, error) {
	userID, err := s.guard.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeOwnership(ctx, userID, id); err != nil {
		return nil, err
	}

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("task", nil)
		}
		return nil, apperrors.NewUpstreamError(err)
	}
	return task, nil
}

// CreateTask creates a task authored by the caller.
func (s *TaskService) CreateTask(ctx context.Context, text string) (*domain.Task, error) {
	userID, err := s.guard.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.store.CreateTask(ctx, text, userID)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err)
	}

	s.publish(ctx, events.EventTaskCreated, userID, task)
	return task, nil
}

// UpdateTask patches a task's text and/or completed flag after the
// ownership check. Nil fields leave the stored value untouched.
func (s *TaskService) UpdateTask(ctx context.Context, id string, text *string, completed *bool) (*domain.Task, error) {
	userID, err := s.guard.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeOwnership(ctx, userID, id); err != nil {
		return nil, err
	}

	task, err := s.store.UpdateTask(ctx, id, store.UpdateTaskInput{
		Text:      text,
		Completed: completed,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("task", nil)
		}
		return nil, apperrors.NewUpstreamError(err)
	}

	s.publish(ctx, events.EventTaskUpdated, userID, task)
	return task, nil
}

// DeleteTask removes a task after the ownership check and returns the
// deleted record.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	userID, err := s.guard.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeOwnership(ctx, userID, id); err != nil {
		return nil, err
	}

	task, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("task", nil)
		}
		return nil, apperrors.NewUpstreamError(err)
	}

	s.publish(ctx, events.EventTaskDeleted, userID, task)
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, actorID string, task *domain.Task) {
	if s.dispatcher == nil || task == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload: events.TaskEventPayload{
			TaskID:    task.ID,
			Text:      task.Text,
			Completed: task.Completed,
		},
	})
}
