package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreUsers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, CreateUserInput{Name: "A", Email: "a@x.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated id")
	}

	if _, err := s.CreateUser(ctx, CreateUserInput{Name: "A2", Email: "a@x.com", PasswordHash: "h"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate email: err = %v, want ErrDuplicateEmail", err)
	}

	byEmail, err := s.FindUserByEmail(ctx, "a@x.com")
	if err != nil || byEmail.ID != user.ID {
		t.Fatalf("FindUserByEmail = %v, %v", byEmail, err)
	}
	byID, err := s.FindUserByID(ctx, user.ID)
	if err != nil || byID.Email != "a@x.com" {
		t.Fatalf("FindUserByID = %v, %v", byID, err)
	}

	if _, err := s.FindUserByEmail(ctx, "missing@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing email: err = %v, want ErrNotFound", err)
	}
	if _, err := s.FindUserByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreTaskLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "buy milk", "user-1")
	if err != nil {
		t.Fatalf("CreateTask error: %v", err)
	}
	if task.Completed {
		t.Fatal("new task must not be completed")
	}

	owns, err := s.TaskExistsWithOwner(ctx, task.ID, "user-1")
	if err != nil || !owns {
		t.Fatalf("TaskExistsWithOwner(owner) = %v, %v", owns, err)
	}
	owns, err = s.TaskExistsWithOwner(ctx, task.ID, "user-2")
	if err != nil || owns {
		t.Fatalf("TaskExistsWithOwner(stranger) = %v, %v", owns, err)
	}

	completed := true
	updated, err := s.UpdateTask(ctx, task.ID, UpdateTaskInput{Completed: &completed})
	if err != nil {
		t.Fatalf("UpdateTask error: %v", err)
	}
	if !updated.Completed || updated.Text != "buy milk" {
		t.Fatalf("partial update broke fields: %+v", updated)
	}

	deleted, err := s.DeleteTask(ctx, task.ID)
	if err != nil || deleted.ID != task.ID {
		t.Fatalf("DeleteTask = %v, %v", deleted, err)
	}
	if _, err := s.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted task still found: %v", err)
	}
	if _, err := s.UpdateTask(ctx, task.ID, UpdateTaskInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("updating deleted task: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListTasksScopingAndFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	mustCreate := func(text, author string) {
		t.Helper()
		if _, err := s.CreateTask(ctx, text, author); err != nil {
			t.Fatalf("CreateTask error: %v", err)
		}
	}
	mustCreate("buy milk", "user-1")
	mustCreate("buy bread", "user-1")
	mustCreate("walk dog", "user-1")
	mustCreate("buy cheese", "user-2")

	all, err := s.ListTasks(ctx, TaskFilter{AuthorID: "user-1"})
	if err != nil || len(all) != 3 {
		t.Fatalf("ListTasks(all) = %d tasks, %v", len(all), err)
	}

	filtered, err := s.ListTasks(ctx, TaskFilter{AuthorID: "user-1", TextContains: "buy"})
	if err != nil || len(filtered) != 2 {
		t.Fatalf("ListTasks(buy) = %d tasks, %v", len(filtered), err)
	}
	for _, task := range filtered {
		if task.AuthorID != "user-1" {
			t.Fatalf("list leaked another author's task: %+v", task)
		}
	}
}
