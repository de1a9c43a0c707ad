package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var first, second int
	d.Subscribe(EventTaskCreated, func(context.Context, Event) error {
		first++
		return errors.New("handler failure must not stop dispatch")
	})
	d.Subscribe(EventTaskCreated, func(context.Context, Event) error {
		second++
		return nil
	})
	d.Subscribe(EventTaskDeleted, func(context.Context, Event) error {
		t.Fatal("wrong event type dispatched")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTaskCreated}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if first != 1 || second != 1 {
		t.Fatalf("handlers called %d/%d times, want 1/1", first, second)
	}
}
