package stream

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := s.Subscribe(ctx)
	b := s.Subscribe(ctx)

	s.Publish(AdminEvent{Event: "content.announcement.create", ActorID: "acc-1"})

	for name, ch := range map[string]<-chan AdminEvent{"a": a, "b": b} {
		select {
		case evt := <-ch:
			if evt.Event != "content.announcement.create" {
				t.Fatalf("subscriber %s: unexpected event %+v", name, evt)
			}
			if evt.Timestamp.IsZero() {
				t.Fatalf("subscriber %s: timestamp must be stamped", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s: timed out", name)
		}
	}
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Fatalf("expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel was not closed")
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = s.Subscribe(ctx) // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Publish(AdminEvent{Event: "auth.login"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a slow subscriber")
	}
}
