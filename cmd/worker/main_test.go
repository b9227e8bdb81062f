package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oasistravel/booking/internal/kafka"
	"github.com/stretchr/testify/assert"
)

// flakySource fails its first reads, then blocks like a healthy reader.
type flakySource struct {
	mu       sync.Mutex
	attempts int
	failures int
}

func (s *flakySource) Consume(ctx context.Context, handler kafka.EventHandler) error {
	s.mu.Lock()
	s.attempts++
	n := s.attempts
	s.mu.Unlock()

	if n <= s.failures {
		return errors.New("broker unreachable")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *flakySource) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func TestRunConsumer_ReconnectsAfterTransientFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &flakySource{failures: 2}
	done := make(chan struct{})
	go func() {
		runConsumer(ctx, src, func(context.Context, kafka.NotificationEvent) error { return nil }, time.Millisecond)
		close(done)
	}()

	// Two failed reads must be followed by a third, healthy attempt.
	assert.Eventually(t, func() bool { return src.attemptCount() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer loop did not stop on cancel")
	}
}

func TestRunConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		runConsumer(ctx, &flakySource{failures: 100}, func(context.Context, kafka.NotificationEvent) error { return nil }, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer loop did not stop on cancel")
	}
}
