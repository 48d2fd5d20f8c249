//go:build !integration

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var ran int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		err := p.SubmitWait(ctx, func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			done <- struct{}{}
			return nil
		})
		if err != nil {
			t.Fatalf("SubmitWait failed: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks")
		}
	}
	p.Stop()
	if atomic.LoadInt32(&ran) != 3 {
		t.Errorf("expected 3 tasks, got %d", ran)
	}
}

func TestPoolSurvivesPanicsAndErrors(t *testing.T) {
	p := NewPool(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	_ = p.SubmitWait(ctx, func(ctx context.Context) error { panic("boom") })
	_ = p.SubmitWait(ctx, func(ctx context.Context) error { return errors.New("failed") })

	done := make(chan struct{})
	_ = p.SubmitWait(ctx, func(ctx context.Context) error { close(done); return nil })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestSubmitRejects(t *testing.T) {
	t.Run("nil task", func(t *testing.T) {
		p := NewPool(1, nil)
		if err := p.Submit(nil); !errors.Is(err, ErrNilTask) {
			t.Errorf("expected ErrNilTask, got %v", err)
		}
	})

	t.Run("queue full", func(t *testing.T) {
		p := NewPool(1, nil) // not started, capacity 4
		noop := func(ctx context.Context) error { return nil }
		for i := 0; i < 4; i++ {
			if err := p.Submit(noop); err != nil {
				t.Fatalf("submit %d: %v", i, err)
			}
		}
		if err := p.Submit(noop); !errors.Is(err, ErrQueueFull) {
			t.Errorf("expected ErrQueueFull, got %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := p.SubmitWait(ctx, noop); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline error, got %v", err)
		}
	})

	t.Run("stopped", func(t *testing.T) {
		p := NewPool(1, nil)
		p.Stop()
		p.Stop()
		if err := p.Submit(func(ctx context.Context) error { return nil }); !errors.Is(err, ErrStopped) {
			t.Errorf("expected ErrStopped, got %v", err)
		}
	})
}
