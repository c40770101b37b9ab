package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue[string](WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, "dev-1"); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	if item := <-q.Dequeue(); item != "dev-1" {
		t.Errorf("expected dev-1, got %v", item)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_BlocksWhenFull(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(1))
	if q.Capacity() != 1 {
		t.Fatalf("expected capacity 1, got %d", q.Capacity())
	}
	if err := q.Enqueue(context.Background(), 1); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, 2)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(context.Background(), 3) }()
	<-q.Dequeue()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected blocked enqueue to complete, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked enqueue never completed")
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(4))
	ctx := context.Background()
	_ = q.Enqueue(ctx, 7)

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Enqueue(ctx, 8); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var got []int
	for item := range q.Dequeue() {
		got = append(got, item)
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected queued item to drain after close, got %v", got)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(16))
	ctx := context.Background()
	const producers, perProducer = 8, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Enqueue(ctx, i); err != nil {
					t.Errorf("enqueue failed: %v", err)
					return
				}
			}
		}()
	}

	received := 0
	done := make(chan struct{})
	go func() {
		for range q.Dequeue() {
			received++
		}
		close(done)
	}()

	wg.Wait()
	_ = q.Close()
	<-done

	if received != producers*perProducer {
		t.Errorf("expected %d items, got %d", producers*perProducer, received)
	}
}
