package frame

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopTick(t *testing.T) {
	base := time.Unix(1000, 0)
	steps := []time.Duration{0, 16 * time.Millisecond, 40 * time.Millisecond, 5 * time.Second}
	i := 0
	clock := base
	l := &Loop{now: func() time.Time {
		clock = clock.Add(steps[i])
		i++
		return clock
	}}

	first := l.Tick()
	if first.Frame != 1 || first.Delta != 0 {
		t.Errorf("first tick: expected frame 1 with zero delta, got %d / %v", first.Frame, first.Delta)
	}
	if fc := l.Tick(); fc.DeltaMs != 16 {
		t.Errorf("second tick: expected 16ms, got %v", fc.DeltaMs)
	}
	if fc := l.Tick(); fc.DeltaMs != 40 {
		t.Errorf("third tick: expected 40ms, got %v", fc.DeltaMs)
	}
	if fc := l.Tick(); fc.Delta != maxDelta {
		t.Errorf("stalled tick: expected delta capped at %v, got %v", maxDelta, fc.Delta)
	}
}

func TestQueueRunsInOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		q.Post(func() { got = append(got, i) })
	}
	if n := q.Drain(); n != 5 {
		t.Fatalf("Drain: expected 5, got %d", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("tasks ran out of order: %v", got)
		}
	}
}

func TestQueueDeferNestedPosts(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Post(func() { q.Post(func() { ran = true }) })

	q.Drain()
	if ran {
		t.Fatal("func posted while draining should wait for the next drain")
	}
	q.Drain()
	if !ran {
		t.Fatal("nested func never ran")
	}
}

func TestQueueDoWaitsForDrain(t *testing.T) {
	q := NewQueue()
	done := make(chan error, 1)
	value := 0
	go func() {
		done <- q.Do(context.Background(), func() { value = 42 })
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if value != 42 {
				t.Fatalf("expected value 42, got %d", value)
			}
			return
		case <-deadline:
			t.Fatal("Do never returned")
		default:
			q.Drain()
			time.Sleep(time.Millisecond)
		}
	}
}

func TestQueueCloseReleasesDo(t *testing.T) {
	q := NewQueue()
	done := make(chan error, 1)
	go func() {
		done <- q.Do(context.Background(), func() {})
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do not released by Close")
	}

	if err := q.Do(context.Background(), func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Do after Close: expected ErrClosed, got %v", err)
	}
}

func TestQueueDoHonorsContext(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Do(ctx, func() {}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
