package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPool_Do_RunsJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(2, nil, zerolog.Nop())
	p.Start(ctx)
	defer p.Stop()

	var ran bool
	if err := p.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if !ran {
		t.Fatalf("expected job to run")
	}
}

func TestPool_Do_BoundedParallelism(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const workers = 3
	p := NewPool(workers, nil, zerolog.Nop())
	p.Start(ctx)
	defer p.Stop()

	var running, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func() {
				n := atomic.AddInt32(&running, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&running, -1)
			})
		}()
	}
	wg.Wait()

	if peak > workers {
		t.Fatalf("expected at most %d concurrent jobs, saw %d", workers, peak)
	}
}

func TestPool_Do_CancelledWhileQueued(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(1, nil, zerolog.Nop())
	p.Start(ctx)
	defer p.Stop()

	release := make(chan struct{})
	go func() { _ = p.Do(context.Background(), func() { <-release }) }()
	time.Sleep(10 * time.Millisecond)

	callerCtx, callerCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer callerCancel()

	var ran atomic.Bool
	err := p.Do(callerCtx, func() { ran.Store(true) })
	close(release)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if ran.Load() {
		t.Fatalf("job of a cancelled caller must not run")
	}
}

func TestPool_Do_AfterStop(t *testing.T) {
	p := NewPool(1, nil, zerolog.Nop())
	p.Start(context.Background())
	p.Stop()

	if err := p.Do(context.Background(), func() {}); !errors.Is(err, ErrPoolStopped) {
		t.Fatalf("expected ErrPoolStopped, got %v", err)
	}
}

func TestPool_Do_AfterStartContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPool(2, nil, zerolog.Nop())
	p.Start(ctx)
	defer p.Stop()

	cancel()

	callerCtx, callerCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer callerCancel()

	start := time.Now()
	err := p.Do(callerCtx, func() {})
	if err != nil && !errors.Is(err, ErrPoolStopped) {
		t.Fatalf("expected nil or ErrPoolStopped, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Do blocked for %s after the pool context was cancelled", elapsed)
	}

	deadline := time.Now().Add(time.Second)
	for {
		err := p.Do(callerCtx, func() {})
		if errors.Is(err, ErrPoolStopped) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected ErrPoolStopped after cancellation, got %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPool_Stop_ReleasesQueuedCallers(t *testing.T) {
	p := NewPool(1, nil, zerolog.Nop())
	p.Start(context.Background())

	release := make(chan struct{})
	go func() { _ = p.Do(context.Background(), func() { <-release }) }()
	time.Sleep(10 * time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- p.Do(context.Background(), func() {}) }()
	time.Sleep(10 * time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	p.Stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, ErrPoolStopped) {
			t.Fatalf("expected nil or ErrPoolStopped, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("queued caller still blocked after Stop")
	}
}
