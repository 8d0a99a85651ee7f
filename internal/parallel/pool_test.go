package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nibzard/todolist/internal/script"
)

func okJob(applied int) Job {
	return func(context.Context) (*script.Report, error) {
		return &script.Report{Applied: applied}, nil
	}
}

func TestNewWorkerPool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pool with max workers", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 4, false)
		if pool == nil {
			t.Fatal("NewWorkerPool returned nil")
		}
		if pool.maxWorkers != 4 {
			t.Errorf("expected maxWorkers=4, got %d", pool.maxWorkers)
		}
		if pool.failFast {
			t.Error("expected failFast=false")
		}
	})

	t.Run("creates pool with failFast", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, true)
		if !pool.failFast {
			t.Error("expected failFast=true")
		}
	})

	t.Run("wait on empty pool", func(t *testing.T) {
		results, errs := NewWorkerPool(ctx, 0, false).Wait()
		if len(results) != 0 || len(errs) != 0 {
			t.Errorf("expected nothing, got %v %v", results, errs)
		}
	})
}

func TestWorkerPool_SubmitAndWait(t *testing.T) {
	ctx := context.Background()

	t.Run("results come back in submission order", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 0, false)
		for i := 0; i < 5; i++ {
			delay := time.Duration(5-i) * 5 * time.Millisecond
			applied := i
			pool.Submit(string(rune('a'+i)), func(context.Context) (*script.Report, error) {
				time.Sleep(delay)
				return &script.Report{Applied: applied}, nil
			})
		}

		results, errs := pool.Wait()
		if len(errs) != 0 {
			t.Fatalf("expected no errors, got %v", errs)
		}
		if len(results) != 5 {
			t.Fatalf("expected 5 results, got %d", len(results))
		}
		for i, r := range results {
			if r.Index != i || r.Report.Applied != i || r.Name != string(rune('a'+i)) {
				t.Errorf("result %d: got %+v", i, r)
			}
		}
	})

	t.Run("errors are named", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, false)
		boom := errors.New("boom")
		pool.Submit("good.json", okJob(1))
		pool.Submit("bad.json", func(context.Context) (*script.Report, error) {
			return &script.Report{}, boom
		})

		results, errs := pool.Wait()
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if len(errs) != 1 || !errors.Is(errs[0], boom) || errs[0].Error() != "bad.json: boom" {
			t.Errorf("errors: got %v", errs)
		}
		if results[1].Error != boom {
			t.Errorf("result error: got %v", results[1].Error)
		}
	})
}

func TestWorkerPool_BoundedConcurrency(t *testing.T) {
	const maxWorkers = 2
	pool := NewWorkerPool(context.Background(), maxWorkers, false)

	var running, peak atomic.Int32
	for i := 0; i < 6; i++ {
		pool.Submit("job", func(context.Context) (*script.Report, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return &script.Report{}, nil
		})
	}
	results, _ := pool.Wait()

	if len(results) != 6 {
		t.Errorf("expected 6 results, got %d", len(results))
	}
	if peak.Load() > maxWorkers {
		t.Errorf("peak concurrency %d exceeds %d", peak.Load(), maxWorkers)
	}
}

func TestWorkerPool_FailFast(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1, true)

	var ran sync.Map
	pool.Submit("first", func(context.Context) (*script.Report, error) {
		ran.Store("first", true)
		return nil, errors.New("fail")
	})
	// first holds the only worker slot until it fails
	time.Sleep(20 * time.Millisecond)
	for _, name := range []string{"second", "third"} {
		pool.Submit(name, func(context.Context) (*script.Report, error) {
			ran.Store(name, true)
			return &script.Report{}, nil
		})
	}

	results, errs := pool.Wait()
	if len(errs) != 1 {
		t.Errorf("expected 1 error, got %v", errs)
	}
	if len(results) != 3 {
		t.Fatalf("skipped jobs should still be reported, got %d results", len(results))
	}
	for _, r := range results[1:] {
		if !r.Skipped {
			t.Errorf("%s should be skipped", r.Name)
		}
		if _, ok := ran.Load(r.Name); ok {
			t.Errorf("%s should not have run", r.Name)
		}
	}
}

func TestWorkerPool_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, false)

	started := make(chan struct{})
	pool.Submit("long", func(ctx context.Context) (*script.Report, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	<-started
	pool.Submit("queued", okJob(1))
	cancel()

	results, errs := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !errors.Is(results[0].Error, context.Canceled) {
		t.Errorf("running job should see cancellation, got %v", results[0].Error)
	}
	if !results[1].Skipped {
		t.Errorf("queued job should be skipped: %+v", results[1])
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error, got %v", errs)
	}
}
