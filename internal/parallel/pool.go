package parallel

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nibzard/todolist/internal/script"
)

// Job replays one script. It should return promptly once ctx is done.
type Job func(ctx context.Context) (*script.Report, error)

// Result is the outcome of one submitted job.
type Result struct {
	// Index is the submission order, starting at 0.
	Index    int
	Name     string
	Report   *script.Report
	Error    error
	Duration time.Duration

	// Skipped is set when the pool was cancelled before the job started.
	Skipped bool
}

// WorkerPool runs jobs with bounded concurrency.
type WorkerPool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	next       int
	results    []Result
	errors     []error
	failFast   bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a worker pool. A maxWorkers of 0 runs every job at
// once. With failFast the pool is cancelled on the first error.
func NewWorkerPool(ctx context.Context, maxWorkers int, failFast bool) *WorkerPool {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		failFast:   failFast,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Submit queues fn under name. It never blocks; jobs wait for a free
// worker in their own goroutine.
func (p *WorkerPool) Submit(name string, fn Job) {
	p.mu.Lock()
	index := p.next
	p.next++
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				p.record(Result{Index: index, Name: name, Skipped: true})
				return
			}
		}

		if p.ctx.Err() != nil {
			p.record(Result{Index: index, Name: name, Skipped: true})
			return
		}

		start := time.Now()
		report, err := fn(p.ctx)
		p.record(Result{
			Index:    index,
			Name:     name,
			Report:   report,
			Error:    err,
			Duration: time.Since(start),
		})
	}()
}

func (p *WorkerPool) record(result Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.results = append(p.results, result)
	if result.Error != nil {
		p.errors = append(p.errors, fmt.Errorf("%s: %w", result.Name, result.Error))
		if p.failFast {
			p.cancel()
		}
	}
}

// Wait blocks until every submitted job has finished or been skipped and
// returns the results in submission order.
func (p *WorkerPool) Wait() ([]Result, []error) {
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result, len(p.results))
	copy(results, p.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	errs := make([]error, len(p.errors))
	copy(errs, p.errors)
	return results, errs
}

// Cancel stops jobs that have not started yet and cancels the context
// passed to running ones.
func (p *WorkerPool) Cancel() {
	p.cancel()
}
