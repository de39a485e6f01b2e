package worker

import (
	"context"
	"sort"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) Result

// Execute calls f(ctx)
func (f JobFunc) Execute(ctx context.Context) Result {
	return f(ctx)
}

// sequenced tags a job or result with its submission order
type sequenced[T any] struct {
	seq  int
	item T
}

// Pool runs jobs on a fixed number of workers. Results are returned in
// submission order.
type Pool struct {
	workers    int
	jobQueue   chan sequenced[Job]
	results    chan sequenced[Result]
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once

	mu        sync.Mutex
	submitted int
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	return NewPoolContext(context.Background(), workers)
}

// NewPoolContext creates a pool whose jobs observe ctx; cancelling ctx
// stops the pool like Shutdown
func NewPoolContext(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan sequenced[Job], workers*2),
		results:    make(chan sequenced[Result], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Workers returns the number of workers
func (p *Pool) Workers() int {
	return p.workers
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.item.Execute(p.ctx)
			select {
			case p.results <- sequenced[Result]{seq: job.seq, item: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool for execution. It must not be called
// after Wait.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	seq := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- sequenced[Job]{seq: seq, item: job}:
	}
}

// Wait waits for all submitted jobs and returns their results in
// submission order. Jobs dropped by a shutdown have no result.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var collected []sequenced[Result]
	for result := range p.results {
		collected = append(collected, result)
	}

	return ordered(collected)
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run executes jobs on a temporary pool. The returned slice is aligned with
// jobs; entries are nil for jobs that did not finish before ctx was done.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	pool := NewPoolContext(ctx, min(workers, len(jobs)))
	pool.Start()

	go func() {
		for _, job := range jobs {
			pool.Submit(job)
		}
	}()

	results := make([]Result, len(jobs))
	for received := 0; received < len(jobs); received++ {
		select {
		case r := <-pool.results:
			results[r.seq] = r.item
		case <-pool.ctx.Done():
			pool.Shutdown()
			return results
		}
	}

	pool.Shutdown()
	return results
}

func ordered(collected []sequenced[Result]) []Result {
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].seq < collected[j].seq
	})
	results := make([]Result, len(collected))
	for i, r := range collected {
		results[i] = r.item
	}
	return results
}
