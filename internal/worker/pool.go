// Package worker runs fire-and-forget background jobs, mainly analytics
// writes, so the chat request path never blocks on slow stores.
package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// Job is a unit of background work.
type Job func(ctx context.Context)

const (
	defaultWorkers    = 2
	defaultQueueSize  = 64
	defaultJobTimeout = 10 * time.Second
)

// Pool is a fixed-size worker pool with a bounded queue. When the queue is
// full, Submit drops the job instead of blocking the caller.
type Pool struct {
	jobs    chan Job
	timeout time.Duration

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPool starts the workers immediately.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &Pool{
		jobs:    make(chan Job, queueSize),
		timeout: defaultJobTimeout,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("background job panic: %v", rec)
				}
			}()
			job(ctx)
		}()
		cancel()
	}
}

// Submit enqueues a job. Reports false when the queue is full and the job
// was dropped.
func (p *Pool) Submit(job Job) bool {
	if job == nil {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		log.Printf("background job queue full, dropping job")
		return false
	}
}

// Stop drains outstanding jobs and stops the workers.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
