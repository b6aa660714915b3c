// Package pool implements the fixed-size worker pool that executes
// connection-handling jobs.
//
// The queue is unbounded FIFO: Submit never blocks the caller, accept
// pressure beyond worker throughput grows memory instead of rejecting.
// All workers share a single receiving end guarded by a mutex; a worker
// dequeues one message under the lock and acts on it outside the critical
// section, so a long-running job never blocks other workers from
// dequeuing.
package pool

import (
	"errors"
	"sync"

	"github.com/staticd/staticd/internal/logger"
)

// Job is one deferred, single-execution unit of work. A job is executed
// by exactly one worker and never re-queued.
type Job func()

// ErrNoWorkers is returned by New when asked for a zero-sized pool, which
// would otherwise stall every submitted job forever.
var ErrNoWorkers = errors.New("pool size must be greater than zero")

// message is the queue element: either a job or a terminate marker.
type message struct {
	job       Job
	terminate bool
}

// Pool owns a fixed set of worker goroutines and the job queue they
// consume. Workers are created once by New and never resized.
type Pool struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []message

	workers sync.WaitGroup
	size    int
}

// New creates a pool with the given number of workers.
func New(size int) (*Pool, error) {
	if size <= 0 {
		return nil, ErrNoWorkers
	}

	p := &Pool{size: size}
	p.cond = sync.NewCond(&p.mu)

	p.workers.Add(size)
	for id := 0; id < size; id++ {
		go p.worker(id)
	}
	return p, nil
}

// Submit enqueues a job for eventual execution by exactly one worker, in
// FIFO order relative to other submissions. Never blocks.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	p.queue = append(p.queue, message{job: job})
	p.mu.Unlock()
	p.cond.Signal()
}

// QueueLen returns the number of queued, not-yet-dequeued jobs.
// Terminate markers are not jobs and are excluded.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	jobs := 0
	for _, msg := range p.queue {
		if !msg.terminate {
			jobs++
		}
	}
	return jobs
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Shutdown enqueues exactly one terminate marker per worker and blocks
// until every worker has exited. Jobs queued ahead of the markers are
// still executed (graceful drain, not cancellation), and a worker that is
// mid-job finishes it before observing termination.
func (p *Pool) Shutdown() {
	logger.Debug("Sending terminate message to all workers")

	p.mu.Lock()
	for i := 0; i < p.size; i++ {
		p.queue = append(p.queue, message{terminate: true})
	}
	p.mu.Unlock()
	p.cond.Broadcast()

	p.workers.Wait()
	logger.Debug("All workers terminated")
}

func (p *Pool) worker(id int) {
	defer p.workers.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 {
			p.cond.Wait()
		}
		msg := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		if msg.terminate {
			logger.Debug("Worker %d was terminated", id)
			return
		}
		msg.job()
	}
}
