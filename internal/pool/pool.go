package pool

import (
	"errors"
	"sync"
)

// DefaultWorkers matches the number of concurrent writers the extractor
// has always used.
const DefaultWorkers = 4

// ErrClosed is returned by Submit once Wait has been called.
var ErrClosed = errors.New("pool closed")

// Task is a unit of work run by a pool worker.
type Task func()

// Pool runs tasks on a fixed number of goroutines fed from a bounded queue.
// Submit blocks while the queue is full.
type Pool struct {
	numWorkers int
	tasks      chan Task
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// New starts a pool with the given number of workers and queue capacity.
// Non-positive values fall back to DefaultWorkers and twice the worker count.
func New(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = 2 * workers
	}

	p := &Pool{
		numWorkers: workers,
		tasks:      make(chan Task, queueSize),
	}
	p.startWorkers()
	return p
}

func (p *Pool) startWorkers() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// Submit queues a task. It must not be called concurrently with Wait.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.tasks <- task
	return nil
}

// Wait stops accepting tasks and blocks until every queued task has run.
// It is safe to call more than once.
func (p *Pool) Wait() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
	p.wg.Wait()
}
