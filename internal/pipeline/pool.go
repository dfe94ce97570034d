package pipeline

import (
	"runtime"
	"sync"
)

// Pool is a fixed-size worker pool for CPU-bound page work. Jobs are
// plain closures; callers coordinate results through captured
// variables and Wait.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
}

// NewPool starts a pool with the given number of workers. A
// non-positive count falls back to the number of CPUs.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &Pool{jobs: make(chan func(), workers*2)}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for job := range p.jobs {
		job()
		p.wg.Done()
	}
}

// Submit queues a job. It blocks when the queue is full.
func (p *Pool) Submit(job func()) {
	p.wg.Add(1)
	p.jobs <- job
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close stops the workers after the queued jobs drain. The pool must
// not be used after Close.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.jobs)
	})
}
