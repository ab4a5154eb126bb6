package utils

import (
	"sync"
)

// WorkerPool runs submitted tasks on a fixed number of workers. Submissions
// beyond the worker capacity block until a slot frees.
type WorkerPool struct {
	workers   int
	jobQueue  chan func()
	waitGroup sync.WaitGroup
}

// NewWorkerPool creates a pool with the specified number of workers.
func NewWorkerPool(workers int) *WorkerPool {
	pool := &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers),
	}

	pool.waitGroup.Add(workers)
	for i := 0; i < workers; i++ {
		go pool.worker()
	}

	return pool
}

// worker processes tasks from the jobQueue until it is closed.
func (wp *WorkerPool) worker() {
	defer wp.waitGroup.Done()
	for task := range wp.jobQueue {
		task()
	}
}

// Submit adds a new task to the worker pool.
func (wp *WorkerPool) Submit(task func()) {
	wp.jobQueue <- task
}

// Shutdown stops accepting tasks and blocks until every submitted task has
// finished. This is the pool's join barrier.
func (wp *WorkerPool) Shutdown() {
	close(wp.jobQueue)
	wp.waitGroup.Wait()
}
