// Package notify runs side effects that must never block or fail an HTTP
// response. Callers hand work to a Dispatcher and move on; outcomes are
// visible only in logs and metrics.
package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is a unit of background work. The name appears in logs when the
// task fails or is dropped.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

const (
	defaultQueueSize = 64
	taskTimeout      = 30 * time.Second
)

// Dispatcher executes tasks on a single background worker. Enqueue never
// blocks the caller: when the queue is full the task is dropped with a log
// line rather than delaying the request path.
type Dispatcher struct {
	mu     sync.Mutex
	closed bool
	tasks  chan Task
	done   chan struct{}
}

// NewDispatcher creates a dispatcher and starts its worker.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		tasks: make(chan Task, defaultQueueSize),
		done:  make(chan struct{}),
	}
	go d.worker()
	return d
}

// Enqueue submits a task for background execution. It reports whether the
// task was accepted; tasks are refused after Close and when the queue is
// full.
func (d *Dispatcher) Enqueue(task Task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		log.Printf("[NOTIFY] Dispatcher closed, dropping task %q", task.Name)
		return false
	}

	select {
	case d.tasks <- task:
		return true
	default:
		log.Printf("[NOTIFY] Queue full, dropping task %q", task.Name)
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.tasks)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for task := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		if err := task.Run(ctx); err != nil {
			log.Printf("[NOTIFY] Task %q failed: %v", task.Name, err)
		}
		cancel()
	}
}
