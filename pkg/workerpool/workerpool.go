// Package workerpool implements Component F from spec.md §4.F: a bounded,
// FIFO thread pool with an exposed lock so a task body can serialize a
// short critical section without allocating a second mutex. It generalizes
// the teacher's pkg/tasks.TaskManager (a single-slot goroutine supervisor)
// to a fixed-size worker pool sized to hardware concurrency, because the
// build engine needs true fan-out across compile tasks rather than the
// teacher's "cancel the previous task, start a new one" single-task model.
package workerpool

import (
	"runtime"
	"sync"

	"github.com/sasha-s/go-deadlock"
)

// Task is an opaque, argument-less, return-less unit of work, per spec.md
// §4.F.
type Task func()

// Pool is a bounded worker set draining an unbounded FIFO queue via
// condition-variable dispatch.
type Pool struct {
	// mu also guards queue/draining/firstErr/done. Exposed via Lock/Unlock
	// so tasks can serialize O(1) critical sections (result-slice appends,
	// progress-counter bumps) without a second lock, per spec.md §4.F.
	mu deadlock.Mutex

	// cond wraps mu: deadlock.Mutex satisfies sync.Locker, so sync.Cond
	// works directly without any custom wrapper type.
	cond     *sync.Cond
	queue    []Task
	draining bool
	closed   bool

	workers int
	// active counts workers that have not yet returned; seeded to workers in
	// New so the drain-complete check in worker's defer can't race a sibling
	// goroutine that hasn't started running yet.
	active   int
	done     chan struct{}
	firstErr error
}

// New creates a pool sized to max(runtime.NumCPU(), 2) workers, per
// spec.md §4.F, and starts them immediately.
func New() *Pool {
	workers := runtime.NumCPU()
	if workers < 2 {
		workers = 2
	}
	p := &Pool{workers: workers, active: workers, done: make(chan struct{})}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Lock exposes the pool's internal mutex for a task body to use as a short,
// O(1) critical section. Tasks must never call Run while holding it.
func (p *Pool) Lock() { p.mu.Lock() }

// Unlock releases the lock acquired by Lock.
func (p *Pool) Unlock() { p.mu.Unlock() }

// Run enqueues task without blocking and wakes one waiting worker. Calling
// Run after JoinAll has returned is a programmer error, not a recoverable
// runtime condition, so it panics rather than returning an error.
func (p *Pool) Run(task Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		panic("workerpool: Run called after JoinAll")
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
}

// JoinAll sets the drain flag, wakes every worker, and blocks until all
// workers have returned. It returns the pool's single "first error" slot,
// if any task recorded one via RecordError. Subsequent calls to Run after
// JoinAll has returned panic, per spec.md §4.F.
func (p *Pool) JoinAll() error {
	p.mu.Lock()
	p.draining = true
	p.cond.Broadcast()
	p.mu.Unlock()

	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.firstErr
}

// RecordError captures the first error reported by any task, discarding
// later ones, matching spec.md §7's single-writer "first error" slot. The
// caller must already hold the pool's lock (via Lock), the same as for any
// other task-local state write — RecordError does not lock internally so it
// can be called alongside a result-slice append under one critical section.
func (p *Pool) RecordError(err error) {
	if err == nil {
		return
	}
	if p.firstErr == nil {
		p.firstErr = err
	}
}

func (p *Pool) worker() {
	defer func() {
		p.mu.Lock()
		p.active--
		if p.active == 0 && p.draining {
			close(p.done)
		}
		p.mu.Unlock()
	}()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.draining {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task()
	}
}
