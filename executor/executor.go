// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/lssa-labs/treasuryvm/state"
)

// Metrics records whether a task had to wait on an earlier conflicting task.
type Metrics interface {
	RecordBlocked()
	RecordExecutable()
}

// Executor sequences the concurrent execution of
// tasks with arbitrary conflicts on-the-fly.
//
// Executor ensures that conflicting tasks
// are executed in the order they were queued.
// Tasks with no conflicts are executed immediately.
//
// Two tasks conflict if they share a key and at least one of them writes
// it. Readers of a key run in parallel after its latest writer.
type Executor struct {
	metrics Metrics
	slots   chan struct{}

	added int
	tasks []*task
	edges map[string]*keyState

	outstanding sync.WaitGroup

	err atomic.Error
}

// keyState tracks the latest writer of a key and the readers queued
// after it.
type keyState struct {
	writer  int
	readers []int
}

// New creates a new [Executor] that accepts up to [items] tasks and runs at
// most [concurrency] of them at once. [metrics] may be nil.
func New(items, concurrency int, metrics Metrics) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		metrics: metrics,
		slots:   make(chan struct{}, concurrency),
		tasks:   make([]*task, items),
		edges:   make(map[string]*keyState, items*2),
	}
}

type task struct {
	f func() error

	l        sync.Mutex
	waiters  map[int]*sync.WaitGroup
	executed bool
}

// dependOn makes task [id] wait for task [dep] unless [dep] already ran.
// It returns true if a wait was added.
func (e *Executor) dependOn(id, dep int, wg *sync.WaitGroup) bool {
	lt := e.tasks[dep]
	lt.l.Lock()
	defer lt.l.Unlock()

	if lt.executed {
		return false
	}
	if _, ok := lt.waiters[id]; ok {
		return false
	}
	wg.Add(1)
	lt.waiters[id] = wg
	return true
}

// Run executes [f] after all previously enqueued [f] with
// overlapping [conflicts] are executed.
//
// Run is not safe to call concurrently.
func (e *Executor) Run(conflicts state.Keys, f func() error) {
	// Ensure too many tasks not enqueued
	if e.added >= len(e.tasks) {
		e.err.CompareAndSwap(nil, ErrTooManyTasks)
		return
	}

	// Generate task
	id := e.added
	e.added++
	t := &task{
		f:       f,
		waiters: map[int]*sync.WaitGroup{},
	}
	e.tasks[id] = t
	e.outstanding.Add(1)

	// Record dependencies
	var (
		wg      = &sync.WaitGroup{}
		blocked bool
	)
	for k, perm := range conflicts {
		ks, ok := e.edges[k]
		if !ok {
			ks = &keyState{writer: -1}
			e.edges[k] = ks
		}
		if ks.writer >= 0 && e.dependOn(id, ks.writer, wg) {
			blocked = true
		}
		if !perm.Has(state.Write) {
			ks.readers = append(ks.readers, id)
			continue
		}
		for _, r := range ks.readers {
			if e.dependOn(id, r, wg) {
				blocked = true
			}
		}
		ks.writer = id
		ks.readers = nil
	}
	if e.metrics != nil {
		if blocked {
			e.metrics.RecordBlocked()
		} else {
			e.metrics.RecordExecutable()
		}
	}

	// Wait for the scheduler to execute us
	go func() {
		// Block until our dependencies have been executed
		wg.Wait()

		// Ensure we unblock our dependencies
		defer func() {
			t.l.Lock()
			for _, w := range t.waiters {
				w.Done()
			}
			t.waiters = nil
			t.executed = true
			t.l.Unlock()
			e.outstanding.Done()
		}()

		// Stop early if executor is stopped
		if e.err.Load() != nil {
			return
		}

		// Execute task once we aren't too busy
		e.slots <- struct{}{}
		defer func() { <-e.slots }()
		if err := t.f(); err != nil {
			e.err.CompareAndSwap(nil, err)
			return
		}
	}()
}

func (e *Executor) Stop() {
	e.err.CompareAndSwap(nil, ErrStopped)
}

// Wait returns as soon as all enqueued [f] are executed.
//
// You should not call [Run] after [Wait] is called.
func (e *Executor) Wait() error {
	e.outstanding.Wait()
	return e.err.Load()
}
