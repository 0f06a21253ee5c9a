// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package mutation

import "sync"

// opQueue runs jobs strictly one after another in submission order. Each
// entity gets its own queue so edits to the same entity are serialized
// while different entities stay independent.
type opQueue struct {
	mu      sync.Mutex
	jobs    []func()
	running bool
}

// enqueue appends job and starts a drain goroutine if none is running.
// The queue is unbounded; callers never block.
func (q *opQueue) enqueue(job func()) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	if !q.running {
		q.running = true
		go q.drain()
	}
	q.mu.Unlock()
}

func (q *opQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		job()
	}
}
