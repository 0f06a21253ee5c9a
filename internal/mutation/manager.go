// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package mutation implements optimistic entity edits: a local state change
// is applied and published immediately, the remote call is issued on a
// per-entity sequential queue, and the outcome either confirms the edit
// with the authoritative server row or restores the changed fields to their
// pre-mutation values.
package mutation

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/internal/notify"
	"github.com/gozcan/ilkapp/models"
)

// Store is the repository surface the manager needs. repository.Repository
// satisfies it for every entity kind.
type Store[T models.Entity] interface {
	Create(ctx context.Context, draft any) (T, error)
	Update(ctx context.Context, id int64, fields map[string]any) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Observer receives the full entity snapshot after every state change.
type Observer[T models.Entity] func([]T)

// Manager owns the in-memory entity list of one screen and reconciles
// optimistic edits against the remote repository. Edits to the same entity
// are strictly serialized; edits to different entities run independently.
type Manager[T models.Entity] struct {
	repo     Store[T]
	notifier notify.Notifier
	logger   *logger.Logger

	mu        sync.Mutex
	entities  []T
	observers []Observer[T]
	pending   map[int64]int
	queues    map[int64]*opQueue
	closed    bool
}

func NewManager[T models.Entity](repo Store[T], notifier notify.Notifier, logger *logger.Logger) *Manager[T] {
	return &Manager[T]{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		pending:  make(map[int64]int),
		queues:   make(map[int64]*opQueue),
	}
}

// Load replaces the manager's entity list with a freshly fetched snapshot
// and publishes it.
func (m *Manager[T]) Load(entities []T) {
	m.mu.Lock()
	m.entities = slices.Clone(entities)
	m.mu.Unlock()

	m.publish()
}

// Snapshot returns a copy of the current entity list.
func (m *Manager[T]) Snapshot() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entities)
}

// Subscribe registers an observer. It is immediately called with the
// current snapshot.
func (m *Manager[T]) Subscribe(fn Observer[T]) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	snapshot := slices.Clone(m.entities)
	m.mu.Unlock()

	fn(snapshot)
}

// Pending reports whether the entity has a mutation that has not reached a
// terminal state yet.
func (m *Manager[T]) Pending(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[id] > 0
}

// Close tears the manager down. In-flight remote calls run to completion
// but their reconciliation becomes a no-op against the discarded state: no
// rollback, no observer or user notification.
func (m *Manager[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

// Mutate applies fields to the entity identified by id. apply must return
// the entity with the change applied locally; fields is the partial update
// sent to the server. The local change and the observer notification happen
// synchronously; the remote call is queued behind any earlier mutation of
// the same entity.
func (m *Manager[T]) Mutate(id int64, fields map[string]any, apply func(T) T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	i := m.indexOfLocked(id)
	if i < 0 {
		m.mu.Unlock()
		m.logger.Debug().Int64("entity_id", id).Msg("mutate: unknown entity")
		return
	}

	prev, err := previousFields(m.entities[i], fields)
	if err != nil {
		m.mu.Unlock()
		m.logger.Error().Int64("entity_id", id).Err(err).Msg("mutate: capture previous fields")
		return
	}

	rec := &record[T]{
		entityID: id,
		kind:     m.entities[i].EntityKind(),
		fields:   fields,
		prev:     prev,
		state:    StateApplied,
	}
	m.entities[i] = apply(m.entities[i])
	m.pending[id]++
	q := m.queueForLocked(id)
	m.mu.Unlock()

	m.publish()

	q.enqueue(func() { m.reconcileUpdate(rec) })
}

func (m *Manager[T]) reconcileUpdate(rec *record[T]) {
	rec.state = StateInFlight
	op := fmt.Sprintf("update %s", rec.kind)

	row, err := m.repo.Update(context.Background(), rec.entityID, rec.fields)

	m.mu.Lock()
	m.pending[rec.entityID]--
	if m.closed {
		m.mu.Unlock()
		return
	}

	i := m.indexOfLocked(rec.entityID)
	if err != nil {
		rec.state = StateRolledBack
		if i >= 0 {
			// Restore only the fields this edit changed; other fields keep
			// whatever later edits or confirmations have produced.
			restored, restoreErr := restoreFields(m.entities[i], rec.prev)
			if restoreErr != nil {
				m.logger.Error().Int64("entity_id", rec.entityID).Err(restoreErr).Msg("rollback restore")
			} else {
				m.entities[i] = restored
			}
		}
		m.mu.Unlock()

		m.publish()
		failure := models.AsFailure(err)
		m.notifier.Failed(op, failure.Kind, failure.Message)
		return
	}

	rec.state = StateConfirmed
	if i >= 0 {
		m.entities[i] = row
	}
	m.mu.Unlock()

	m.publish()
	m.notifier.Succeeded(op)
}

// Create appends placeholder (which must carry a negative local id from
// models.NextLocalID) and queues the remote insert. On success the
// placeholder row is replaced, not merged, with the server-returned row;
// the match is by the captured local id, never by id equality, because the
// id changes.
func (m *Manager[T]) Create(draft any, placeholder T) {
	localID := placeholder.EntityID()
	if !models.IsLocalID(localID) {
		m.logger.Error().Int64("entity_id", localID).Msg("create: placeholder without local id")
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.entities = append(m.entities, placeholder)
	m.pending[localID]++
	q := m.queueForLocked(localID)
	m.mu.Unlock()

	m.publish()

	q.enqueue(func() { m.reconcileCreate(localID, draft, placeholder) })
}

func (m *Manager[T]) reconcileCreate(localID int64, draft any, placeholder T) {
	op := fmt.Sprintf("create %s", placeholder.EntityKind())

	row, err := m.repo.Create(context.Background(), draft)

	m.mu.Lock()
	m.pending[localID]--
	if m.closed {
		m.mu.Unlock()
		return
	}

	i := m.indexOfLocked(localID)
	if err != nil {
		if i >= 0 {
			m.entities = slices.Delete(m.entities, i, i+1)
		}
		m.mu.Unlock()

		m.publish()
		failure := models.AsFailure(err)
		m.notifier.Failed(op, failure.Kind, failure.Message)
		return
	}

	if i >= 0 {
		m.entities[i] = row
	}
	m.mu.Unlock()

	m.publish()
	m.notifier.Succeeded(op)
}

// Remove deletes the entity optimistically: it disappears from the
// snapshot immediately and is restored at its old position if the remote
// delete fails.
func (m *Manager[T]) Remove(id int64) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	i := m.indexOfLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}

	removed := m.entities[i]
	m.entities = slices.Delete(m.entities, i, i+1)
	m.pending[id]++
	q := m.queueForLocked(id)
	m.mu.Unlock()

	m.publish()

	q.enqueue(func() { m.reconcileRemove(id, i, removed) })
}

func (m *Manager[T]) reconcileRemove(id int64, index int, removed T) {
	op := fmt.Sprintf("delete %s", removed.EntityKind())

	err := m.repo.Delete(context.Background(), id)

	m.mu.Lock()
	m.pending[id]--
	if m.closed {
		m.mu.Unlock()
		return
	}

	if err != nil {
		if index > len(m.entities) {
			index = len(m.entities)
		}
		m.entities = slices.Insert(m.entities, index, removed)
		m.mu.Unlock()

		m.publish()
		failure := models.AsFailure(err)
		m.notifier.Failed(op, failure.Kind, failure.Message)
		return
	}
	m.mu.Unlock()

	m.publish()
	m.notifier.Succeeded(op)
}

// publish delivers the current snapshot to all observers. Called without
// the lock held so observers may call back into the manager.
func (m *Manager[T]) publish() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	observers := slices.Clone(m.observers)
	snapshot := slices.Clone(m.entities)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func (m *Manager[T]) indexOfLocked(id int64) int {
	for i, e := range m.entities {
		if e.EntityID() == id {
			return i
		}
	}
	return -1
}

func (m *Manager[T]) queueForLocked(id int64) *opQueue {
	q, ok := m.queues[id]
	if !ok {
		q = &opQueue{}
		m.queues[id] = q
	}
	return q
}
