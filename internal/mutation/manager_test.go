// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package mutation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore[T models.Entity] struct {
	createFn func(ctx context.Context, draft any) (T, error)
	updateFn func(ctx context.Context, id int64, fields map[string]any) (T, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *fakeStore[T]) Create(ctx context.Context, draft any) (T, error) {
	return s.createFn(ctx, draft)
}

func (s *fakeStore[T]) Update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	return s.updateFn(ctx, id, fields)
}

func (s *fakeStore[T]) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type notification struct {
	operation string
	kind      models.FailureKind
	message   string
	failed    bool
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []notification
}

func (n *recordingNotifier) Succeeded(operation string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification{operation: operation})
}

func (n *recordingNotifier) Failed(operation string, kind models.FailureKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification{operation: operation, kind: kind, message: message, failed: true})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.notifications...)
}

func taskByID(t *testing.T, tasks []models.Task, id int64) models.Task {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %d not in snapshot", id)
	return models.Task{}
}

func TestManager_Mutate_ConfirmedReplacesRowWithServerState(t *testing.T) {
	serverRow := models.Task{ID: 7, Title: "write report", Status: models.TaskStatusDoing, Priority: 3}
	store := &fakeStore[models.Task]{
		updateFn: func(_ context.Context, id int64, fields map[string]any) (models.Task, error) {
			assert.Equal(t, int64(7), id)
			assert.Equal(t, map[string]any{"status": "doing"}, fields)
			return serverRow, nil
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{{ID: 7, Title: "write report", Status: models.TaskStatusTodo}})

	m.Mutate(7, map[string]any{"status": "doing"}, func(task models.Task) models.Task {
		task.Status = models.TaskStatusDoing
		return task
	})

	// The optimistic view is visible synchronously.
	assert.Equal(t, models.TaskStatusDoing, taskByID(t, m.Snapshot(), 7).Status)

	require.Eventually(t, func() bool { return !m.Pending(7) }, time.Second, time.Millisecond)

	// The confirmed row is the authoritative server one, priority included.
	got := taskByID(t, m.Snapshot(), 7)
	assert.Equal(t, serverRow, got)

	notifications := notifier.all()
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].failed)
}

func TestManager_Mutate_RollbackIsExact(t *testing.T) {
	store := &fakeStore[models.Task]{
		updateFn: func(_ context.Context, _ int64, _ map[string]any) (models.Task, error) {
			return models.Task{}, models.NewFailure(models.FailureNetwork, "network error")
		},
	}
	notifier := &recordingNotifier{}

	before := models.Task{ID: 7, Title: "write report", Status: models.TaskStatusTodo, Priority: 2}
	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{before})

	m.Mutate(7, map[string]any{"status": "doing"}, func(task models.Task) models.Task {
		task.Status = models.TaskStatusDoing
		return task
	})

	require.Eventually(t, func() bool { return !m.Pending(7) }, time.Second, time.Millisecond)

	assert.Equal(t, before, taskByID(t, m.Snapshot(), 7), "rollback must restore the exact pre-mutation state")

	notifications := notifier.all()
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].failed)
	assert.Equal(t, models.FailureNetwork, notifications[0].kind)
	assert.Equal(t, "network error", notifications[0].message)
}

func TestManager_Mutate_QueuedRollbacksRestoreOnlyTheirFields(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	store := &fakeStore[models.Task]{
		updateFn: func(_ context.Context, _ int64, fields map[string]any) (models.Task, error) {
			if _, ok := fields["status"]; ok {
				close(entered)
				<-release
			}
			return models.Task{}, models.NewFailure(models.FailureValidation, "rejected")
		},
	}
	notifier := &recordingNotifier{}

	before := models.Task{ID: 7, Title: "write report", Status: models.TaskStatusTodo, Priority: 2}
	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{before})

	m.Mutate(7, map[string]any{"status": "doing"}, func(task models.Task) models.Task {
		task.Status = models.TaskStatusDoing
		return task
	})
	<-entered

	// The second edit is captured while the first is still in flight, so its
	// rollback data must not embed the first edit's optimistic status.
	m.Mutate(7, map[string]any{"priority": 5}, func(task models.Task) models.Task {
		task.Priority = 5
		return task
	})
	close(release)

	require.Eventually(t, func() bool { return !m.Pending(7) }, time.Second, time.Millisecond)

	assert.Equal(t, before, taskByID(t, m.Snapshot(), 7),
		"both rollbacks together must restore the exact pre-mutation state")
}

func TestManager_Mutate_RollbackKeepsUnrelatedConfirmedEdit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	confirmed := models.Task{ID: 7, Title: "write report", Status: models.TaskStatusDoing, Priority: 2}

	store := &fakeStore[models.Task]{
		updateFn: func(_ context.Context, _ int64, fields map[string]any) (models.Task, error) {
			if _, ok := fields["status"]; ok {
				close(entered)
				<-release
				return confirmed, nil
			}
			return models.Task{}, models.NewFailure(models.FailureValidation, "priority out of range")
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{{ID: 7, Title: "write report", Status: models.TaskStatusTodo, Priority: 2}})

	m.Mutate(7, map[string]any{"status": "doing"}, func(task models.Task) models.Task {
		task.Status = models.TaskStatusDoing
		return task
	})
	<-entered

	m.Mutate(7, map[string]any{"priority": 99}, func(task models.Task) models.Task {
		task.Priority = 99
		return task
	})
	close(release)

	require.Eventually(t, func() bool { return !m.Pending(7) }, time.Second, time.Millisecond)

	got := taskByID(t, m.Snapshot(), 7)
	assert.Equal(t, models.TaskStatusDoing, got.Status, "confirmed edit must survive the later rollback")
	assert.Equal(t, 2, got.Priority, "rejected edit must be rolled back")
}

func TestPreviousFields_RoundTrip(t *testing.T) {
	task := models.Task{ID: 7, Title: "write report", Status: models.TaskStatusTodo, Priority: 2}

	prev, err := previousFields(task, map[string]any{"status": "doing"})
	require.NoError(t, err)

	task.Status = models.TaskStatusDoing
	restored, err := restoreFields(task, prev)
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusTodo, restored.Status)
	assert.Equal(t, "write report", restored.Title)
	assert.Equal(t, 2, restored.Priority)
}

func TestPreviousFields_OmittedColumnRestoresToZero(t *testing.T) {
	task := models.Task{ID: 7, Title: "write report"}

	// Notes is empty and therefore absent from the wire form.
	prev, err := previousFields(task, map[string]any{"notes": "call the vendor"})
	require.NoError(t, err)

	task.Notes = "call the vendor"
	restored, err := restoreFields(task, prev)
	require.NoError(t, err)

	assert.Empty(t, restored.Notes)
	assert.Equal(t, int64(7), restored.ID)
}

func TestManager_Mutate_SameEntityIsSerialized(t *testing.T) {
	issued := make(chan string, 2)
	release := make(chan struct{})

	store := &fakeStore[models.Task]{
		updateFn: func(_ context.Context, _ int64, fields map[string]any) (models.Task, error) {
			name := fields["title"].(string)
			issued <- name
			if name == "first" {
				<-release
			}
			return models.Task{ID: 7, Title: name}, nil
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{{ID: 7}})

	m.Mutate(7, map[string]any{"title": "first"}, func(task models.Task) models.Task {
		task.Title = "first"
		return task
	})
	m.Mutate(7, map[string]any{"title": "second"}, func(task models.Task) models.Task {
		task.Title = "second"
		return task
	})

	assert.Equal(t, "first", <-issued)

	// The second remote call must not be issued while the first is in
	// flight, however long it takes.
	select {
	case name := <-issued:
		t.Fatalf("second call %q issued before first reconciled", name)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.Equal(t, "second", <-issued)

	require.Eventually(t, func() bool { return !m.Pending(7) }, time.Second, time.Millisecond)
}

func TestManager_Mutate_DifferentEntitiesRunIndependently(t *testing.T) {
	release := make(chan struct{})
	store := &fakeStore[models.Task]{
		updateFn: func(_ context.Context, id int64, _ map[string]any) (models.Task, error) {
			if id == 1 {
				<-release
			}
			return models.Task{ID: id, Status: models.TaskStatusDone}, nil
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{{ID: 1}, {ID: 2}})

	bump := func(task models.Task) models.Task {
		task.Status = models.TaskStatusDone
		return task
	}
	m.Mutate(1, map[string]any{"status": "done"}, bump)
	m.Mutate(2, map[string]any{"status": "done"}, bump)

	// Entity 2 reconciles while entity 1 is still blocked.
	require.Eventually(t, func() bool { return !m.Pending(2) }, time.Second, time.Millisecond)
	assert.True(t, m.Pending(1))

	close(release)
	require.Eventually(t, func() bool { return !m.Pending(1) }, time.Second, time.Millisecond)
}

func TestManager_Create_ReplacesPlaceholderByCorrelation(t *testing.T) {
	store := &fakeStore[models.Task]{
		createFn: func(_ context.Context, draft any) (models.Task, error) {
			assert.IsType(t, models.TaskDraft{}, draft)
			return models.Task{ID: 42, Title: "new task", Status: models.TaskStatusTodo}, nil
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load(nil)

	localID := models.NextLocalID()
	m.Create(
		models.TaskDraft{Title: "new task", Status: models.TaskStatusTodo},
		models.Task{ID: localID, Title: "new task", Status: models.TaskStatusTodo},
	)

	// The placeholder row is visible immediately under its local id.
	assert.Equal(t, localID, taskByID(t, m.Snapshot(), localID).ID)

	require.Eventually(t, func() bool { return !m.Pending(localID) }, time.Second, time.Millisecond)

	snapshot := m.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(42), snapshot[0].ID, "placeholder must be replaced by the server row")
}

func TestManager_Create_FailureRemovesPlaceholder(t *testing.T) {
	store := &fakeStore[models.Task]{
		createFn: func(_ context.Context, _ any) (models.Task, error) {
			return models.Task{}, models.NewFailure(models.FailureValidation, "title too long")
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load(nil)

	localID := models.NextLocalID()
	m.Create(models.TaskDraft{Title: "x"}, models.Task{ID: localID, Title: "x"})

	require.Eventually(t, func() bool { return !m.Pending(localID) }, time.Second, time.Millisecond)

	assert.Empty(t, m.Snapshot())

	notifications := notifier.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, models.FailureValidation, notifications[0].kind)
}

func TestManager_Remove_FailureRestoresAtOldPosition(t *testing.T) {
	store := &fakeStore[models.Task]{
		deleteFn: func(_ context.Context, _ int64) error {
			return models.NewFailure(models.FailurePermission, "not yours")
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{{ID: 1}, {ID: 2}, {ID: 3}})

	m.Remove(2)
	assert.Len(t, m.Snapshot(), 2)

	require.Eventually(t, func() bool { return !m.Pending(2) }, time.Second, time.Millisecond)

	snapshot := m.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, int64(2), snapshot[1].ID, "entity must return to its old position")
}

func TestManager_Close_DiscardsInFlightReconciliation(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	store := &fakeStore[models.Task]{
		updateFn: func(_ context.Context, _ int64, _ map[string]any) (models.Task, error) {
			close(entered)
			<-release
			return models.Task{}, models.NewFailure(models.FailureNetwork, "late failure")
		},
	}
	notifier := &recordingNotifier{}

	m := NewManager[models.Task](store, notifier, logger.Nop())
	m.Load([]models.Task{{ID: 7, Status: models.TaskStatusTodo}})

	var notified int
	m.Subscribe(func([]models.Task) { notified++ })

	m.Mutate(7, map[string]any{"status": "doing"}, func(task models.Task) models.Task {
		task.Status = models.TaskStatusDoing
		return task
	})

	<-entered
	m.Close()
	notifiedBeforeRelease := notified
	close(release)

	// The remote call completes, but reconciliation is a no-op: no
	// rollback notification, no observer call.
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, notifier.all())
	assert.Equal(t, notifiedBeforeRelease, notified)
}

func TestManager_Subscribe_DeliversCurrentSnapshotImmediately(t *testing.T) {
	m := NewManager[models.Task](&fakeStore[models.Task]{}, &recordingNotifier{}, logger.Nop())
	m.Load([]models.Task{{ID: 1}})

	var got []models.Task
	m.Subscribe(func(tasks []models.Task) { got = tasks })

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}
