// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package models

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

// AllowedTaskStatuses is the exhaustive set of statuses the remote service
// accepts; anything else is rejected before a remote call is made.
var AllowedTaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusDoing, TaskStatusDone}

type Task struct {
	ID        int64      `json:"id"`
	ProjectID int64      `json:"project_id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Status    TaskStatus `json:"status"`
	Priority  int        `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (t Task) EntityID() int64        { return t.ID }
func (t Task) EntityKind() EntityKind { return KindTask }

// TaskDraft is the payload for creating a task. The server assigns the id
// and both timestamps.
type TaskDraft struct {
	ProjectID int64      `json:"project_id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Status    TaskStatus `json:"status"`
	Priority  int        `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}
