// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package models defines the domain records shared by every layer of the
// client: tasks, expenses, projects, companies, media attachments and the
// failure taxonomy used to report remote outcomes.
package models

import (
	"sync/atomic"
	"time"
)

// EntityKind names a remote collection an entity belongs to.
type EntityKind string

const (
	KindTask    EntityKind = "task"
	KindExpense EntityKind = "expense"
	KindProject EntityKind = "project"
	KindCompany EntityKind = "company"
)

// Entity is implemented by every record that takes part in the optimistic
// mutation protocol. EntityID returns the server-assigned identifier, or a
// negative local placeholder while a create is still in flight.
type Entity interface {
	EntityID() int64
	EntityKind() EntityKind
}

var localIDSeq atomic.Int64

func init() {
	// Seed below zero so placeholder ids can never collide with
	// server-assigned ones, and below -UnixMilli so ids stay unique across
	// quick process restarts within one debugging session.
	localIDSeq.Store(-time.Now().UnixMilli())
}

// NextLocalID returns a negative, process-unique placeholder identifier for
// an entity whose create has not been confirmed by the server yet.
func NextLocalID() int64 {
	return localIDSeq.Add(-1)
}

// IsLocalID reports whether id is a client-side placeholder rather than a
// server-assigned identifier.
func IsLocalID(id int64) bool {
	return id < 0
}
