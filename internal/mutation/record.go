// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package mutation

import (
	"encoding/json"
	"fmt"

	"github.com/gozcan/ilkapp/models"
)

// State is the lifecycle of one optimistic mutation record.
//
// Applied -> InFlight -> Confirmed | RolledBack. The two final states are
// terminal; the record is discarded immediately after reaching one.
type State int

const (
	StateApplied State = iota
	StateInFlight
	StateConfirmed
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateApplied:
		return "applied"
	case StateInFlight:
		return "in_flight"
	case StateConfirmed:
		return "confirmed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// record tracks one in-flight optimistic edit: the target entity, the
// partial fields sent to the server, and the pre-mutation values of exactly
// those fields. Rollback restores only the captured fields, so a rejected
// edit can never resurrect the optimistic value of another edit queued on
// the same entity. The record lives only until reconciliation.
type record[T any] struct {
	entityID int64
	kind     models.EntityKind
	fields   map[string]any
	prev     map[string]json.RawMessage
	state    State
}

// previousFields captures the current values of the columns named in fields.
// The entity's wire representation is used so keys line up with the
// partial-update payload. A column omitted from the wire form (omitempty at
// its zero value) is recorded as null, which restores to the zero value.
func previousFields[T any](entity T, fields map[string]any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	var columns map[string]json.RawMessage
	if err = json.Unmarshal(raw, &columns); err != nil {
		return nil, fmt.Errorf("decode entity columns: %w", err)
	}

	prev := make(map[string]json.RawMessage, len(fields))
	for column := range fields {
		value, ok := columns[column]
		if !ok {
			value = json.RawMessage("null")
		}
		prev[column] = value
	}

	return prev, nil
}

// restoreFields returns current with only the captured columns set back to
// their pre-mutation values; every other field keeps its current value.
func restoreFields[T any](current T, prev map[string]json.RawMessage) (T, error) {
	var restored T

	raw, err := json.Marshal(current)
	if err != nil {
		return restored, fmt.Errorf("encode entity: %w", err)
	}
	var columns map[string]json.RawMessage
	if err = json.Unmarshal(raw, &columns); err != nil {
		return restored, fmt.Errorf("decode entity columns: %w", err)
	}

	for column, value := range prev {
		columns[column] = value
	}

	merged, err := json.Marshal(columns)
	if err != nil {
		return restored, fmt.Errorf("encode restored columns: %w", err)
	}
	if err = json.Unmarshal(merged, &restored); err != nil {
		return restored, fmt.Errorf("decode restored entity: %w", err)
	}

	return restored, nil
}
