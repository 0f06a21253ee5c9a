// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package models

import (
	"errors"
	"fmt"
)

// FailureKind is the machine-readable category of a failed operation.
type FailureKind string

const (
	FailureNetwork      FailureKind = "network"
	FailureValidation   FailureKind = "validation"
	FailureNotFound     FailureKind = "not_found"
	FailurePermission   FailureKind = "permission"
	FailureUnauthorized FailureKind = "unauthorized"
	FailureConflict     FailureKind = "conflict"
	FailurePrecondition FailureKind = "precondition"
)

// Failure describes why an operation against a remote collaborator (or a
// local validation step) did not succeed. It carries a category for
// programmatic handling and the human-readable message from the service.
type Failure struct {
	Kind    FailureKind
	Message string
}

func NewFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// AsFailure extracts a *Failure from err's chain. Errors that carry no
// Failure are treated as transport problems and reported as network
// failures, so callers always have a category to surface.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: FailureNetwork, Message: err.Error()}
}
