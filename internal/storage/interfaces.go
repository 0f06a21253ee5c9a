// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package storage implements the client gateway to the object storage
// service: authenticated binary uploads, deletions, and short-lived signed
// retrieval URLs, plus the process-wide signed-URL cache.
package storage

import (
	"context"
	"time"

	"github.com/gozcan/ilkapp/models"
)

// ObjectStore is the contract of the object storage service. Paths are
// bucket-relative; the bucket is fixed at construction. Failed calls return
// an error whose chain carries a *models.Failure with the HTTP status
// context.
type ObjectStore interface {
	// Upload stores data at path with the bearer credential attached.
	// A non-2xx response is a failure carrying the status code.
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// Remove deletes the objects at paths in one collection call.
	Remove(ctx context.Context, paths []string) error

	// Sign issues a time-limited retrieval URL for the object at path.
	Sign(ctx context.Context, path string, ttl time.Duration) (models.SignedURL, error)
}

// CredentialSource supplies the bearer credential attached to storage
// requests. The session provider implements it.
type CredentialSource interface {
	CurrentCredential() (models.Credential, bool)
}
