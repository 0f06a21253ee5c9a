// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package remote implements the client gateway to the remote data service:
// typed read/insert/update/delete operations over named entity collections
// with server-assigned identifiers and timestamps.
package remote

import (
	"context"
	"encoding/json"

	"github.com/gozcan/ilkapp/models"
)

// Filter restricts a Select to rows whose columns equal the given values.
type Filter map[string]any

// Order describes the requested row ordering of a Select.
type Order struct {
	Column     string
	Descending bool
}

// Service is the contract of the remote data service. Every operation is a
// single round-trip; none retries internally. Failed calls return an error
// whose chain carries a *models.Failure with the category and the remote
// message.
type Service interface {
	// Select returns the rows of collection matching filter, ordered by
	// order. Rows are returned raw; typed repositories decode them.
	Select(ctx context.Context, collection string, filter Filter, order Order) ([]json.RawMessage, error)

	// Insert creates a row from fields and returns the stored row with the
	// server-assigned id and timestamps.
	Insert(ctx context.Context, collection string, fields any) (json.RawMessage, error)

	// Update applies the partial fields to the row identified by id and
	// returns the authoritative updated row.
	Update(ctx context.Context, collection string, id int64, fields any) (json.RawMessage, error)

	// Delete removes the row identified by id.
	Delete(ctx context.Context, collection string, id int64) error
}

// CredentialSource supplies the bearer credential attached to every
// authenticated request. The session provider implements it.
type CredentialSource interface {
	CurrentCredential() (models.Credential, bool)
}
