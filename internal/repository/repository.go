// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package repository provides typed CRUD access to remote collections on
// top of the remote.Service gateway. One generic repository serves every
// entity kind; the constructors below bind it to concrete collections.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gozcan/ilkapp/internal/remote"
)

// Repository is a typed view over one remote collection. Every operation is
// a single remote round-trip with no internal retry; errors carry a
// *models.Failure in their chain.
type Repository[T any] struct {
	svc        remote.Service
	collection string
	order      remote.Order
}

func New[T any](svc remote.Service, collection string, order remote.Order) *Repository[T] {
	return &Repository[T]{svc: svc, collection: collection, order: order}
}

// List returns the rows matching filter in the repository's default order.
func (r *Repository[T]) List(ctx context.Context, filter remote.Filter) ([]T, error) {
	rows, err := r.svc.Select(ctx, r.collection, filter, r.order)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.collection, err)
	}

	items := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := json.Unmarshal(row, &item); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", r.collection, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// Create inserts draft and returns the stored row with the server-assigned
// identifier and timestamps.
func (r *Repository[T]) Create(ctx context.Context, draft any) (T, error) {
	var item T

	row, err := r.svc.Insert(ctx, r.collection, draft)
	if err != nil {
		return item, fmt.Errorf("create %s: %w", r.collection, err)
	}
	if err := json.Unmarshal(row, &item); err != nil {
		return item, fmt.Errorf("decode created %s row: %w", r.collection, err)
	}

	return item, nil
}

// Update applies the partial fields to the row identified by id and returns
// the authoritative row the server stored.
func (r *Repository[T]) Update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	var item T

	row, err := r.svc.Update(ctx, r.collection, id, fields)
	if err != nil {
		return item, fmt.Errorf("update %s/%d: %w", r.collection, id, err)
	}
	if err := json.Unmarshal(row, &item); err != nil {
		return item, fmt.Errorf("decode updated %s row: %w", r.collection, err)
	}

	return item, nil
}

// Delete removes the row identified by id.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	if err := r.svc.Delete(ctx, r.collection, id); err != nil {
		return fmt.Errorf("delete %s/%d: %w", r.collection, id, err)
	}
	return nil
}
