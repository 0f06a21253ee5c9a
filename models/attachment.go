// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package models

import "time"

// MediaAttachment is one uploaded photo owned by a task or an expense.
// StoragePath is immutable once the record is created; SignedURL and
// ExpiresAt form a derived, cacheable view and are never persisted.
type MediaAttachment struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	OwnerKind   EntityKind `json:"owner_kind"`
	StoragePath string     `json:"storage_path"`
	CreatorID   int64      `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`

	SignedURL string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// AttachmentDraft is the payload inserted after a successful upload; the
// record only becomes visible to the rest of the system once this row
// exists.
type AttachmentDraft struct {
	OwnerID     int64      `json:"owner_id"`
	OwnerKind   EntityKind `json:"owner_kind"`
	StoragePath string     `json:"storage_path"`
	CreatorID   int64      `json:"creator_id"`
}
