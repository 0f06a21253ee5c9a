// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package models

import "time"

// Credential is the bearer token and identity supplied by the session
// provider. Both the remote data service and the object storage service
// authenticate requests with it.
type Credential struct {
	Token  string
	UserID int64
}

// SignedURL is a short-lived authorized retrieval link for a private
// storage object.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}
