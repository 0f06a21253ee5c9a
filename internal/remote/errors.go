// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package remote

import "errors"

var ErrMissingCredential = errors.New("no credential for authenticated request")
