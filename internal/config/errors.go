// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package config

import "errors"

var (
	ErrInvalidRemoteConfigs  = errors.New("invalid remote service configs")
	ErrInvalidStorageConfigs = errors.New("invalid object storage configs")
	ErrInvalidMediaConfigs   = errors.New("invalid media configs")
)
