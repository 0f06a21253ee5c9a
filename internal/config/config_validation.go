// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package config

// validate checks that the merged [Config] satisfies the invariants the
// client relies on at startup.
func (cfg *Config) validate() error {
	if cfg.Remote.BaseURL == "" || cfg.Remote.RequestTimeout <= 0 {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Storage.BaseURL == "" || cfg.Storage.Bucket == "" || cfg.Storage.SignTTL <= 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.Media.MaxEdge <= 0 || cfg.Media.JPEGQuality <= 0 || cfg.Media.JPEGQuality > 100 {
		return ErrInvalidMediaConfigs
	}

	return nil
}
