// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", raw: `"30s"`, want: 30 * time.Second},
		{name: "composite", raw: `"1h30m"`, want: 90 * time.Minute},
		{name: "empty is zero", raw: `""`, want: 0},
		{name: "bare number rejected", raw: `30`, wantErr: true},
		{name: "garbage rejected", raw: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.raw), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"log_role": "file-role"},
		"remote": {"remote_url": "https://api.example.com", "request_timeout": "30s"},
		"storage": {"storage_url": "https://storage.example.com", "storage_bucket": "photos", "sign_ttl": "2h"},
		"media": {"media_max_edge": 1200, "media_jpeg_quality": 75}
	}`), 0o644))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "file-role", cfg.App.LogRole)
	assert.Equal(t, "https://api.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "photos", cfg.Storage.Bucket)
	assert.Equal(t, 2*time.Hour, cfg.Storage.SignTTL)
	assert.Equal(t, 1200, cfg.Media.MaxEdge)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestBuild_FirstLayerWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&Config{Remote: Remote{BaseURL: "https://flag.example.com"}},
		&Config{
			Remote:  Remote{BaseURL: "https://file.example.com", RequestTimeout: 30 * time.Second},
			Storage: Storage{BaseURL: "https://storage.example.com"},
		},
		defaults(),
	)

	cfg, err := b.build()
	require.NoError(t, err)

	// The first layer providing a value wins; holes fall through.
	assert.Equal(t, "https://flag.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "attachments", cfg.Storage.Bucket)
	assert.Equal(t, 1600, cfg.Media.MaxEdge)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.Remote.BaseURL = "https://api.example.com"
		cfg.Storage.BaseURL = "https://storage.example.com"
		return cfg
	}
	require.NoError(t, valid().validate())

	tests := []struct {
		name   string
		mutate func(cfg *Config)
		want   error
	}{
		{name: "missing remote url", mutate: func(c *Config) { c.Remote.BaseURL = "" }, want: ErrInvalidRemoteConfigs},
		{name: "zero timeout", mutate: func(c *Config) { c.Remote.RequestTimeout = 0 }, want: ErrInvalidRemoteConfigs},
		{name: "missing bucket", mutate: func(c *Config) { c.Storage.Bucket = "" }, want: ErrInvalidStorageConfigs},
		{name: "zero sign ttl", mutate: func(c *Config) { c.Storage.SignTTL = 0 }, want: ErrInvalidStorageConfigs},
		{name: "zero max edge", mutate: func(c *Config) { c.Media.MaxEdge = 0 }, want: ErrInvalidMediaConfigs},
		{name: "quality above 100", mutate: func(c *Config) { c.Media.JPEGQuality = 101 }, want: ErrInvalidMediaConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.validate(), tt.want)
		})
	}
}
