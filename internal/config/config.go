// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package config loads and merges the layered client configuration:
// defaults, optional JSON file, environment variables and command-line
// flags. Later layers win; merging is done with mergo.
package config

import "time"

// App groups application-level settings.
type App struct {
	// LogRole is the role label attached to every log entry.
	LogRole string `env:"ILKAPP_LOG_ROLE" json:"log_role"`
}

// Remote holds settings for the remote data service adapter.
type Remote struct {
	// BaseURL is the root endpoint of the remote data service.
	BaseURL string `env:"ILKAPP_REMOTE_URL" json:"remote_url"`
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration `env:"ILKAPP_REQUEST_TIMEOUT" json:"request_timeout"`
}

// Storage holds settings for the object-storage adapter.
type Storage struct {
	// BaseURL is the root endpoint of the object storage service.
	BaseURL string `env:"ILKAPP_STORAGE_URL" json:"storage_url"`
	// Bucket is the storage bucket holding attachment objects.
	Bucket string `env:"ILKAPP_STORAGE_BUCKET" json:"storage_bucket"`
	// SignTTL is the validity window requested for signed URLs.
	SignTTL time.Duration `env:"ILKAPP_SIGN_TTL" json:"sign_ttl"`
}

// Media holds settings for the capture/transform step.
type Media struct {
	// MaxEdge is the pixel limit applied to the longer image edge.
	MaxEdge int `env:"ILKAPP_MEDIA_MAX_EDGE" json:"media_max_edge"`
	// JPEGQuality is the re-encode quality factor (1-100).
	JPEGQuality int `env:"ILKAPP_MEDIA_JPEG_QUALITY" json:"media_jpeg_quality"`
	// WorkDir is where transformed copies are written before upload.
	WorkDir string `env:"ILKAPP_MEDIA_WORK_DIR" json:"media_work_dir"`
}

// Config is the top-level client configuration assembled by the builder.
type Config struct {
	App     App     `json:"app"`
	Remote  Remote  `json:"remote"`
	Storage Storage `json:"storage"`
	Media   Media   `json:"media"`

	jsonFilePath string
}

func defaults() *Config {
	return &Config{
		App:    App{LogRole: "ilkapp-client"},
		Remote: Remote{RequestTimeout: 15 * time.Second},
		Storage: Storage{
			Bucket:  "attachments",
			SignTTL: time.Hour,
		},
		Media: Media{
			MaxEdge:     1600,
			JPEGQuality: 80,
		},
	}
}

// Load builds the merged configuration: flags over env over JSON file over
// defaults, then validates the result.
func Load() (*Config, error) {
	return newConfigBuilder().
		withFlags().
		withEnv().
		withJSON().
		withDefaults().
		build()
}
