// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors [Config] with string durations so operators can write
// "30s" / "1h" in the file.
type jsonConfig struct {
	App struct {
		LogRole string `json:"log_role"`
	} `json:"app,omitempty"`

	Remote struct {
		BaseURL        string   `json:"remote_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	Storage struct {
		BaseURL string   `json:"storage_url"`
		Bucket  string   `json:"storage_bucket"`
		SignTTL Duration `json:"sign_ttl"`
	} `json:"storage,omitempty"`

	Media struct {
		MaxEdge     int    `json:"media_max_edge"`
		JPEGQuality int    `json:"media_jpeg_quality"`
		WorkDir     string `json:"media_work_dir"`
	} `json:"media,omitempty"`
}

// Duration is a time.Duration that unmarshals from a JSON string like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg jsonConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &Config{
		App: App{LogRole: jsonCfg.App.LogRole},
		Remote: Remote{
			BaseURL:        jsonCfg.Remote.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		Storage: Storage{
			BaseURL: jsonCfg.Storage.BaseURL,
			Bucket:  jsonCfg.Storage.Bucket,
			SignTTL: time.Duration(jsonCfg.Storage.SignTTL),
		},
		Media: Media{
			MaxEdge:     jsonCfg.Media.MaxEdge,
			JPEGQuality: jsonCfg.Media.JPEGQuality,
			WorkDir:     jsonCfg.Media.WorkDir,
		},
	}, nil
}
