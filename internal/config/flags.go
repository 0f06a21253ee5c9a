// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package config

import (
	"flag"
	"time"
)

// parseFlags parses the command-line configuration flags.
//
// Flags:
//
//	-remote-url remote data service base URL
//	-storage-url object storage base URL
//	-bucket storage bucket for attachment objects
//	-request-timeout request timeout (e.g. "30s", "1m")
//	-sign-ttl signed URL validity window (e.g. "1h")
//	-c/-config json file path with configs
func parseFlags() *Config {
	var remoteURL string
	var storageURL string
	var bucket string
	var requestTimeout time.Duration
	var signTTL time.Duration
	var jsonConfigPath string

	flag.StringVar(&remoteURL, "remote-url", "", "Remote data service base URL")
	flag.StringVar(&storageURL, "storage-url", "", "Object storage base URL")
	flag.StringVar(&bucket, "bucket", "", "Storage bucket for attachments")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&signTTL, "sign-ttl", 0, "Signed URL validity (e.g., 1h)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &Config{
		Remote: Remote{
			BaseURL:        remoteURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			BaseURL: storageURL,
			Bucket:  bucket,
			SignTTL: signTTL,
		},
		jsonFilePath: jsonConfigPath,
	}
}
