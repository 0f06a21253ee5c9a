// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package media turns locally captured photos into durable, access
// controlled attachments: capture, transform, upload, record, and the
// reverse path on deletion.
package media

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Source selects where a photo comes from.
type Source int

const (
	SourceCamera Source = iota
	SourceLibrary
)

// Photo is a local image resource produced by capture or transform.
type Photo struct {
	Path   string
	Width  int
	Height int
}

// Capturer produces a local image resource from the camera or the photo
// library. ok is false when the user cancelled; that is not a failure.
type Capturer interface {
	PickOrCapture(ctx context.Context, source Source) (photo Photo, ok bool, err error)
}

// Transformer produces a resized, re-encoded copy of a photo. The original
// is never mutated.
type Transformer interface {
	Resize(photo Photo, maxEdge, quality int) (Photo, error)
}

// FileCapturer is a desktop stand-in for the device capture utility: it
// "captures" a fixed image file from disk. Used by the CLI and in tests.
type FileCapturer struct {
	Path string
}

func (c *FileCapturer) PickOrCapture(_ context.Context, _ Source) (Photo, bool, error) {
	if c.Path == "" {
		return Photo{}, false, nil
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return Photo{}, false, fmt.Errorf("open capture source: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Photo{}, false, fmt.Errorf("decode capture source: %w", err)
	}

	return Photo{Path: c.Path, Width: cfg.Width, Height: cfg.Height}, true, nil
}
