// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ImagingTransformer implements [Transformer] with disintegration/imaging.
// Transformed copies are written as JPEG into workDir; the source file is
// left untouched.
type ImagingTransformer struct {
	workDir string
}

func NewImagingTransformer(workDir string) (*ImagingTransformer, error) {
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "ilkapp-media")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media work dir: %w", err)
	}

	return &ImagingTransformer{workDir: workDir}, nil
}

// Resize clamps the longer edge of photo to maxEdge pixels, preserving the
// aspect ratio, and re-encodes at the given JPEG quality. Images already
// within the limit are only re-encoded.
func (t *ImagingTransformer) Resize(photo Photo, maxEdge, quality int) (Photo, error) {
	img, err := imaging.Open(photo.Path)
	if err != nil {
		return Photo{}, fmt.Errorf("open image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxEdge || height > maxEdge {
		if width >= height {
			img = imaging.Resize(img, maxEdge, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxEdge, imaging.Lanczos)
		}
	}

	out := filepath.Join(t.workDir, uuid.NewString()+".jpg")
	if err := imaging.Save(img, out, imaging.JPEGQuality(quality)); err != nil {
		return Photo{}, fmt.Errorf("save transformed image: %w", err)
	}

	resized := img.Bounds()
	return Photo{Path: out, Width: resized.Dx(), Height: resized.Dy()}, nil
}
