// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package media

// Stage is the lifecycle position of one attachment-in-progress.
//
// Captured -> Transformed -> Uploading -> Uploaded -> Recorded is the
// success path. UploadFailed and RecordFailed are terminal failures:
// UploadFailed inserts no record (partially written bytes are orphaned for
// out-of-band cleanup), RecordFailed leaves the uploaded object in storage
// at its deterministic path so a retry of the record insert alone can
// succeed without re-uploading.
type Stage int

const (
	StageCaptured Stage = iota
	StageTransformed
	StageUploading
	StageUploaded
	StageRecorded
	StageUploadFailed
	StageRecordFailed
)

func (s Stage) String() string {
	switch s {
	case StageCaptured:
		return "captured"
	case StageTransformed:
		return "transformed"
	case StageUploading:
		return "uploading"
	case StageUploaded:
		return "uploaded"
	case StageRecorded:
		return "recorded"
	case StageUploadFailed:
		return "upload_failed"
	case StageRecordFailed:
		return "record_failed"
	default:
		return "unknown"
	}
}
