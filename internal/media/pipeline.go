// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gozcan/ilkapp/internal/auth"
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/internal/notify"
	"github.com/gozcan/ilkapp/internal/remote"
	"github.com/gozcan/ilkapp/internal/storage"
	"github.com/gozcan/ilkapp/models"
)

// ErrCancelled is returned when the user dismissed the capture dialog.
// It is not a failure and produces no notification.
var ErrCancelled = errors.New("capture cancelled")

// RecordStore is the repository surface for the attachment-record
// collection. repository.Repository[models.MediaAttachment] satisfies it.
type RecordStore interface {
	List(ctx context.Context, filter remote.Filter) ([]models.MediaAttachment, error)
	Create(ctx context.Context, draft any) (models.MediaAttachment, error)
	Delete(ctx context.Context, id int64) error
}

// Owner identifies the entity the pipeline attaches media to. It is passed
// explicitly at construction; the pipeline never reads ambient route state.
type Owner struct {
	ID   int64
	Kind models.EntityKind
}

// PipelineParams collects the collaborators of a [Pipeline].
type PipelineParams struct {
	Owner       Owner
	Session     auth.SessionProvider
	Objects     storage.ObjectStore
	Records     RecordStore
	Capturer    Capturer
	Transformer Transformer
	URLs        *storage.URLCache
	Notifier    notify.Notifier
	Logger      *logger.Logger

	// MaxEdge and JPEGQuality bound the transform step; zero values take
	// the defaults (1600 px, quality 80).
	MaxEdge     int
	JPEGQuality int
}

// Pipeline owns the in-memory attachment list of one entity and drives the
// capture -> transform -> upload -> record flow, and its reversal on
// deletion.
type Pipeline struct {
	owner       Owner
	session     auth.SessionProvider
	objects     storage.ObjectStore
	records     RecordStore
	capturer    Capturer
	transformer Transformer
	urls        *storage.URLCache
	notifier    notify.Notifier
	logger      *logger.Logger
	maxEdge     int
	quality     int

	mu          sync.Mutex
	attachments []models.MediaAttachment
	observers   []func([]models.MediaAttachment)
}

func NewPipeline(p PipelineParams) *Pipeline {
	if p.MaxEdge <= 0 {
		p.MaxEdge = 1600
	}
	if p.JPEGQuality <= 0 {
		p.JPEGQuality = 80
	}

	return &Pipeline{
		owner:       p.Owner,
		session:     p.Session,
		objects:     p.Objects,
		records:     p.Records,
		capturer:    p.Capturer,
		transformer: p.Transformer,
		urls:        p.URLs,
		notifier:    p.Notifier,
		logger:      p.Logger,
		maxEdge:     p.MaxEdge,
		quality:     p.JPEGQuality,
	}
}

// Load fetches the attachment records of the owner and publishes them.
func (p *Pipeline) Load(ctx context.Context) error {
	atts, err := p.records.List(ctx, remote.Filter{
		"owner_id":   p.owner.ID,
		"owner_kind": p.owner.Kind,
	})
	if err != nil {
		return fmt.Errorf("load attachments: %w", err)
	}

	p.mu.Lock()
	p.attachments = atts
	p.mu.Unlock()

	p.publish()
	return nil
}

// Snapshot returns a copy of the current attachment list.
func (p *Pipeline) Snapshot() []models.MediaAttachment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.attachments)
}

// Subscribe registers an observer; it is immediately called with the
// current snapshot.
func (p *Pipeline) Subscribe(fn func([]models.MediaAttachment)) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	snapshot := slices.Clone(p.attachments)
	p.mu.Unlock()

	fn(snapshot)
}

// Attach captures a photo, transforms it, uploads the transformed bytes and
// inserts the attachment record. The record insert only runs after a
// successful upload, so a record always references an existing object.
//
// Returns [ErrCancelled] without a notification if the user dismissed the
// capture dialog. A missing credential is a fatal precondition failure for
// this operation and is not retried.
func (p *Pipeline) Attach(ctx context.Context, source Source) (models.MediaAttachment, error) {
	cred, ok := p.session.CurrentCredential()
	if !ok {
		failure := models.NewFailure(models.FailurePrecondition, "not signed in")
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, failure
	}

	photo, ok, err := p.capturer.PickOrCapture(ctx, source)
	if err != nil {
		failure := models.AsFailure(err)
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, err
	}
	if !ok {
		return models.MediaAttachment{}, ErrCancelled
	}
	p.logger.Debug().Str("stage", StageCaptured.String()).Str("path", photo.Path).Msg("photo captured")

	transformed, err := p.transformer.Resize(photo, p.maxEdge, p.quality)
	if err != nil {
		failure := models.AsFailure(err)
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, fmt.Errorf("transform photo: %w", err)
	}
	p.logger.Debug().Str("stage", StageTransformed.String()).
		Int("width", transformed.Width).Int("height", transformed.Height).
		Msg("photo transformed")

	data, err := os.ReadFile(transformed.Path)
	if err != nil {
		failure := models.AsFailure(err)
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, fmt.Errorf("read transformed photo: %w", err)
	}

	path := p.storagePath(cred.UserID)
	p.logger.Debug().Str("stage", StageUploading.String()).Str("storage_path", path).Msg("uploading")

	if err = p.objects.Upload(ctx, path, data, "image/jpeg"); err != nil {
		p.logger.Warn().Str("stage", StageUploadFailed.String()).Str("storage_path", path).Err(err).
			Msg("upload failed, no record inserted")
		failure := models.AsFailure(err)
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, fmt.Errorf("upload photo: %w", err)
	}
	p.logger.Debug().Str("stage", StageUploaded.String()).Str("storage_path", path).Msg("uploaded")

	att, err := p.insertRecord(ctx, cred, path)
	if err != nil {
		// The object stays addressable at path; RetryRecord can finish the
		// job without re-uploading.
		p.logger.Warn().Str("stage", StageRecordFailed.String()).Str("storage_path", path).Err(err).
			Msg("record insert failed, object left in storage")
		failure := models.AsFailure(err)
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, fmt.Errorf("record attachment: %w", err)
	}
	p.logger.Debug().Str("stage", StageRecorded.String()).Int64("attachment_id", att.ID).Msg("recorded")

	p.mu.Lock()
	p.attachments = append(p.attachments, att)
	p.mu.Unlock()

	p.publish()
	p.notifier.Succeeded("attach photo")
	return att, nil
}

// RetryRecord retries only the record-insert step for an object that was
// uploaded but whose record insert failed.
func (p *Pipeline) RetryRecord(ctx context.Context, storagePath string) (models.MediaAttachment, error) {
	cred, ok := p.session.CurrentCredential()
	if !ok {
		failure := models.NewFailure(models.FailurePrecondition, "not signed in")
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, failure
	}

	att, err := p.insertRecord(ctx, cred, storagePath)
	if err != nil {
		failure := models.AsFailure(err)
		p.notifier.Failed("attach photo", failure.Kind, failure.Message)
		return models.MediaAttachment{}, fmt.Errorf("record attachment: %w", err)
	}

	p.mu.Lock()
	p.attachments = append(p.attachments, att)
	p.mu.Unlock()

	p.publish()
	p.notifier.Succeeded("attach photo")
	return att, nil
}

func (p *Pipeline) insertRecord(ctx context.Context, cred models.Credential, storagePath string) (models.MediaAttachment, error) {
	return p.records.Create(ctx, models.AttachmentDraft{
		OwnerID:     p.owner.ID,
		OwnerKind:   p.owner.Kind,
		StoragePath: storagePath,
		CreatorID:   cred.UserID,
	})
}

// Detach removes the attachment: it disappears from the in-memory list
// immediately, then the storage object is deleted, then the record. A
// storage-delete failure restores the item and leaves the record untouched.
// A record-delete failure after storage success keeps the removal; the
// stale row is left for background reconciliation rather than re-inserting
// the blob.
func (p *Pipeline) Detach(ctx context.Context, attachmentID int64) error {
	p.mu.Lock()
	i := slices.IndexFunc(p.attachments, func(a models.MediaAttachment) bool { return a.ID == attachmentID })
	if i < 0 {
		p.mu.Unlock()
		return models.NewFailure(models.FailureNotFound, "attachment not found")
	}
	att := p.attachments[i]
	p.attachments = slices.Delete(p.attachments, i, i+1)
	p.mu.Unlock()

	p.publish()

	if err := p.objects.Remove(ctx, []string{att.StoragePath}); err != nil {
		p.mu.Lock()
		if i > len(p.attachments) {
			i = len(p.attachments)
		}
		p.attachments = slices.Insert(p.attachments, i, att)
		p.mu.Unlock()

		p.publish()
		failure := models.AsFailure(err)
		p.notifier.Failed("delete photo", failure.Kind, failure.Message)
		return fmt.Errorf("delete storage object: %w", err)
	}

	p.urls.Evict(att.ID)

	if err := p.records.Delete(ctx, att.ID); err != nil {
		p.logger.Warn().Int64("attachment_id", att.ID).Err(err).
			Msg("record delete failed after storage delete, row left orphaned")
		failure := models.AsFailure(err)
		p.notifier.Failed("delete photo", failure.Kind, failure.Message)
		return fmt.Errorf("delete attachment record: %w", err)
	}

	p.notifier.Succeeded("delete photo")
	return nil
}

// PurgeAll deletes every storage object of the owner in one collection
// call. It returns an error if storage deletion fails, in which case the
// caller must not delete the owning entity. Record-delete failures after
// storage success do not block the caller; the stale rows are surfaced and
// left for background reconciliation.
func (p *Pipeline) PurgeAll(ctx context.Context) error {
	p.mu.Lock()
	atts := slices.Clone(p.attachments)
	p.mu.Unlock()

	if len(atts) == 0 {
		return nil
	}

	paths := make([]string, 0, len(atts))
	for _, att := range atts {
		paths = append(paths, att.StoragePath)
	}

	if err := p.objects.Remove(ctx, paths); err != nil {
		failure := models.AsFailure(err)
		p.notifier.Failed("delete photos", failure.Kind, failure.Message)
		return fmt.Errorf("delete storage objects: %w", err)
	}

	p.mu.Lock()
	p.attachments = nil
	p.mu.Unlock()
	p.publish()

	var recordErr error
	for _, att := range atts {
		p.urls.Evict(att.ID)
		if err := p.records.Delete(ctx, att.ID); err != nil {
			p.logger.Warn().Int64("attachment_id", att.ID).Err(err).
				Msg("record delete failed after storage delete, row left orphaned")
			if recordErr == nil {
				recordErr = err
			}
		}
	}
	if recordErr != nil {
		failure := models.AsFailure(recordErr)
		p.notifier.Failed("delete photos", failure.Kind, failure.Message)
		return nil
	}

	p.notifier.Succeeded("delete photos")
	return nil
}

// ResolveURL returns a signed retrieval URL for the attachment, served from
// the process-wide cache when still valid.
func (p *Pipeline) ResolveURL(ctx context.Context, attachmentID int64) (string, error) {
	p.mu.Lock()
	i := slices.IndexFunc(p.attachments, func(a models.MediaAttachment) bool { return a.ID == attachmentID })
	if i < 0 {
		p.mu.Unlock()
		return "", models.NewFailure(models.FailureNotFound, "attachment not found")
	}
	att := p.attachments[i]
	p.mu.Unlock()

	return p.urls.Resolve(ctx, att)
}

// ResolveAllURLs resolves signed URLs for every attachment of the owner
// with concurrent dispatch and join.
func (p *Pipeline) ResolveAllURLs(ctx context.Context) (map[int64]string, error) {
	p.mu.Lock()
	atts := slices.Clone(p.attachments)
	p.mu.Unlock()

	return p.urls.ResolveAll(ctx, atts)
}

// storagePath derives the object path: a prefix deterministic in uploader
// and owner, and a suffix unique per upload so concurrent uploads by the
// same user for the same owner never collide.
func (p *Pipeline) storagePath(uploaderID int64) string {
	token := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d/%d/%d-%s.jpg", uploaderID, p.owner.ID, time.Now().UnixNano(), token)
}

func (p *Pipeline) publish() {
	p.mu.Lock()
	observers := slices.Clone(p.observers)
	snapshot := slices.Clone(p.attachments)
	p.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
