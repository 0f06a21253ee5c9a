// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package client wires the adapters, repositories, managers and pipelines
// into the application object the presentation layer talks to. Every
// manager and pipeline receives its owner explicitly at construction;
// nothing reads ambient route state.
package client

import (
	"context"
	"fmt"

	"github.com/gozcan/ilkapp/internal/auth"
	"github.com/gozcan/ilkapp/internal/config"
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/internal/media"
	"github.com/gozcan/ilkapp/internal/mutation"
	"github.com/gozcan/ilkapp/internal/notify"
	"github.com/gozcan/ilkapp/internal/remote"
	"github.com/gozcan/ilkapp/internal/repository"
	"github.com/gozcan/ilkapp/internal/storage"
	"github.com/gozcan/ilkapp/models"
)

// App owns the process-wide collaborators: session, adapters, the shared
// signed-URL cache and the notifier. Screen-scoped managers and pipelines
// are built per entity through the factory methods.
type App struct {
	cfg      *config.Config
	logger   *logger.Logger
	notifier notify.Notifier

	Session *auth.Session
	Remote  remote.Service
	Objects storage.ObjectStore
	URLs    *storage.URLCache

	Tasks       *repository.Repository[models.Task]
	Expenses    *repository.Repository[models.Expense]
	Projects    *repository.Repository[models.Project]
	Companies   *repository.Repository[models.Company]
	Attachments *repository.Repository[models.MediaAttachment]

	capturer    media.Capturer
	transformer media.Transformer
}

func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	session := auth.NewSession(cfg.Remote, log.GetChildLogger())

	remoteSvc, err := remote.NewHTTPService(cfg.Remote, session, log.GetChildLogger())
	if err != nil {
		return nil, fmt.Errorf("create remote service: %w", err)
	}

	objects, err := storage.NewHTTPObjectStore(cfg.Storage, session, log.GetChildLogger())
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}

	transformer, err := media.NewImagingTransformer(cfg.Media.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("create media transformer: %w", err)
	}

	return &App{
		cfg:      cfg,
		logger:   log,
		notifier: notify.NewLogNotifier(log.GetChildLogger()),

		Session: session,
		Remote:  remoteSvc,
		Objects: objects,
		URLs:    storage.NewURLCache(objects, cfg.Storage.SignTTL, log.GetChildLogger()),

		Tasks:       repository.NewTaskRepository(remoteSvc),
		Expenses:    repository.NewExpenseRepository(remoteSvc),
		Projects:    repository.NewProjectRepository(remoteSvc),
		Companies:   repository.NewCompanyRepository(remoteSvc),
		Attachments: repository.NewAttachmentRepository(remoteSvc),

		capturer:    &media.FileCapturer{},
		transformer: transformer,
	}, nil
}

// SetCapturer replaces the capture utility (device integration or tests).
func (a *App) SetCapturer(c media.Capturer) { a.capturer = c }

// SetNotifier replaces the outcome notifier (toast/haptic integration).
func (a *App) SetNotifier(n notify.Notifier) { a.notifier = n }

// NewTaskManager builds the optimistic mutation manager for a task screen
// and loads the tasks of the given project.
func (a *App) NewTaskManager(ctx context.Context, projectID int64) (*mutation.Manager[models.Task], error) {
	tasks, err := a.Tasks.List(ctx, remote.Filter{"project_id": projectID})
	if err != nil {
		return nil, err
	}

	m := mutation.NewManager[models.Task](a.Tasks, a.notifier, a.logger.GetChildLogger())
	m.Load(tasks)
	return m, nil
}

// NewExpenseManager builds the optimistic mutation manager for an expense
// screen and loads the expenses of the given task.
func (a *App) NewExpenseManager(ctx context.Context, taskID int64) (*mutation.Manager[models.Expense], error) {
	expenses, err := a.Expenses.List(ctx, remote.Filter{"task_id": taskID})
	if err != nil {
		return nil, err
	}

	m := mutation.NewManager[models.Expense](a.Expenses, a.notifier, a.logger.GetChildLogger())
	m.Load(expenses)
	return m, nil
}

// NewMediaPipeline builds the attachment pipeline for one owning entity.
func (a *App) NewMediaPipeline(owner media.Owner) *media.Pipeline {
	return media.NewPipeline(media.PipelineParams{
		Owner:       owner,
		Session:     a.Session,
		Objects:     a.Objects,
		Records:     a.Attachments,
		Capturer:    a.capturer,
		Transformer: a.transformer,
		URLs:        a.URLs,
		Notifier:    a.notifier,
		Logger:      a.logger.GetChildLogger(),
		MaxEdge:     a.cfg.Media.MaxEdge,
		JPEGQuality: a.cfg.Media.JPEGQuality,
	})
}

// DeleteExpenseWithMedia removes every attachment object of the expense in
// one storage call and only then deletes the expense itself. If any storage
// object cannot be deleted the expense row is kept, so no referenced object
// is ever left inaccessible behind a deleted row.
func (a *App) DeleteExpenseWithMedia(ctx context.Context, expenseID int64) error {
	pipeline := a.NewMediaPipeline(media.Owner{ID: expenseID, Kind: models.KindExpense})
	if err := pipeline.Load(ctx); err != nil {
		return err
	}
	if err := pipeline.PurgeAll(ctx); err != nil {
		return fmt.Errorf("purge expense media: %w", err)
	}

	return a.Expenses.Delete(ctx, expenseID)
}
