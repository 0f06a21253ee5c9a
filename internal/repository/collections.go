// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package repository

import (
	"github.com/gozcan/ilkapp/internal/remote"
	"github.com/gozcan/ilkapp/models"
)

// Collection names on the remote data service.
const (
	CollectionTasks       = "tasks"
	CollectionExpenses    = "expenses"
	CollectionProjects    = "projects"
	CollectionCompanies   = "companies"
	CollectionAttachments = "media_attachments"
)

func NewTaskRepository(svc remote.Service) *Repository[models.Task] {
	return New[models.Task](svc, CollectionTasks, remote.Order{Column: "created_at", Descending: true})
}

func NewExpenseRepository(svc remote.Service) *Repository[models.Expense] {
	return New[models.Expense](svc, CollectionExpenses, remote.Order{Column: "spent_date", Descending: true})
}

func NewProjectRepository(svc remote.Service) *Repository[models.Project] {
	return New[models.Project](svc, CollectionProjects, remote.Order{Column: "name"})
}

func NewCompanyRepository(svc remote.Service) *Repository[models.Company] {
	return New[models.Company](svc, CollectionCompanies, remote.Order{Column: "name"})
}

func NewAttachmentRepository(svc remote.Service) *Repository[models.MediaAttachment] {
	return New[models.MediaAttachment](svc, CollectionAttachments, remote.Order{Column: "created_at"})
}
