// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package validators

import (
	"slices"
	"strings"

	"github.com/gozcan/ilkapp/models"
)

// ValidateTaskDraft checks a task draft before any remote call.
func ValidateTaskDraft(draft models.TaskDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return models.NewFailure(models.FailureValidation, "title must not be empty")
	}
	if draft.ProjectID <= 0 {
		return models.NewFailure(models.FailureValidation, "task must belong to a project")
	}
	if !slices.Contains(models.AllowedTaskStatuses, draft.Status) {
		return models.NewFailure(models.FailureValidation, "unknown task status")
	}

	return nil
}

// ValidateExpenseDraft checks an expense draft before any remote call.
func ValidateExpenseDraft(draft models.ExpenseDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return models.NewFailure(models.FailureValidation, "title must not be empty")
	}
	if draft.TaskID <= 0 {
		return models.NewFailure(models.FailureValidation, "expense must belong to a task")
	}
	if draft.Amount <= 0 {
		return models.NewFailure(models.FailureValidation, "amount must be positive")
	}
	if len(draft.Currency) != 3 {
		return models.NewFailure(models.FailureValidation, "currency must be a 3-letter code")
	}
	if draft.SpentDate.IsZero() {
		return models.NewFailure(models.FailureValidation, "spent date is required")
	}

	return nil
}
