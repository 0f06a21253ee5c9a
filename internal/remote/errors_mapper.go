// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package remote

import (
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gozcan/ilkapp/models"
)

// mapHTTPError translates a non-2xx response into a *models.Failure whose
// kind the mutation and media layers switch on. The remote service's own
// message is preserved so it can be surfaced to the user verbatim.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return models.NewFailure(models.FailureValidation, body)
	case http.StatusUnauthorized:
		return models.NewFailure(models.FailureUnauthorized, body)
	case http.StatusForbidden:
		return models.NewFailure(models.FailurePermission, body)
	case http.StatusNotFound:
		return models.NewFailure(models.FailureNotFound, body)
	case http.StatusConflict:
		return models.NewFailure(models.FailureConflict, body)
	default:
		return models.NewFailure(models.FailureNetwork, body)
	}
}
