// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package validators holds pre-remote validation of user input. Anything
// rejected here never reaches the remote service and never touches local
// state.
package validators

import (
	"strconv"
	"strings"

	"github.com/gozcan/ilkapp/models"
)

// ParseAmount parses a user-entered monetary amount. Both "12.50" and the
// comma-decimal form "12,50" are accepted. Non-numeric and non-positive
// amounts are validation failures.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", ".")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, models.NewFailure(models.FailureValidation, "amount is not a number")
	}
	if value <= 0 {
		return 0, models.NewFailure(models.FailureValidation, "amount must be positive")
	}

	return value, nil
}
