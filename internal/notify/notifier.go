// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package notify defines the outcome-notification surface the core reports
// to. The presentation layer plugs in its toast/haptic implementation; the
// default writes structured log lines.
package notify

import (
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/models"
)

// Notifier presents operation outcomes to the user. Every failed operation
// produces exactly one Failed call with a short category label and the
// underlying message; no failure is silent.
type Notifier interface {
	Succeeded(operation string)
	Failed(operation string, kind models.FailureKind, message string)
}

// LogNotifier is the default [Notifier]; it reports outcomes through the
// application logger.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Succeeded(operation string) {
	n.logger.Info().Str("operation", operation).Msg("operation succeeded")
}

func (n *LogNotifier) Failed(operation string, kind models.FailureKind, message string) {
	n.logger.Warn().
		Str("operation", operation).
		Str("kind", string(kind)).
		Str("message", message).
		Msg("operation failed")
}
