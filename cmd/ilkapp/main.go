// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package main

import (
	"context"
	"os"

	"github.com/gozcan/ilkapp/internal/client"
	"github.com/gozcan/ilkapp/internal/config"
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("ilkapp-client").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger(cfg.App.LogRole)

	app, err := client.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create app")
	}

	ctx := context.Background()

	email := os.Getenv("ILKAPP_EMAIL")
	password := os.Getenv("ILKAPP_PASSWORD")
	if err = app.Session.SignIn(ctx, email, password); err != nil {
		log.Fatal().Err(err).Msg("sign in")
	}

	companies, err := app.Companies.List(ctx, remote.Filter{})
	if err != nil {
		log.Fatal().Err(err).Msg("list companies")
	}
	for _, company := range companies {
		log.Info().Int64("id", company.ID).Str("name", company.Name).Msg("company")
	}
}
