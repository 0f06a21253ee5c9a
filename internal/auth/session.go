// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

// Package auth holds the client session: signing in against the remote
// service and exposing the current bearer credential to the adapters and
// the media pipeline.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gozcan/ilkapp/internal/config"
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/models"
)

// SessionProvider supplies the bearer credential and user identity for
// authenticated operations. The boolean is false when nobody is signed in.
type SessionProvider interface {
	CurrentCredential() (models.Credential, bool)
}

// Session implements [SessionProvider] backed by the remote service's auth
// endpoint. It is safe for concurrent use.
type Session struct {
	client *resty.Client
	logger *logger.Logger

	mu   sync.RWMutex
	cred models.Credential
}

func NewSession(cfg config.Remote, logger *logger.Logger) *Session {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &Session{client: client, logger: logger}
}

// SignIn authenticates against POST /api/auth/login. On success the bearer
// token is taken from the Authorization response header and the user id is
// parsed from the token's subject claim.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return models.NewFailure(models.FailureUnauthorized, strings.TrimSpace(string(resp.Body())))
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return models.NewFailure(models.FailureNetwork,
			fmt.Sprintf("http %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body()))))
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("login parse bearer token: %w", err)
	}
	userID, err := parseUserIDFromJWT(token)
	if err != nil {
		return fmt.Errorf("login parse user id: %w", err)
	}

	s.mu.Lock()
	s.cred = models.Credential{Token: token, UserID: userID}
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", userID).Msg("signed in")
	return nil
}

// SignOut discards the stored credential.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.cred = models.Credential{}
	s.mu.Unlock()
}

// CurrentCredential implements [SessionProvider].
func (s *Session) CurrentCredential() (models.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.cred.Token != ""
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func parseUserIDFromJWT(tokenString string) (int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, err
	}
	return id, nil
}
