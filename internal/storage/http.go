// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gozcan/ilkapp/internal/config"
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/models"
)

var ErrMissingCredential = errors.New("no credential for storage request")

type httpObjectStore struct {
	client *resty.Client
	bucket string
	creds  CredentialSource
	logger *logger.Logger
}

// NewHTTPObjectStore constructs the HTTP implementation of [ObjectStore]
// against cfg.BaseURL, scoped to cfg.Bucket.
func NewHTTPObjectStore(cfg config.Storage, creds CredentialSource, logger *logger.Logger) (ObjectStore, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("empty storage address")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid storage base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("storage address must include host and scheme")
	}

	client := resty.New().SetBaseURL(strings.TrimRight(u.String(), "/"))

	return &httpObjectStore{client: client, bucket: cfg.Bucket, creds: creds, logger: logger}, nil
}

// Upload implements [ObjectStore]. It POSTs the raw bytes to
// POST /object/{bucket}/{path} with the bearer credential attached.
func (s *httpObjectStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	req, err := s.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Post("/object/" + s.bucket + "/" + path)
	if err != nil {
		return fmt.Errorf("upload object request: %w", err)
	}

	return mapStorageError(resp)
}

// Remove implements [ObjectStore]. It deletes all paths in one call via
// DELETE /object/{bucket} so a batch removal is a single round-trip.
func (s *httpObjectStore) Remove(ctx context.Context, paths []string) error {
	req, err := s.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": paths}).
		Delete("/object/" + s.bucket)
	if err != nil {
		return fmt.Errorf("remove objects request: %w", err)
	}

	return mapStorageError(resp)
}

type signResponse struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Sign implements [ObjectStore]. It requests a signed retrieval URL valid
// for ttl via POST /object/sign/{bucket}/{path}. If the service does not
// echo an expiry instant, issuance time plus ttl is used.
func (s *httpObjectStore) Sign(ctx context.Context, path string, ttl time.Duration) (models.SignedURL, error) {
	req, err := s.authedRequest(ctx)
	if err != nil {
		return models.SignedURL{}, err
	}

	issued := time.Now()
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]int64{"expires_in": int64(ttl.Seconds())}).
		Post("/object/sign/" + s.bucket + "/" + path)
	if err != nil {
		return models.SignedURL{}, fmt.Errorf("sign object request: %w", err)
	}
	if err = mapStorageError(resp); err != nil {
		return models.SignedURL{}, err
	}

	var sr signResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return models.SignedURL{}, fmt.Errorf("decode sign response: %w", err)
	}

	expiresAt := issued.Add(ttl)
	if sr.ExpiresAt != nil {
		expiresAt = *sr.ExpiresAt
	}

	return models.SignedURL{URL: sr.URL, ExpiresAt: expiresAt}, nil
}

func (s *httpObjectStore) authedRequest(ctx context.Context) (*resty.Request, error) {
	cred, ok := s.creds.CurrentCredential()
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrMissingCredential,
			models.NewFailure(models.FailureUnauthorized, "not signed in"))
	}

	return s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+cred.Token), nil
}

// mapStorageError translates a non-2xx storage response into a
// *models.Failure carrying the status code and the service message.
func mapStorageError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	message := fmt.Sprintf("storage %d: %s", resp.StatusCode(), body)

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return models.NewFailure(models.FailureUnauthorized, message)
	case http.StatusForbidden:
		return models.NewFailure(models.FailurePermission, message)
	case http.StatusNotFound:
		return models.NewFailure(models.FailureNotFound, message)
	default:
		return models.NewFailure(models.FailureNetwork, message)
	}
}
