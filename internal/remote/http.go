// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gozcan/ilkapp/internal/config"
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/models"
)

type httpService struct {
	client *resty.Client
	creds  CredentialSource
	logger *logger.Logger
}

// NewHTTPService constructs the HTTP/REST implementation of [Service]. It
// normalises and validates the base URL from cfg.BaseURL and configures the
// underlying client with the resolved base URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPService(cfg config.Remote, creds CredentialSource, logger *logger.Logger) (Service, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpService{client: client, creds: creds, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Select implements [Service]. It GETs /api/{collection} with the filter
// encoded as query parameters and decodes the response into raw rows.
func (h *httpService) Select(ctx context.Context, collection string, filter Filter, order Order) ([]json.RawMessage, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	for column, value := range filter {
		req.SetQueryParam(column, fmt.Sprint(value))
	}
	if order.Column != "" {
		direction := "asc"
		if order.Descending {
			direction = "desc"
		}
		req.SetQueryParam("order", order.Column+"."+direction)
	}

	resp, err := req.Get("/api/" + collection)
	if err != nil {
		return nil, fmt.Errorf("select %s request: %w", collection, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err = json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("decode select %s response: %w", collection, err)
	}

	return rows, nil
}

// Insert implements [Service]. It POSTs fields to /api/{collection} and
// returns the stored row with the server-assigned id and timestamps.
func (h *httpService) Insert(ctx context.Context, collection string, fields any) (json.RawMessage, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(fields).
		Post("/api/" + collection)
	if err != nil {
		return nil, fmt.Errorf("insert %s request: %w", collection, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body()), nil
}

// Update implements [Service]. It PATCHes the partial fields to
// /api/{collection}/{id} and returns the authoritative updated row,
// including server-recomputed timestamps.
func (h *httpService) Update(ctx context.Context, collection string, id int64, fields any) (json.RawMessage, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(fields).
		Patch("/api/" + collection + "/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("update %s/%d request: %w", collection, id, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body()), nil
}

// Delete implements [Service]. It sends DELETE /api/{collection}/{id}.
func (h *httpService) Delete(ctx context.Context, collection string, id int64) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete("/api/" + collection + "/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("delete %s/%d request: %w", collection, id, err)
	}

	return mapHTTPError(resp)
}

func (h *httpService) authedRequest(ctx context.Context) (*resty.Request, error) {
	cred, ok := h.creds.CurrentCredential()
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrMissingCredential,
			models.NewFailure(models.FailureUnauthorized, "not signed in"))
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+cred.Token), nil
}
