// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gozcan/ilkapp/internal/config"
	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCreds struct {
	cred models.Credential
}

func (c *staticCreds) CurrentCredential() (models.Credential, bool) {
	return c.cred, c.cred.Token != ""
}

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewHTTPService(
		config.Remote{BaseURL: server.URL, RequestTimeout: 5 * time.Second},
		&staticCreds{cred: models.Credential{Token: "test-token", UserID: 1}},
		logger.Nop(),
	)
	require.NoError(t, err)
	return svc
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "full url kept", raw: "https://api.example.com", want: "https://api.example.com"},
		{name: "scheme added", raw: "api.example.com:8080", want: "http://api.example.com:8080"},
		{name: "trailing slash trimmed", raw: "https://api.example.com/", want: "https://api.example.com"},
		{name: "empty rejected", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPService_Select_EncodesFilterAndOrder(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "12", r.URL.Query().Get("project_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})

	rows, err := svc.Select(context.Background(), "tasks",
		Filter{"project_id": int64(12)},
		Order{Column: "created_at", Descending: true},
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `{"id":1}`, string(rows[0]))
}

func TestHTTPService_Insert_ReturnsStoredRow(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"title":"new"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"title":"new"}`))
	})

	row, err := svc.Insert(context.Background(), "tasks", map[string]any{"title": "new"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"title":"new"}`, string(row))
}

func TestHTTPService_Update_PatchesByID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/tasks/7", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"doing"}`, string(body))

		_, _ = w.Write([]byte(`{"id":7,"status":"doing"}`))
	})

	row, err := svc.Update(context.Background(), "tasks", 7, map[string]any{"status": "doing"})
	require.NoError(t, err)

	var decoded struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(row, &decoded))
	assert.Equal(t, int64(7), decoded.ID)
}

func TestHTTPService_Delete_SendsDelete(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/tasks/7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, svc.Delete(context.Background(), "tasks", 7))
}

func TestHTTPService_MissingCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("request must not reach the server without a credential")
	}))
	t.Cleanup(server.Close)

	svc, err := NewHTTPService(
		config.Remote{BaseURL: server.URL, RequestTimeout: time.Second},
		&staticCreds{},
		logger.Nop(),
	)
	require.NoError(t, err)

	_, err = svc.Select(context.Background(), "tasks", nil, Order{})
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, models.FailureUnauthorized, models.AsFailure(err).Kind)
}

func TestHTTPService_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   models.FailureKind
	}{
		{http.StatusBadRequest, models.FailureValidation},
		{http.StatusUnprocessableEntity, models.FailureValidation},
		{http.StatusUnauthorized, models.FailureUnauthorized},
		{http.StatusForbidden, models.FailurePermission},
		{http.StatusNotFound, models.FailureNotFound},
		{http.StatusConflict, models.FailureConflict},
		{http.StatusInternalServerError, models.FailureNetwork},
		{http.StatusBadGateway, models.FailureNetwork},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("remote says no"))
			})

			_, err := svc.Select(context.Background(), "tasks", nil, Order{})
			require.Error(t, err)

			failure := models.AsFailure(err)
			assert.Equal(t, tt.kind, failure.Kind)
			assert.Equal(t, "remote says no", failure.Message, "remote message must survive verbatim")
		})
	}
}

func TestHTTPService_EmptyErrorBodyFallsBackToStatusText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := svc.Select(context.Background(), "tasks", nil, Order{})
	require.Error(t, err)
	assert.Equal(t, http.StatusText(http.StatusNotFound), models.AsFailure(err).Message)
}
