package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
	"github.com/nguyenthanhduc0901/clinic-app/internal/token"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/apierror"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/metrics"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newTestClient(t *testing.T, baseURL string, opts ...ClientOption) (*Client, *token.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURLs = map[string]string{config.PlatformDefault: baseURL}

	tokens := token.NewStore(config.TokenConfig{Dir: t.TempDir()}, testLogger())
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	return NewClient(cfg, tokens, testLogger(), m, opts...), tokens
}

func TestAttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(HeaderRequestID)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client, tokens := newTestClient(t, srv.URL)
	require.NoError(t, tokens.Set("tok-123"))

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/me", nil, &out))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.True(t, out["ok"])
}

func TestNoTokenMeansNoAuthorizationHeader(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	require.NoError(t, client.Get(context.Background(), "/me", nil, nil))
	assert.False(t, sawHeader)
}

func TestUnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"statusCode":401,"errorCode":"UNAUTHORIZED","message":"hết phiên"}`))
	}))
	defer srv.Close()

	var expired bool
	client, tokens := newTestClient(t, srv.URL, WithSessionExpiredHook(func() { expired = true }))
	require.NoError(t, tokens.Set("tok-123"))

	err := client.Get(context.Background(), "/me", nil, nil)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, expired)
	assert.Equal(t, "", tokens.Get())
}

func TestSuppressedUnauthorizedKeepsToken(t *testing.T) {
	var gotSuppressHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSuppressHeader = r.Header.Get(HeaderSuppressLogout)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"nope"}`))
	}))
	defer srv.Close()

	var expired bool
	client, tokens := newTestClient(t, srv.URL, WithSessionExpiredHook(func() { expired = true }))
	require.NoError(t, tokens.Set("tok-123"))

	err := client.Get(context.Background(), "/appointments", nil, nil, SuppressLogout())

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "1", gotSuppressHeader)
	assert.False(t, expired)
	assert.Equal(t, "tok-123", tokens.Get())
}

func TestNormalizesNonConformantErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"đã tồn tại"}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	err := client.Post(context.Background(), "/me/appointments", map[string]string{"appointmentDate": "2025-03-10"}, nil)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, apierror.CodeUnknownError, apiErr.ErrorCode)
	assert.Equal(t, "đã tồn tại", apiErr.Message)
}

func TestTransportFailureYieldsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client, _ := newTestClient(t, srv.URL)
	err := client.Get(context.Background(), "/me", nil, nil)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, apierror.CodeNetworkError, apiErr.ErrorCode)
	assert.NotEmpty(t, apiErr.Message)
}

func TestGetBinary(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	data, err := client.GetBinary(context.Background(), "/me/invoices/1/export.pdf", WithAccept("application/pdf"))

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	assert.Equal(t, "application/pdf", gotAccept)
}

func TestGetBinaryEmptyPayloadFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	_, err := client.GetBinary(context.Background(), "/me/invoices/1/export.pdf")

	var emptyErr *apierror.EmptyPayloadError
	require.ErrorAs(t, err, &emptyErr)
}
