package account

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenthanhduc0901/clinic-app/internal/api"
	"github.com/nguyenthanhduc0901/clinic-app/internal/config"
	"github.com/nguyenthanhduc0901/clinic-app/internal/model"
	"github.com/nguyenthanhduc0901/clinic-app/internal/token"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/logger"
	"github.com/nguyenthanhduc0901/clinic-app/pkg/metrics"
)

func newTestClient(t *testing.T, baseURL string) (*Client, *token.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURLs = map[string]string{config.PlatformDefault: baseURL}

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	tokens := token.NewStore(config.TokenConfig{Dir: t.TempDir()}, log)
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	apiClient := api.NewClient(cfg, tokens, log, m)
	return NewClient(apiClient, tokens), tokens
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "patient@test.com", req.Email)
		w.Write([]byte(`{"accessToken":"tok-abc","user":{"id":7,"email":"patient@test.com","role":"patient"}}`))
	}))
	defer srv.Close()

	client, tokens := newTestClient(t, srv.URL)
	resp, err := client.Login(context.Background(), model.LoginRequest{Email: "patient@test.com", Password: "test123"})

	require.NoError(t, err)
	assert.Equal(t, "tok-abc", resp.AccessToken)
	assert.Equal(t, "patient", resp.User.Role.Name)
	assert.Equal(t, "tok-abc", tokens.Get())
}

func TestLoginRejectsInvalidEmailLocally(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client, tokens := newTestClient(t, srv.URL)
	_, err := client.Login(context.Background(), model.LoginRequest{Email: "not-an-email", Password: "x"})

	require.Error(t, err)
	assert.False(t, called)
	assert.Empty(t, tokens.Get())
}

func TestRoleDecodesBothShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"email":"patient@test.com","role":{"id":3,"name":"patient"}}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	profile, err := client.Profile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), profile.Role.ID)
	assert.Equal(t, "patient", profile.Role.Name)
}

func TestUpdateProfileValidatesGender(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	bad := "other"
	_, err := client.UpdateProfile(context.Background(), model.UpdateProfileRequest{Gender: &bad})

	require.Error(t, err)
	assert.False(t, called)
}

func TestUpdateProfileSendsOnlySetFields(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id":7,"email":"patient@test.com","fullName":"Nguyễn Văn A","role":"patient"}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	name := "Nguyễn Văn A"
	profile, err := client.UpdateProfile(context.Background(), model.UpdateProfileRequest{FullName: &name})

	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", profile.FullName)
	assert.Equal(t, map[string]interface{}{"fullName": "Nguyễn Văn A"}, gotBody)
}

func TestMeAggregatesBranches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me", r.URL.Path)
		w.Write([]byte(`{"id":7,"email":"patient@test.com","role":"patient","staff":null,"patient":{"id":12,"fullName":"Nguyễn Văn A"},"permissions":["appointments:read"]}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)
	me, err := client.Me(context.Background())

	require.NoError(t, err)
	assert.Nil(t, me.Staff)
	require.NotNil(t, me.Patient)
	assert.Equal(t, "Nguyễn Văn A", me.Patient.FullName)
	assert.Equal(t, []string{"appointments:read"}, me.Permissions)
}
