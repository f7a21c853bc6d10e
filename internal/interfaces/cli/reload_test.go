package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/config"
	"github.com/turtacn/readiness-dashboard/pkg/client"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

func reloadServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/dataset/reload", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReload_Text(t *testing.T) {
	primary, _ := fixtures(t)
	srv := reloadServer(t, http.StatusOK, `{"version":"v2","previous_version":"v1","rows":3,"bar_rows":2}`)

	out, err := run(t, "reload", "--primary", primary, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Reloaded: v1 -> v2")
	assert.Contains(t, out, "Rows: 3 (bar rows: 2)")
}

func TestReload_JSON(t *testing.T) {
	primary, _ := fixtures(t)
	srv := reloadServer(t, http.StatusOK, `{"version":"v2","rows":3}`)

	out, err := run(t, "reload", "--primary", primary, "--server", srv.URL, "-o", "json")
	require.NoError(t, err)
	var res dashboard.ReloadResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "v2", res.Version)
}

func TestReload_ServerRejects(t *testing.T) {
	primary, _ := fixtures(t)
	srv := reloadServer(t, http.StatusUnprocessableEntity, `{"code":"DS_003","message":"dataset is missing a required column","detail":"Market Size"}`)

	_, err := run(t, "reload", "--primary", primary, "--server", srv.URL)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrCodeDatasetColumnMissing, apiErr.AppCode())
}

func TestReload_BadServerURL(t *testing.T) {
	primary, _ := fixtures(t)
	_, err := run(t, "reload", "--primary", primary, "--server", "ftp://nope")
	assert.ErrorIs(t, err, client.ErrInvalidConfig)
}

func TestDefaultServerURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080", defaultServerURL(config.ServerConfig{Host: "0.0.0.0", Port: 8080}))
	assert.Equal(t, "http://127.0.0.1:9000", defaultServerURL(config.ServerConfig{Port: 9000}))
	assert.Equal(t, "http://dash.local:80", defaultServerURL(config.ServerConfig{Host: "dash.local", Port: 80}))
	assert.Equal(t, "http://[::1]:8080", defaultServerURL(config.ServerConfig{Host: "::1", Port: 8080}))
}

//Personal.AI order the ending
