package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/testutil"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestDashboardHandler_Options(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.Options(w, httptest.NewRequest("GET", "/api/v1/options", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1", w.Header().Get(DatasetVersionHeader))
	var opts dashboard.Options
	decode(t, w, &opts)
	assert.ElementsMatch(t, []string{"Europe", "Asia"}, opts.Regions)
	assert.Equal(t, 200, opts.BubbleSize.Default)
}

func TestDashboardHandler_NotLoaded(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{})
	w := httptest.NewRecorder()
	h.Options(w, httptest.NewRequest("GET", "/api/v1/options", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, string(errors.ErrCodeDatasetNotLoaded), resp.Code)
}

func TestDashboardHandler_Countries(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.Countries(w, httptest.NewRequest("GET", "/api/v1/countries?region=Europe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp CountriesResponse
	decode(t, w, &resp)
	assert.Equal(t, []string{"Germany", "France"}, resp.Countries)
}

func TestDashboardHandler_View(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.View(w, httptest.NewRequest("GET", "/api/v1/dashboard?region=Europe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var view dashboard.View
	decode(t, w, &view)
	assert.Equal(t, "$2.00 Billion", view.TotalLabel)
	assert.Equal(t, "2.25", view.AverageLabel)
	assert.False(t, view.NoData)
	assert.Len(t, view.Rows, 2)
}

func TestDashboardHandler_View_EmptySubset(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.View(w, httptest.NewRequest("GET", "/api/v1/dashboard?country_filter=true&country=", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var view dashboard.View
	decode(t, w, &view)
	assert.True(t, view.NoData)
	assert.Nil(t, view.Summary.Average)
	assert.Equal(t, "n/a", view.AverageLabel)
}

func TestDashboardHandler_View_CountryFilterDefaultsToRegion(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.View(w, httptest.NewRequest("GET", "/api/v1/dashboard?region=Europe&country_filter=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var view dashboard.View
	decode(t, w, &view)
	assert.False(t, view.NoData)
	assert.True(t, view.Filter.CountryApplied)
	assert.Equal(t, []string{"Germany", "France"}, view.Selection.Countries)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Germany", view.Rows[0].Country)
	assert.Equal(t, "France", view.Rows[1].Country)
}

func TestDashboardHandler_View_BadOption(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.View(w, httptest.NewRequest("GET", "/api/v1/dashboard?bubble_size=900", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, string(errors.ErrCodeChartOptionInvalid), resp.Code)
	assert.Equal(t, "900", resp.Detail)
}

func TestDashboardHandler_Records(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.Records(w, httptest.NewRequest("GET", "/api/v1/records?influence=low", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var tbl dashboard.RecordTable
	decode(t, w, &tbl)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Japan", tbl.Rows[0].Country)
}

func TestDashboardHandler_Export(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.Export(w, httptest.NewRequest("GET", "/api/v1/records/export?format=csv&region=Asia", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="readiness.csv"`, w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Japan")
}

func TestDashboardHandler_Export_BadFormat(t *testing.T) {
	h := newTestHandler(t, &testutil.StaticSource{DS: testDataset(t, "v1")})
	w := httptest.NewRecorder()
	h.Export(w, httptest.NewRequest("GET", "/api/v1/records/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_Reload(t *testing.T) {
	src := &testutil.StaticSource{DS: testDataset(t, "v1"), Next: testDataset(t, "v2")}
	h := newTestHandler(t, src)
	w := httptest.NewRecorder()
	h.Reload(w, httptest.NewRequest("POST", "/api/v1/dataset/reload", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v2", w.Header().Get(DatasetVersionHeader))
	var res dashboard.ReloadResult
	decode(t, w, &res)
	assert.Equal(t, "v1", res.PreviousVersion)
	assert.Equal(t, 3, res.Rows)
}

func TestDashboardHandler_Reload_FailureIsMasked(t *testing.T) {
	src := &testutil.StaticSource{DS: testDataset(t, "v1"), Err: errors.Internal("disk on fire")}
	svc := dashboard.NewService(src, dashboard.Config{})
	logger := testutil.NewMockLogger()
	h := NewDashboardHandler(svc, dashboard.NewExporter(svc, nil, nil), logger)
	w := httptest.NewRecorder()
	h.Reload(w, httptest.NewRequest("POST", "/api/v1/dataset/reload", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
	e, ok := logger.Find("error", "request failed")
	require.True(t, ok, "5xx responses are logged")
	assert.Equal(t, "http", e.Logger)
}

func TestDashboardHandler_RejectedRequestLoggedAtDebug(t *testing.T) {
	logger := testutil.NewMockLogger()
	h := NewDashboardHandler(dashboard.NewService(&testutil.StaticSource{DS: testDataset(t, "v1")}, dashboard.Config{}), nil, logger)
	w := httptest.NewRecorder()
	h.View(w, httptest.NewRequest("GET", "/api/v1/dashboard?bubble_size=abc", nil))

	assert.True(t, w.Code >= 400 && w.Code < 500, "got %d", w.Code)
	e, ok := logger.Find("debug", "request rejected")
	require.True(t, ok)
	code, _ := e.Field("code")
	assert.Equal(t, string(errors.ErrCodeChartOptionInvalid), code)
	assert.False(t, logger.HasMessage("error", "request failed"))
}

func TestNotFound(t *testing.T) {
	logger := testutil.NewMockLogger()
	w := httptest.NewRecorder()
	NotFound(logger)(w, httptest.NewRequest("GET", "/nowhere", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, string(errors.CodeNotFound), resp.Code)
	assert.Equal(t, "route not found", resp.Message)
	assert.Equal(t, "/nowhere", resp.Detail)
	assert.True(t, logger.HasMessage("debug", "request rejected"))
}

//Personal.AI order the ending
