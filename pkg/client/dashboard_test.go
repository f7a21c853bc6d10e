package client

import (
	"context"
	"encoding/csv"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	httpif "github.com/turtacn/readiness-dashboard/internal/interfaces/http"
	"github.com/turtacn/readiness-dashboard/internal/interfaces/http/handlers"
	"github.com/turtacn/readiness-dashboard/internal/testutil"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// newDashboardServer runs the real API over src.
func newDashboardServer(t *testing.T, src *testutil.StaticSource) *Client {
	t.Helper()
	svc := dashboard.NewService(src, dashboard.Config{})
	router := httpif.NewRouter(httpif.RouterConfig{
		DashboardHandler: handlers.NewDashboardHandler(svc, dashboard.NewExporter(svc, nil, nil), nil),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithRetryMax(0))
	require.NoError(t, err)
	return c
}

func TestQuery_Values(t *testing.T) {
	q := Query{
		Selection:  Selection{Regions: []string{"Europe", "Asia"}, Countries: []string{"Japan"}, Influence: "High"},
		ColorBy:    "influence",
		LogScale:   true,
		BubbleSize: 300,
		SortBars:   true,
	}
	v := q.values()
	assert.Equal(t, []string{"Europe", "Asia"}, v["region"])
	assert.Equal(t, []string{"Japan"}, v["country"])
	assert.Equal(t, "High", v.Get("influence"))
	assert.Equal(t, "influence", v.Get("color"))
	assert.Equal(t, "true", v.Get("log"))
	assert.Equal(t, "300", v.Get("bubble_size"))
	assert.Equal(t, "true", v.Get("sort"))
	assert.Empty(t, v.Get("range"))
	assert.Empty(t, v.Get("country_filter"))

	assert.Empty(t, Query{}.values())

	v = Selection{Countries: []string{}}.values()
	assert.Equal(t, []string{""}, v["country"])
}

func TestClient_Options(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})
	opts, err := c.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", opts.DatasetVersion)
	assert.ElementsMatch(t, []string{"Europe", "Asia"}, opts.Regions)
}

func TestClient_Countries(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})
	countries, err := c.Countries(context.Background(), "Europe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Germany", "France"}, countries)
}

func TestClient_Dashboard(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})

	view, err := c.Dashboard(context.Background(), Query{Selection: Selection{Regions: []string{"Europe"}}})
	require.NoError(t, err)
	assert.Equal(t, "v1", view.DatasetVersion)
	assert.Equal(t, "$2.00 Billion", view.TotalLabel)
	assert.Equal(t, 2, view.Summary.Count)
	require.NotNil(t, view.Summary.Average)
	assert.InDelta(t, 2.25, *view.Summary.Average, 1e-9)
}

func TestClient_Dashboard_EmptySubset(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})

	view, err := c.Dashboard(context.Background(), Query{Selection: Selection{CountryFilter: true, Countries: []string{}}})
	require.NoError(t, err)
	assert.True(t, view.NoData)
	assert.Nil(t, view.Summary.Average)
}

func TestClient_Dashboard_CountryFilterKeepsRegion(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})

	view, err := c.Dashboard(context.Background(), Query{Selection: Selection{Regions: []string{"Europe"}, CountryFilter: true}})
	require.NoError(t, err)
	assert.False(t, view.NoData)
	assert.Len(t, view.Rows, 2)
	assert.Equal(t, "$2.00 Billion", view.TotalLabel)
}

func TestClient_Dashboard_InvalidOption(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})

	_, err := c.Dashboard(context.Background(), Query{BubbleSize: 900})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrCodeChartOptionInvalid, apiErr.AppCode())
}

func TestClient_Records(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})

	tbl, err := c.Records(context.Background(), Selection{Influence: "Low"})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Japan", tbl.Rows[0].Country)
}

func TestClient_Export(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")})

	body, err := c.Export(context.Background(), Selection{Regions: []string{"Asia"}}, "csv")
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Japan", rows[1][1])

	_, err = c.Export(context.Background(), Selection{}, "pdf")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestClient_Reload(t *testing.T) {
	src := &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1"), Next: testutil.SampleDataset(t, "v2")}
	c := newDashboardServer(t, src)

	res, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", res.Version)
	assert.Equal(t, "v1", res.PreviousVersion)
	assert.Equal(t, 1, src.Reloads())
}

func TestClient_NotLoaded(t *testing.T) {
	c := newDashboardServer(t, &testutil.StaticSource{})

	_, err := c.Options(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrCodeDatasetNotLoaded, apiErr.AppCode())
	assert.True(t, apiErr.IsServerError())
}

//Personal.AI order the ending
