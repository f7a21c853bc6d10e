package client

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
)

// Response types shared with the server.
type (
	Options      = dashboard.Options
	View         = dashboard.View
	RecordTable  = dashboard.RecordTable
	ReloadResult = dashboard.ReloadResult
)

// Selection mirrors the filter controls.  A nil Countries leaves the
// country filter off unless CountryFilter is set, which keeps every country
// of the selected regions.  A non-nil empty Countries deselects all.
type Selection struct {
	Regions       []string
	Countries     []string
	CountryFilter bool
	Influence     string
}

func (s Selection) values() url.Values {
	v := url.Values{}
	for _, r := range s.Regions {
		v.Add("region", r)
	}
	if s.Countries != nil && len(s.Countries) == 0 {
		v.Set("country", "")
	}
	for _, c := range s.Countries {
		v.Add("country", c)
	}
	if s.CountryFilter {
		v.Set("country_filter", "true")
	}
	if s.Influence != "" {
		v.Set("influence", s.Influence)
	}
	return v
}

// Query is a dashboard request.  Zero fields take the server defaults.
type Query struct {
	Selection
	ColorBy    string
	Layout     string
	LogScale   bool
	ShowRange  bool
	BubbleSize int
	SortBars   bool
}

func (q Query) values() url.Values {
	v := q.Selection.values()
	if q.ColorBy != "" {
		v.Set("color", q.ColorBy)
	}
	if q.Layout != "" {
		v.Set("layout", q.Layout)
	}
	if q.LogScale {
		v.Set("log", "true")
	}
	if q.ShowRange {
		v.Set("range", "true")
	}
	if q.BubbleSize != 0 {
		v.Set("bubble_size", strconv.Itoa(q.BubbleSize))
	}
	if q.SortBars {
		v.Set("sort", "true")
	}
	return v
}

type countriesResponse struct {
	Countries []string `json:"countries"`
}

// Options fetches the control options.
func (c *Client) Options(ctx context.Context) (*Options, error) {
	var out Options
	if err := c.get(ctx, "/api/v1/options", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Countries lists the countries of the given regions, all when empty.
func (c *Client) Countries(ctx context.Context, regions ...string) ([]string, error) {
	var out countriesResponse
	if err := c.get(ctx, "/api/v1/countries", Selection{Regions: regions}.values(), &out); err != nil {
		return nil, err
	}
	return out.Countries, nil
}

// Dashboard builds one dashboard view.
func (c *Client) Dashboard(ctx context.Context, q Query) (*View, error) {
	var out View
	if err := c.get(ctx, "/api/v1/dashboard", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Records fetches the filtered table.
func (c *Client) Records(ctx context.Context, sel Selection) (*RecordTable, error) {
	var out RecordTable
	if err := c.get(ctx, "/api/v1/records", sel.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export downloads the filtered table as csv or xlsx.
func (c *Client) Export(ctx context.Context, sel Selection, format string) ([]byte, error) {
	v := sel.values()
	v.Set("format", format)
	var buf bytes.Buffer
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/records/export", v, nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Reload asks the server to re-read its dataset.  A failed reload leaves the
// server on its previous snapshot.
func (c *Client) Reload(ctx context.Context) (*ReloadResult, error) {
	var out ReloadResult
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/dataset/reload", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
