package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/domain/chart"
	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// Query parameters accepted by the dashboard endpoints.
const (
	paramRegion        = "region"
	paramCountry       = "country"
	paramCountryFilter = "country_filter"
	paramInfluence     = "influence"
	paramColor         = "color"
	paramLog           = "log"
	paramRange         = "range"
	paramBubbleSize    = "bubble_size"
	paramLayout        = "layout"
	paramSort          = "sort"
	paramFormat        = "format"
)

// listParam returns the values of a repeatable parameter.  Comma separated
// values are split.  An absent parameter yields nil; a parameter present
// with only empty values yields an empty, non-nil slice.
func listParam(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func boolParam(q url.Values, key string, code errors.ErrorCode) (bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(code, key+" must be a boolean").WithDetail(v)
	}
	return b, nil
}

// parseSelection reads region, country_filter, country and influence.  The
// country filter is engaged by country_filter=true or by a country parameter.
// Engaged without a country parameter it keeps every country of the selected
// regions; a present but empty country parameter deselects all.
func parseSelection(r *http.Request) (readiness.Selection, error) {
	q := r.URL.Query()
	sel := readiness.Selection{Regions: listParam(q, paramRegion)}

	engaged, err := boolParam(q, paramCountryFilter, errors.ErrCodeSelectionInvalid)
	if err != nil {
		return sel, err
	}
	if _, present := q[paramCountry]; present {
		sel.Countries = readiness.NewCountrySet(listParam(q, paramCountry)...)
	} else if engaged {
		sel.Countries = readiness.AllCountries()
	}

	tier, err := readiness.ParseInfluenceTier(q.Get(paramInfluence))
	if err != nil {
		return sel, err
	}
	sel.Influence = tier
	return sel, nil
}

// parseQuery reads the selection plus chart toggles.  Absent chart toggles
// keep their zero value so the service applies its configured defaults.
func parseQuery(r *http.Request) (dashboard.Query, error) {
	var out dashboard.Query
	sel, err := parseSelection(r)
	if err != nil {
		return out, err
	}
	out.Selection = sel

	q := r.URL.Query()
	if v := q.Get(paramColor); v != "" {
		if out.Chart.ColorBy, err = chart.ParseColorBy(v); err != nil {
			return out, err
		}
	}
	if v := q.Get(paramLayout); v != "" {
		if out.Chart.AxisLayout, err = chart.ParseAxisLayout(v); err != nil {
			return out, err
		}
	}
	if out.Chart.LogScale, err = boolParam(q, paramLog, errors.ErrCodeChartOptionInvalid); err != nil {
		return out, err
	}
	if out.Chart.TickBucketing, err = boolParam(q, paramRange, errors.ErrCodeChartOptionInvalid); err != nil {
		return out, err
	}
	if out.Bar.Sort, err = boolParam(q, paramSort, errors.ErrCodeChartOptionInvalid); err != nil {
		return out, err
	}
	if v := strings.TrimSpace(q.Get(paramBubbleSize)); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return out, errors.New(errors.ErrCodeChartOptionInvalid, "bubble_size must be an integer").WithDetail(v)
		}
		if n == 0 {
			return out, errors.New(errors.ErrCodeChartOptionInvalid, "bubble_size must be positive").WithDetail(v)
		}
		out.Chart.BubbleSizeMax = n
	}
	out.Chart.InfluenceFilter = sel.Influence
	return out, nil
}

//Personal.AI order the ending
