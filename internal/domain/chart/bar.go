package chart

import (
	"sort"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
)

// BarOptions are the bar chart toggles.
type BarOptions struct {
	Sort bool
}

// Bar is one bar with its hover values.  Depth is preformatted as a percent.
type Bar struct {
	Country             string  `json:"country"`
	OpportunityIndex    float64 `json:"opportunity_index"`
	AggregatorCount     int     `json:"aggregator_count"`
	FintechBankRatio    float64 `json:"fintech_bank_ratio"`
	DepthOfRelationship string  `json:"depth_of_relationship"`
}

// BarSpec is the bar chart description.
type BarSpec struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	XField      string   `json:"x_field"`
	YField      string   `json:"y_field"`
	HoverFields []string `json:"hover_fields"`
	Sorted      bool     `json:"sorted"`
	Bars        []Bar    `json:"bars"`
}

// ConfigureBar builds an empty bar spec for opts; use Attach to add rows.
func ConfigureBar(opts BarOptions) BarSpec {
	return BarSpec{
		Type:   "bar",
		Title:  "Opportunity Index by Country",
		XField: string(readiness.ColumnCountry),
		YField: string(readiness.ColumnOpportunityIndex),
		HoverFields: []string{
			string(readiness.ColumnAggregatorCount),
			string(readiness.ColumnFintechBankRatio),
			string(readiness.ColumnDepthOfRelationship),
		},
		Sorted: opts.Sort,
		Bars:   []Bar{},
	}
}

// Attach returns a copy of s holding rows, ordered by descending opportunity
// index when s.Sorted and in the given order otherwise.  rows is not
// modified.
func (s BarSpec) Attach(rows []readiness.BarRecord) BarSpec {
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{
			Country:             r.Country,
			OpportunityIndex:    r.OpportunityIndex,
			AggregatorCount:     r.AggregatorCount,
			FintechBankRatio:    r.FintechBankRatio,
			DepthOfRelationship: r.DepthPercent(),
		}
	}
	if s.Sorted {
		sort.SliceStable(bars, func(i, j int) bool {
			return bars[i].OpportunityIndex > bars[j].OpportunityIndex
		})
	}
	s.Bars = bars
	return s
}

//Personal.AI order the ending
