package dashboard

import (
	"strconv"
	"time"

	"github.com/turtacn/readiness-dashboard/internal/domain/chart"
	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
)

// Query is one dashboard interaction: the filter selection plus chart toggles.
type Query struct {
	Selection readiness.Selection
	Chart     chart.Options
	Bar       chart.BarOptions
}

// BubbleSizeRange is the bubble size slider.
type BubbleSizeRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Options lists what the controls may offer.
type Options struct {
	Regions        []string                  `json:"regions"`
	InfluenceTiers []readiness.InfluenceTier `json:"influence_tiers,omitempty"`
	ColorSchemes   []chart.ColorBy           `json:"color_schemes"`
	DefaultColorBy chart.ColorBy             `json:"default_color_by"`
	AxisLayout     chart.AxisLayout          `json:"axis_layout"`
	BubbleSize     BubbleSizeRange           `json:"bubble_size"`
	HasBarChart    bool                      `json:"has_bar_chart"`
	DatasetVersion string                    `json:"dataset_version"`
	LoadedAt       time.Time                 `json:"loaded_at"`
}

// SelectionInfo echoes the effective selection after defaults.
type SelectionInfo struct {
	Regions   []string `json:"regions"`
	Countries []string `json:"countries,omitempty"`
	Influence string   `json:"influence"`
}

// FilterInfo records which optional predicates ran.
type FilterInfo struct {
	CountryApplied   bool `json:"country_applied"`
	InfluenceApplied bool `json:"influence_applied"`
	InfluenceSkipped bool `json:"influence_skipped,omitempty"`
}

// View is everything the front end needs to redraw after one interaction.
type View struct {
	DatasetVersion string             `json:"dataset_version"`
	Selection      SelectionInfo      `json:"selection"`
	Filter         FilterInfo         `json:"filter"`
	Summary        readiness.Summary  `json:"summary"`
	TotalLabel     string             `json:"total_label"`
	AverageLabel   string             `json:"average_label"`
	NoData         bool               `json:"no_data"`
	Scatter        chart.ScatterSpec  `json:"scatter"`
	Bar            *chart.BarSpec     `json:"bar,omitempty"`
	Columns        []string           `json:"columns"`
	Rows           []readiness.Record `json:"rows"`
}

// ReloadResult reports a completed reload.
type ReloadResult struct {
	Version         string    `json:"version"`
	PreviousVersion string    `json:"previous_version,omitempty"`
	Rows            int       `json:"rows"`
	BarRows         int       `json:"bar_rows"`
	LoadedAt        time.Time `json:"loaded_at"`
}

// RecordTable is the filtered table in display column order.
type RecordTable struct {
	DatasetVersion string             `json:"dataset_version"`
	Columns        []string           `json:"columns"`
	Rows           []readiness.Record `json:"rows"`

	extras    []string
	influence bool
}

// Cells renders the rows as strings in Columns order.
func (t *RecordTable) Cells() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := []string{
			r.Region,
			r.Country,
			formatFloat(r.MarketSize),
			formatFloat(r.OpportunityIndex),
			formatFloat(r.RegulatoryIndex),
		}
		if t.influence {
			row = append(row, string(r.Influence))
		}
		for _, name := range t.extras {
			row = append(row, r.Extra[name])
		}
		out[i] = row
	}
	return out
}

func columnsFor(t *readiness.Table) []string {
	cols := []string{
		string(readiness.ColumnRegion),
		string(readiness.ColumnCountry),
		string(readiness.ColumnMarketSize),
		string(readiness.ColumnOpportunityIndex),
		string(readiness.ColumnRegulatoryIndex),
	}
	if t.HasInfluence() {
		cols = append(cols, string(readiness.ColumnInfluence))
	}
	return append(cols, t.ExtraColumns()...)
}

func describeSelection(sel readiness.Selection) SelectionInfo {
	info := SelectionInfo{
		Regions:   append([]string{}, sel.Regions...),
		Countries: sel.Countries.Slice(),
		Influence: string(sel.Influence),
	}
	if sel.Influence.IsAll() {
		info.Influence = string(readiness.InfluenceAll)
	}
	return info
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

//Personal.AI order the ending
