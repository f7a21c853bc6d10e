// Package readiness holds the open banking readiness data model together with
// the two pure operations every dashboard interaction runs over it: the
// filter engine and the aggregator.  Nothing here performs I/O; tables are
// produced by the dataset loader and are never mutated after construction.
package readiness

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Influence tier
// ─────────────────────────────────────────────────────────────────────────────

// InfluenceTier is the three-valued influence classification.  InfluenceAll
// is only meaningful as a filter value and never appears on a Record.
type InfluenceTier string

const (
	InfluenceAll    InfluenceTier = "All"
	InfluenceLow    InfluenceTier = "Low"
	InfluenceMedium InfluenceTier = "Medium"
	InfluenceHigh   InfluenceTier = "High"
)

// InfluenceTiers lists the tiers in display order.
var InfluenceTiers = []InfluenceTier{InfluenceLow, InfluenceMedium, InfluenceHigh}

func (t InfluenceTier) String() string { return string(t) }

// IsAll reports whether t places no constraint on rows.
func (t InfluenceTier) IsAll() bool { return t == "" || t == InfluenceAll }

// ParseInfluenceTier accepts a tier name case-insensitively.  The empty
// string parses as InfluenceAll.
func ParseInfluenceTier(s string) (InfluenceTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return InfluenceAll, nil
	case "low":
		return InfluenceLow, nil
	case "medium", "med", "med.":
		return InfluenceMedium, nil
	case "high":
		return InfluenceHigh, nil
	}
	return "", errors.New(errors.ErrCodeSelectionInvalid, "unknown influence tier").WithDetail(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Records
// ─────────────────────────────────────────────────────────────────────────────

// Record is one row of the primary readiness table.
type Record struct {
	Region           string            `json:"region"`
	Country          string            `json:"country"`
	MarketSize       float64           `json:"market_size"`
	OpportunityIndex float64           `json:"opportunity_index"`
	RegulatoryIndex  float64           `json:"regulatory_index"`
	Influence        InfluenceTier     `json:"influence,omitempty"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// BarRecord is one row of the secondary (bar chart) table.
type BarRecord struct {
	Country             string  `json:"country"`
	OpportunityIndex    float64 `json:"opportunity_index"`
	AggregatorCount     int     `json:"aggregator_count"`
	FintechBankRatio    float64 `json:"fintech_bank_ratio"`
	DepthOfRelationship float64 `json:"depth_of_relationship"`
}

// DepthPercent renders DepthOfRelationship as a whole percent, 0.25 → "25%".
func (b BarRecord) DepthPercent() string {
	return fmt.Sprintf("%.0f%%", math.Round(b.DepthOfRelationship*100))
}

// ─────────────────────────────────────────────────────────────────────────────
// Tables
// ─────────────────────────────────────────────────────────────────────────────

// Table is the loaded primary dataset.  Records keep file order.
type Table struct {
	Records  []Record
	Schema   Schema
	Source   string
	LoadedAt time.Time
}

// NewTable wraps records with the schema they were decoded with.
func NewTable(records []Record, schema Schema, source string) *Table {
	return &Table{Records: records, Schema: schema, Source: source, LoadedAt: time.Now().UTC()}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasInfluence reports whether the source file carried an influence column.
func (t *Table) HasInfluence() bool {
	return t != nil && t.Schema.Has(ColumnInfluence)
}

// Regions returns the distinct regions in first-seen order.
func (t *Table) Regions() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.Records {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	return out
}

// Countries returns the distinct countries whose region is in regions, in
// first-seen order.  A nil regions slice means every region.
func (t *Table) Countries(regions []string) []string {
	if t == nil {
		return nil
	}
	var allow map[string]struct{}
	if regions != nil {
		allow = toSet(regions)
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.Records {
		if allow != nil {
			if _, ok := allow[r.Region]; !ok {
				continue
			}
		}
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	return out
}

// ExtraColumns returns the non-canonical headers in file order.
func (t *Table) ExtraColumns() []string {
	if t == nil {
		return nil
	}
	return t.Schema.Extra
}

// BarTable is the loaded secondary dataset.
type BarTable struct {
	Records  []BarRecord
	Schema   Schema
	Source   string
	LoadedAt time.Time
}

// NewBarTable wraps bar records with their schema.
func NewBarTable(records []BarRecord, schema Schema, source string) *BarTable {
	return &BarTable{Records: records, Schema: schema, Source: source, LoadedAt: time.Now().UTC()}
}

// Len returns the number of bar records.
func (b *BarTable) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

// Dataset is one consistent snapshot of both tables.  Bars is nil when no
// secondary file is configured.  Version changes on every successful load.
type Dataset struct {
	Table    *Table
	Bars     *BarTable
	Version  string
	LoadedAt time.Time
}

func toSet(values []string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

//Personal.AI order the ending
