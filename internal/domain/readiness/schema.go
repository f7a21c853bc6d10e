package readiness

import (
	"strings"

	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// Column is a canonical column name.  Input files may use any of the legacy
// headers listed in columnAliases; everything downstream sees only these.
type Column string

const (
	ColumnRegion              Column = "Region"
	ColumnCountry             Column = "Country"
	ColumnMarketSize          Column = "Market Size"
	ColumnOpportunityIndex    Column = "Opportunity Index"
	ColumnRegulatoryIndex     Column = "Regulatory Index"
	ColumnInfluence           Column = "Influence"
	ColumnAggregatorCount     Column = "Count of Aggregators"
	ColumnFintechBankRatio    Column = "Fintech/Bank Ratio"
	ColumnDepthOfRelationship Column = "Depth of Relationship"
)

// columnAliases maps each canonical column to the headers accepted for it,
// compared case-insensitively after trimming.
var columnAliases = map[Column][]string{
	ColumnRegion:              {"Region"},
	ColumnCountry:             {"Country"},
	ColumnMarketSize:          {"Market Size", "TAM"},
	ColumnOpportunityIndex:    {"Opportunity Index"},
	ColumnRegulatoryIndex:     {"Regulatory Index"},
	ColumnInfluence:           {"Influence", "Regional Influence"},
	ColumnAggregatorCount:     {"Count of Aggregators", "Aggregators"},
	ColumnFintechBankRatio:    {"Fintech/Bank Ratio", "Fintech Bank Ratio"},
	ColumnDepthOfRelationship: {"Depth of Relationship"},
}

// PrimaryColumns are required in the primary table; influence is optional.
var PrimaryColumns = []Column{
	ColumnRegion, ColumnCountry, ColumnMarketSize, ColumnOpportunityIndex, ColumnRegulatoryIndex,
}

// SecondaryColumns are required in the bar chart table.
var SecondaryColumns = []Column{
	ColumnCountry, ColumnOpportunityIndex, ColumnAggregatorCount, ColumnFintechBankRatio, ColumnDepthOfRelationship,
}

// Aliases returns the accepted headers for c.
func (c Column) Aliases() []string { return columnAliases[c] }

// Schema records where each canonical column was found in a header row.
type Schema struct {
	// Index maps a canonical column to its position in the header row.
	Index map[Column]int `json:"-"`
	// Headers maps a canonical column to the header text that matched it,
	// which differs from the canonical name for legacy files.
	Headers map[Column]string `json:"headers"`
	// Extra lists headers that matched no canonical column, in file order.
	Extra []string `json:"extra,omitempty"`
	// ExtraIndex holds the position of each Extra header.
	ExtraIndex []int `json:"-"`
}

// Has reports whether column c was present.
func (s Schema) Has(c Column) bool {
	_, ok := s.Index[c]
	return ok
}

// Legacy returns the canonical columns that were matched through a legacy
// alias, keyed by canonical name with the original header as value.
func (s Schema) Legacy() map[Column]string {
	out := make(map[Column]string)
	for c, h := range s.Headers {
		if !strings.EqualFold(strings.TrimSpace(h), string(c)) {
			out[c] = h
		}
	}
	return out
}

// ResolveSchema matches a header row against the canonical columns.  Every
// column in required must be present; optional columns are matched when
// found.  Duplicate matches for one canonical column are rejected because
// the choice between them would be arbitrary.
func ResolveSchema(header []string, required []Column, optional ...Column) (Schema, error) {
	s := Schema{Index: make(map[Column]int), Headers: make(map[Column]string)}

	wanted := append(append([]Column{}, required...), optional...)
	lookup := make(map[string]Column)
	for _, c := range wanted {
		for _, alias := range c.Aliases() {
			lookup[strings.ToLower(alias)] = c
		}
	}

	for i, raw := range header {
		h := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		c, ok := lookup[strings.ToLower(h)]
		if !ok {
			if h != "" {
				s.Extra = append(s.Extra, h)
				s.ExtraIndex = append(s.ExtraIndex, i)
			}
			continue
		}
		if prev, dup := s.Headers[c]; dup {
			return Schema{}, errors.Newf(errors.ErrCodeDatasetMalformed,
				"headers %q and %q both map to column %q", prev, h, c)
		}
		s.Index[c] = i
		s.Headers[c] = h
	}

	var missing []string
	for _, c := range required {
		if !s.Has(c) {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		return Schema{}, errors.New(errors.ErrCodeDatasetColumnMissing, "dataset is missing required columns").
			WithDetail(strings.Join(missing, ", "))
	}
	return s, nil
}

//Personal.AI order the ending
