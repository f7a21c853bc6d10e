package readiness

import (
	"fmt"
	"math"

	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// Unit is the magnitude label attached to the market size total.
type Unit string

const (
	UnitBillion Unit = "Billion"
	UnitMillion Unit = "Million"
)

// ErrNoMatchingRows is returned by AverageValue when the subset is empty.
var ErrNoMatchingRows = errors.New(errors.ErrCodeNoMatchingRows, "no matching rows for current filter")

// Summary holds the three KPIs for a filtered subset.  Average is nil when
// Count is zero; it is never NaN.
type Summary struct {
	Count   int      `json:"count"`
	Total   float64  `json:"total"`
	Unit    Unit     `json:"unit"`
	Average *float64 `json:"average"`
}

// Summarize computes the KPIs over rows.
//
// Market size is stored in millions.  The tier is picked on the sum rounded
// to two decimals: at or above 1000 the total is reported in billions,
// otherwise in millions, so a value never reads 1000.00 Million.  Each
// reported value is rounded half to even to two decimals: 1000 is 1.00
// Billion, 999 is 999.00 Million and 999.996 is 1.00 Billion.
func Summarize(rows []Record) Summary {
	s := Summary{Count: len(rows)}

	var market, opportunity float64
	for _, r := range rows {
		market += r.MarketSize
		opportunity += r.OpportunityIndex
	}

	if millions := round2(market); millions >= 1000 {
		s.Total, s.Unit = round2(market/1000), UnitBillion
	} else {
		s.Total, s.Unit = millions, UnitMillion
	}

	if s.Count > 0 {
		avg := round2(opportunity / float64(s.Count))
		s.Average = &avg
	}
	return s
}

// Empty reports whether the subset had no rows.
func (s Summary) Empty() bool { return s.Count == 0 }

// AverageValue returns the average opportunity index, or ErrNoMatchingRows
// for an empty subset.
func (s Summary) AverageValue() (float64, error) {
	if s.Average == nil {
		return 0, ErrNoMatchingRows
	}
	return *s.Average, nil
}

// TotalLabel formats the total as shown on the KPI card, e.g. "$1.25 Billion".
func (s Summary) TotalLabel() string {
	return fmt.Sprintf("$%.2f %s", s.Total, s.Unit)
}

// AverageLabel formats the average, or "n/a" when undefined.
func (s Summary) AverageLabel() string {
	if s.Average == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *s.Average)
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

//Personal.AI order the ending
