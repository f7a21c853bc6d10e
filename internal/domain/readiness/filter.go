package readiness

// FilterResult is the filtered subset plus a record of which optional
// predicates actually ran.
type FilterResult struct {
	Rows []Record
	// CountryApplied is false when the country filter was not engaged.
	CountryApplied bool
	// InfluenceApplied is false when the tier was All, or when a tier was
	// requested but the table has no influence column.
	InfluenceApplied bool
	// InfluenceSkipped is true only in the second case above.
	InfluenceSkipped bool
}

// Filter applies sel to t.  Predicates run in order region, country,
// influence and are conjunctive.  Optional predicates are skipped by explicit
// presence checks rather than by recovering from failures, so Filter never
// returns an error.  Row order follows t.
func Filter(t *Table, sel Selection) FilterResult {
	res := FilterResult{Rows: make([]Record, 0)}
	if t == nil {
		return res
	}

	var regions map[string]struct{}
	if sel.Regions != nil {
		regions = toSet(sel.Regions)
	}

	res.CountryApplied = sel.CountryEngaged()
	if !sel.Influence.IsAll() {
		if t.HasInfluence() {
			res.InfluenceApplied = true
		} else {
			res.InfluenceSkipped = true
		}
	}

	for _, r := range t.Records {
		if regions != nil {
			if _, ok := regions[r.Region]; !ok {
				continue
			}
		}
		if res.CountryApplied && !sel.Countries.Contains(r.Country) {
			continue
		}
		if res.InfluenceApplied && r.Influence != sel.Influence {
			continue
		}
		res.Rows = append(res.Rows, r)
	}
	return res
}

// Countries returns the distinct countries in rows in order.
func (res FilterResult) Countries() []string {
	seen := make(map[string]struct{}, len(res.Rows))
	out := make([]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	return out
}

// BarsFor keeps the bar rows whose country appears in rows, in bar table
// order.  A nil bar table yields nil.
func BarsFor(bars *BarTable, rows []Record) []BarRecord {
	if bars == nil {
		return nil
	}
	keep := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		keep[r.Country] = struct{}{}
	}
	out := make([]BarRecord, 0)
	for _, b := range bars.Records {
		if _, ok := keep[b.Country]; ok {
			out = append(out, b)
		}
	}
	return out
}

//Personal.AI order the ending
