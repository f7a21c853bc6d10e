package readiness

import "testing"

// sampleTable is five rows over two regions with an influence column.
func sampleTable(t *testing.T) *Table {
	t.Helper()
	schema, err := ResolveSchema(
		[]string{"Region", "Country", "Market Size", "Opportunity Index", "Regulatory Index", "Influence"},
		PrimaryColumns, ColumnInfluence)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return NewTable([]Record{
		{Region: "A", Country: "Alpha", MarketSize: 400, OpportunityIndex: 10, RegulatoryIndex: 2, Influence: InfluenceLow},
		{Region: "B", Country: "Bravo", MarketSize: 250, OpportunityIndex: 5, RegulatoryIndex: 8, Influence: InfluenceHigh},
		{Region: "A", Country: "Charlie", MarketSize: 350, OpportunityIndex: 20, RegulatoryIndex: 5, Influence: InfluenceMedium},
		{Region: "B", Country: "Delta", MarketSize: 100, OpportunityIndex: 7, RegulatoryIndex: 3, Influence: InfluenceLow},
		{Region: "A", Country: "Echo", MarketSize: 250, OpportunityIndex: 30, RegulatoryIndex: 9, Influence: InfluenceHigh},
	}, schema, "memory")
}

// noInfluenceTable drops the optional influence column.
func noInfluenceTable(t *testing.T) *Table {
	t.Helper()
	schema, err := ResolveSchema(
		[]string{"Region", "Country", "TAM", "Opportunity Index", "Regulatory Index"},
		PrimaryColumns, ColumnInfluence)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	src := sampleTable(t)
	rows := make([]Record, len(src.Records))
	for i, r := range src.Records {
		r.Influence = ""
		rows[i] = r
	}
	return NewTable(rows, schema, "memory")
}

func countries(rows []Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Country
	}
	return out
}

//Personal.AI order the ending
