package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
)

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, []string{"Country", "Rows"}, [][]string{{"Germany", "1"}, {"Japan", "2"}}))
	out := buf.String()
	assert.Contains(t, out, "Germany")
	assert.Contains(t, out, "Japan")
}

func TestColorizeInfluence_NoColor(t *testing.T) {
	assert.Equal(t, "High", colorizeInfluence("High", true))
	assert.Equal(t, "", colorizeInfluence("", false))
	assert.Contains(t, colorizeInfluence("Low", false), "Low")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "Unite...", truncateString("United Kingdom", 8))
	assert.Equal(t, "Un", truncateString("United Kingdom", 2))
}

func TestSelectionFlags(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		regions []string
		engaged bool
		all     bool
		tier    readiness.InfluenceTier
	}{
		{"defaults", nil, nil, false, false, readiness.InfluenceAll},
		{"regions", []string{"--region", "Europe,Asia"}, []string{"Europe", "Asia"}, false, false, readiness.InfluenceAll},
		{"country", []string{"--country", "Japan"}, nil, true, false, readiness.InfluenceAll},
		{"flag only keeps all", []string{"--country-filter"}, nil, true, true, readiness.InfluenceAll},
		{"empty country deselects", []string{"--country-filter", "--country="}, nil, true, false, readiness.InfluenceAll},
		{"influence", []string{"--influence", "medium"}, nil, false, false, readiness.InfluenceMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f selectionFlags
			cmd := &cobra.Command{Use: "x"}
			f.register(cmd)
			require.NoError(t, cmd.ParseFlags(tc.args))

			sel, err := f.selection(cmd)
			require.NoError(t, err)
			assert.Equal(t, tc.regions, sel.Regions)
			assert.Equal(t, tc.engaged, sel.CountryEngaged())
			assert.Equal(t, tc.all, sel.Countries.IsDefault())
			assert.Equal(t, tc.tier, sel.Influence)
		})
	}
}

//Personal.AI order the ending
