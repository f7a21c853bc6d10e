package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
)

// renderTable writes headers and rows as an aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// colorizeInfluence colors a tier the way the scatter legend does.
func colorizeInfluence(tier string, noColor bool) string {
	if noColor || tier == "" {
		return tier
	}
	switch readiness.InfluenceTier(tier) {
	case readiness.InfluenceLow:
		return color.MagentaString(tier)
	case readiness.InfluenceMedium:
		return color.YellowString(tier)
	case readiness.InfluenceHigh:
		return color.New(color.FgHiRed).Sprint(tier)
	}
	return tier
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func joinOrAll(values []string) string {
	if len(values) == 0 {
		return "(all)"
	}
	return strings.Join(values, ", ")
}

func writeLine(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

//Personal.AI order the ending
