package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/domain/chart"
)

// NewSummaryCmd creates the summary command.
func NewSummaryCmd() *cobra.Command {
	var (
		sel  selectionFlags
		rows bool
		bars bool
		sort bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the KPI cards for a filter selection",
		Example: "  obr summary --primary data.csv --region Europe --influence High\n" +
			"  obr summary --country Germany --country France --rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			s, err := sel.selection(cmd)
			if err != nil {
				return err
			}
			q := dashboard.Query{Selection: s, Bar: chart.BarOptions{Sort: sort}}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()
			return runSummary(ctx, cmd, cliCtx, q, rows, bars)
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&rows, "rows", false, "also print the filtered rows")
	cmd.Flags().BoolVar(&bars, "bars", false, "also print the aggregator bar chart data")
	cmd.Flags().BoolVar(&sort, "sort", false, "sort bars by opportunity index")
	return cmd
}

func runSummary(ctx context.Context, cmd *cobra.Command, cliCtx *CLIContext, q dashboard.Query, withRows, withBars bool) error {
	svc, closer, err := offline(ctx, cliCtx)
	if err != nil {
		return err
	}
	defer closer.Close()

	view, err := svc.BuildView(ctx, q)
	if err != nil {
		return err
	}
	if wantsJSON(cliCtx) {
		return printJSON(cmd, view)
	}

	out := cmd.OutOrStdout()
	writeLine(out, "Dataset:          %s", view.DatasetVersion)
	writeLine(out, "Regions:          %s", joinOrAll(view.Selection.Regions))
	if view.Filter.CountryApplied {
		writeLine(out, "Countries:        %s", joinOrAll(view.Selection.Countries))
	}
	writeLine(out, "Influence:        %s", view.Selection.Influence)
	if view.Filter.InfluenceSkipped {
		writeLine(out, "                  (no influence column; tier ignored)")
	}
	writeLine(out, "Markets:          %d", view.Summary.Count)
	writeLine(out, "Total market:     %s", view.TotalLabel)
	writeLine(out, "Avg. opportunity: %s", view.AverageLabel)
	if view.NoData {
		writeLine(out, "\nNo data matches the current filter.")
		return nil
	}

	if withRows {
		writeLine(out, "")
		headers := []string{"Region", "Country", "Market Size", "Opportunity", "Regulatory"}
		influence := false
		for _, c := range view.Columns {
			if c == "Influence" {
				influence = true
				headers = append(headers, c)
			}
		}
		body := make([][]string, 0, len(view.Rows))
		for _, r := range view.Rows {
			row := []string{
				r.Region,
				truncateString(r.Country, 32),
				strconv.FormatFloat(r.MarketSize, 'f', 2, 64),
				strconv.FormatFloat(r.OpportunityIndex, 'f', 2, 64),
				strconv.FormatFloat(r.RegulatoryIndex, 'f', 2, 64),
			}
			if influence {
				row = append(row, colorizeInfluence(string(r.Influence), cliCtx.NoColor))
			}
			body = append(body, row)
		}
		if err := renderTable(out, headers, body); err != nil {
			return err
		}
	}

	if withBars && view.Bar != nil {
		writeLine(out, "")
		body := make([][]string, 0, len(view.Bar.Bars))
		for _, b := range view.Bar.Bars {
			body = append(body, []string{
				b.Country,
				strconv.FormatFloat(b.OpportunityIndex, 'f', 2, 64),
				strconv.Itoa(b.AggregatorCount),
				strconv.FormatFloat(b.FintechBankRatio, 'f', 2, 64),
				b.DepthOfRelationship,
			})
		}
		return renderTable(out, []string{"Country", "Opportunity", "Aggregators", "Fintech/Bank", "Depth"}, body)
	}
	return nil
}

//Personal.AI order the ending
