package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
)

// TableReport describes one decoded table.
type TableReport struct {
	Table        string            `json:"table"`
	Source       string            `json:"source"`
	Rows         int               `json:"rows"`
	Regions      int               `json:"regions,omitempty"`
	Influence    bool              `json:"influence"`
	LegacyHeader map[string]string `json:"legacy_headers,omitempty"`
	Extra        []string          `json:"extra_columns,omitempty"`
}

// ValidationReport is printed by the validate command.
type ValidationReport struct {
	Valid  bool          `json:"valid"`
	Tables []TableReport `json:"tables"`
}

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and check the configured dataset files",
		Long: "Load the primary and (if configured) secondary tables exactly as the\n" +
			"server would and report their shape.  Exits non-zero on the first\n" +
			"missing column, malformed value or unreadable source.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()
			return runValidate(ctx, cmd, cliCtx)
		},
	}
}

func runValidate(ctx context.Context, cmd *cobra.Command, cliCtx *CLIContext) error {
	loader, _, cs, err := newLoader(cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer cs.Close()

	cfg := cliCtx.Config.Dataset
	tbl, err := loader.LoadPrimary(ctx, cfg.PrimaryPath)
	if err != nil {
		return err
	}
	report := ValidationReport{Valid: true, Tables: []TableReport{primaryReport(tbl)}}

	if cfg.SecondaryPath != "" {
		bars, err := loader.LoadSecondary(ctx, cfg.SecondaryPath)
		if err != nil {
			return err
		}
		report.Tables = append(report.Tables, TableReport{
			Table:        "secondary",
			Source:       bars.Source,
			Rows:         bars.Len(),
			LegacyHeader: legacyHeaders(bars.Schema),
		})
	}

	if wantsJSON(cliCtx) {
		return printJSON(cmd, report)
	}
	rows := make([][]string, 0, len(report.Tables))
	for _, t := range report.Tables {
		rows = append(rows, []string{
			t.Table,
			truncateString(t.Source, 48),
			strconv.Itoa(t.Rows),
			strconv.FormatBool(t.Influence),
			strconv.Itoa(len(t.LegacyHeader)),
		})
	}
	if err := renderTable(cmd.OutOrStdout(), []string{"Table", "Source", "Rows", "Influence", "Legacy headers"}, rows); err != nil {
		return err
	}
	writeLine(cmd.OutOrStdout(), "OK: dataset is valid")
	return nil
}

func primaryReport(tbl *readiness.Table) TableReport {
	return TableReport{
		Table:        "primary",
		Source:       tbl.Source,
		Rows:         tbl.Len(),
		Regions:      len(tbl.Regions()),
		Influence:    tbl.HasInfluence(),
		LegacyHeader: legacyHeaders(tbl.Schema),
		Extra:        tbl.ExtraColumns(),
	}
}

func legacyHeaders(s readiness.Schema) map[string]string {
	legacy := s.Legacy()
	if len(legacy) == 0 {
		return nil
	}
	out := make(map[string]string, len(legacy))
	for c, h := range legacy {
		out[string(c)] = h
	}
	return out
}

//Personal.AI order the ending
