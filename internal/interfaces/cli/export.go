package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	var (
		sel    selectionFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export the filtered table as CSV or XLSX",
		Example: "  obr export --region Asia --format xlsx --out asia.xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			f, err := dashboard.ParseExportFormat(format)
			if err != nil {
				return err
			}
			s, err := sel.selection(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()
			return runExport(ctx, cmd, cliCtx, s, f, out)
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, cliCtx *CLIContext, sel readiness.Selection, format dashboard.ExportFormat, path string) error {
	svc, closer, err := offline(ctx, cliCtx)
	if err != nil {
		return err
	}
	defer closer.Close()

	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	exporter := dashboard.NewExporter(svc, nil, cliCtx.Logger)
	if err := exporter.Export(ctx, sel, format, w); err != nil {
		return err
	}
	if path != "" {
		cliCtx.Logger.Info("table exported", logging.String("path", path), logging.String("format", string(format)))
	}
	return nil
}

//Personal.AI order the ending
