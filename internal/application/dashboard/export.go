package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// ExportFormat is a table download format.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"

	exportSheet = "Readiness"
)

// ParseExportFormat accepts csv or xlsx; empty means csv.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", errors.InvalidParam("unsupported export format").WithDetail(s)
}

// ContentType is the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName is the suggested download name.
func (f ExportFormat) FileName() string {
	return "readiness." + string(f)
}

// Exporter writes the filtered table.
type Exporter struct {
	svc     Service
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewExporter returns an Exporter over svc.
func NewExporter(svc Service, metrics *prometheus.AppMetrics, logger logging.Logger) *Exporter {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Exporter{svc: svc, metrics: metrics, logger: logger.Named("export")}
}

// Export filters by sel and writes the rows to w in format.
func (e *Exporter) Export(ctx context.Context, sel readiness.Selection, format ExportFormat, w io.Writer) error {
	tbl, err := e.svc.Records(ctx, sel)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		err = WriteXLSX(w, tbl)
	default:
		err = WriteCSV(w, tbl)
	}
	prometheus.RecordExport(e.metrics, string(format), err)
	if err != nil {
		e.logger.WithContext(ctx).Error("export failed", logging.String("format", string(format)), logging.Err(err))
		return err
	}
	e.logger.WithContext(ctx).Debug("table exported",
		logging.String("format", string(format)),
		logging.Int("rows", len(tbl.Rows)))
	return nil
}

// WriteCSV writes a header row and one line per record.
func WriteCSV(w io.Writer, tbl *RecordTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Columns); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to write csv header")
	}
	if err := cw.WriteAll(tbl.Cells()); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to write csv rows")
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook.  Numeric columns are stored as
// numbers so spreadsheet formulas work on them.
func WriteXLSX(w io.Writer, tbl *RecordTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to name sheet")
	}

	header := make([]interface{}, len(tbl.Columns))
	for i, c := range tbl.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to write header")
	}

	for i, r := range tbl.Rows {
		row := []interface{}{r.Region, r.Country, r.MarketSize, r.OpportunityIndex, r.RegulatoryIndex}
		if tbl.influence {
			row = append(row, string(r.Influence))
		}
		for _, name := range tbl.extras {
			row = append(row, r.Extra[name])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to address row")
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to write row").WithDetail(fmt.Sprintf("row %d", i+1))
		}
	}

	if len(tbl.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(tbl.Columns))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to size columns")
		}
		if err := f.SetColWidth(exportSheet, "A", last, 18); err != nil {
			return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to size columns")
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to write workbook")
	}
	return nil
}

//Personal.AI order the ending
