// Package dataset loads the readiness tables from delimited files and keeps
// the current snapshot available to every request.
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Delimiter    rune
	FetchTimeout time.Duration
	HTTPClient   *http.Client
	Objects      ObjectReader
}

// Loader turns a path into a decoded table.
type Loader struct {
	delimiter    rune
	fetchTimeout time.Duration
	httpClient   *http.Client
	objects      ObjectReader
	logger       logging.Logger
}

// NewLoader returns a Loader.  A zero delimiter means comma.
func NewLoader(cfg LoaderConfig, logger logging.Logger) *Loader {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{
		delimiter:    cfg.Delimiter,
		fetchTimeout: cfg.FetchTimeout,
		httpClient:   cfg.HTTPClient,
		objects:      cfg.Objects,
		logger:       logger,
	}
}

// Table names reported by TableError and LoadObserver.
const (
	TablePrimary   = "primary"
	TableSecondary = "secondary"
)

// LoadObserver is told about each table read by Load.
type LoadObserver func(table string, rows int, elapsed time.Duration, err error)

// TableError says which table of a Load failed.  It unwraps to the
// underlying AppError.
type TableError struct {
	Table  string
	Source string
	Err    error
}

func (e *TableError) Error() string { return e.Table + " table: " + e.Err.Error() }
func (e *TableError) Unwrap() error { return e.Err }

// Load reads both tables and stamps the snapshot with a fresh version.  An
// empty secondary path leaves Bars nil.  observe may be nil.
func (l *Loader) Load(ctx context.Context, primary, secondary string, observe LoadObserver) (*readiness.Dataset, error) {
	if observe == nil {
		observe = func(string, int, time.Duration, error) {}
	}

	start := time.Now()
	tbl, err := l.LoadPrimary(ctx, primary)
	observe(TablePrimary, tbl.Len(), time.Since(start), err)
	if err != nil {
		return nil, &TableError{Table: TablePrimary, Source: primary, Err: err}
	}

	ds := &readiness.Dataset{Table: tbl, LoadedAt: tbl.LoadedAt}
	if secondary != "" {
		start = time.Now()
		bars, err := l.LoadSecondary(ctx, secondary)
		observe(TableSecondary, bars.Len(), time.Since(start), err)
		if err != nil {
			return nil, &TableError{Table: TableSecondary, Source: secondary, Err: err}
		}
		ds.Bars = bars
	}
	ds.Version = newVersion()
	return ds, nil
}

// LoadPrimary reads and decodes the primary table at path.
func (l *Loader) LoadPrimary(ctx context.Context, path string) (*readiness.Table, error) {
	data, err := l.readSource(ctx, path)
	if err != nil {
		return nil, err
	}
	tbl, err := l.DecodePrimary(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}
	if legacy := tbl.Schema.Legacy(); len(legacy) > 0 {
		for col, header := range legacy {
			l.logger.Info("legacy dataset header mapped",
				logging.String("source", path),
				logging.String("header", header),
				logging.String("column", string(col)))
		}
	}
	return tbl, nil
}

// LoadSecondary reads and decodes the bar chart table at path.
func (l *Loader) LoadSecondary(ctx context.Context, path string) (*readiness.BarTable, error) {
	data, err := l.readSource(ctx, path)
	if err != nil {
		return nil, err
	}
	return l.DecodeSecondary(bytes.NewReader(data), path)
}

// DecodePrimary parses a primary table from r.
func (l *Loader) DecodePrimary(r io.Reader, source string) (*readiness.Table, error) {
	header, rows, err := l.readAll(r, source)
	if err != nil {
		return nil, err
	}
	schema, err := readiness.ResolveSchema(header, readiness.PrimaryColumns, readiness.ColumnInfluence)
	if err != nil {
		return nil, withSource(err, source)
	}

	records := make([]readiness.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRecord(schema, row)
		if err != nil {
			return nil, rowError(err, source, i+2)
		}
		records = append(records, rec)
	}
	return readiness.NewTable(records, schema, source), nil
}

// DecodeSecondary parses a bar chart table from r.
func (l *Loader) DecodeSecondary(r io.Reader, source string) (*readiness.BarTable, error) {
	header, rows, err := l.readAll(r, source)
	if err != nil {
		return nil, err
	}
	schema, err := readiness.ResolveSchema(header, readiness.SecondaryColumns)
	if err != nil {
		return nil, withSource(err, source)
	}

	records := make([]readiness.BarRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeBarRecord(schema, row)
		if err != nil {
			return nil, rowError(err, source, i+2)
		}
		records = append(records, rec)
	}
	return readiness.NewBarTable(records, schema, source), nil
}

// newVersion stamps a snapshot.  Views cached under an older version are
// never served for a newer one.
func newVersion() string { return uuid.NewString() }

func (l *Loader) readAll(r io.Reader, source string) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.delimiter
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, nil, errors.New(errors.ErrCodeDatasetMalformed, "dataset has no header row").WithDetail(source)
		}
		return nil, nil, errors.Wrap(err, errors.ErrCodeDatasetMalformed, "failed to parse dataset header").WithDetail(source)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrCodeDatasetMalformed, "failed to parse dataset").WithDetail(source)
		}
		if blank(row) {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func decodeRecord(s readiness.Schema, row []string) (readiness.Record, error) {
	var (
		rec readiness.Record
		err error
	)
	rec.Region = cell(s, row, readiness.ColumnRegion)
	rec.Country = cell(s, row, readiness.ColumnCountry)
	if rec.Region == "" || rec.Country == "" {
		return rec, fmt.Errorf("region and country must not be empty")
	}
	if rec.MarketSize, err = number(s, row, readiness.ColumnMarketSize); err != nil {
		return rec, err
	}
	if rec.OpportunityIndex, err = number(s, row, readiness.ColumnOpportunityIndex); err != nil {
		return rec, err
	}
	if rec.RegulatoryIndex, err = number(s, row, readiness.ColumnRegulatoryIndex); err != nil {
		return rec, err
	}
	if s.Has(readiness.ColumnInfluence) {
		if raw := cell(s, row, readiness.ColumnInfluence); raw != "" {
			tier, perr := readiness.ParseInfluenceTier(raw)
			if perr != nil || tier.IsAll() {
				return rec, fmt.Errorf("column %q: invalid influence tier %q", readiness.ColumnInfluence, raw)
			}
			rec.Influence = tier
		}
	}
	if len(s.Extra) > 0 {
		rec.Extra = make(map[string]string, len(s.Extra))
		for i, name := range s.Extra {
			rec.Extra[name] = strings.TrimSpace(row[s.ExtraIndex[i]])
		}
	}
	return rec, nil
}

func decodeBarRecord(s readiness.Schema, row []string) (readiness.BarRecord, error) {
	var (
		rec readiness.BarRecord
		err error
	)
	rec.Country = cell(s, row, readiness.ColumnCountry)
	if rec.Country == "" {
		return rec, fmt.Errorf("country must not be empty")
	}
	if rec.OpportunityIndex, err = number(s, row, readiness.ColumnOpportunityIndex); err != nil {
		return rec, err
	}
	count, err := number(s, row, readiness.ColumnAggregatorCount)
	if err != nil {
		return rec, err
	}
	if count != math.Trunc(count) || count < 0 {
		return rec, fmt.Errorf("column %q: %v is not a non-negative whole number", readiness.ColumnAggregatorCount, count)
	}
	rec.AggregatorCount = int(count)
	if rec.FintechBankRatio, err = number(s, row, readiness.ColumnFintechBankRatio); err != nil {
		return rec, err
	}
	if rec.DepthOfRelationship, err = fraction(s, row, readiness.ColumnDepthOfRelationship); err != nil {
		return rec, err
	}
	return rec, nil
}

func cell(s readiness.Schema, row []string, c readiness.Column) string {
	return strings.TrimSpace(row[s.Index[c]])
}

// number parses a numeric cell, tolerating thousands separators and a
// leading currency sign.
func number(s readiness.Schema, row []string, c readiness.Column) (float64, error) {
	raw := cell(s, row, c)
	clean := strings.NewReplacer(",", "", "$", "", " ", "").Replace(raw)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("column %q: %q is not a number", c, raw)
	}
	return v, nil
}

// fraction parses a value in [0,1]; "25%" is accepted as 0.25.
func fraction(s readiness.Schema, row []string, c readiness.Column) (float64, error) {
	raw := cell(s, row, c)
	pct := strings.HasSuffix(raw, "%")
	clean := strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("column %q: %q is not a number", c, raw)
	}
	if pct {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("column %q: %q is outside [0, 1]", c, raw)
	}
	return v, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func rowError(err error, source string, line int) error {
	return errors.Wrap(err, errors.ErrCodeDatasetMalformed, "invalid dataset row").
		WithDetail(fmt.Sprintf("%s line %d: %v", source, line, err))
}

func withSource(err error, source string) error {
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		detail := source
		if ae.Detail != "" {
			detail = source + ": " + ae.Detail
		}
		return ae.WithDetail(detail)
	}
	return err
}

//Personal.AI order the ending
