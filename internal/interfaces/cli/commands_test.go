package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/config"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/internal/testutil"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

func TestSummary_AllRegions(t *testing.T) {
	primary, _ := fixtures(t)
	out, err := run(t, "summary", "--primary", primary)
	require.NoError(t, err)
	assert.Contains(t, out, "$2.45 Billion")
	assert.Contains(t, out, "Avg. opportunity: 2.00")
	assert.Contains(t, out, "Markets:          3")
}

func TestSummary_RegionAndRows(t *testing.T) {
	primary, _ := fixtures(t)
	out, err := run(t, "summary", "--primary", primary, "--region", "Europe", "--rows", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "$2.00 Billion")
	assert.Contains(t, out, "2.25")
	assert.Contains(t, out, "Germany")
	assert.NotContains(t, out, "Japan")
}

func TestSummary_EmptySelection(t *testing.T) {
	primary, _ := fixtures(t)
	out, err := run(t, "summary", "--primary", primary, "--country=")
	require.NoError(t, err)
	assert.Contains(t, out, "No data matches the current filter.")
	assert.Contains(t, out, "n/a")
}

func TestSummary_CountryFilterKeepsRegionCountries(t *testing.T) {
	primary, _ := fixtures(t)
	out, err := run(t, "summary", "--primary", primary, "--region", "Europe", "--country-filter")
	require.NoError(t, err)
	assert.Contains(t, out, "$2.00 Billion")
	assert.Contains(t, out, "Markets:          2")
	assert.NotContains(t, out, "No data matches")
}

func TestSummary_JSON(t *testing.T) {
	primary, secondary := fixtures(t)
	out, err := run(t, "summary", "--primary", primary, "--secondary", secondary, "--influence", "low", "-o", "json")
	require.NoError(t, err)

	var view dashboard.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Japan", view.Rows[0].Country)
	require.NotNil(t, view.Bar)
	require.Len(t, view.Bar.Bars, 1)
	assert.Equal(t, "20%", view.Bar.Bars[0].DepthOfRelationship)
}

func TestSummary_Bars(t *testing.T) {
	primary, secondary := fixtures(t)
	out, err := run(t, "summary", "--primary", primary, "--secondary", secondary, "--bars", "--sort")
	require.NoError(t, err)
	assert.Contains(t, out, "40%")
	require.Contains(t, out, "Japan")
	assert.Less(t, strings.Index(out, "Germany"), strings.Index(out, "Japan"), "sorted by descending opportunity")
}

func TestSummary_InvalidInfluence(t *testing.T) {
	primary, _ := fixtures(t)
	_, err := run(t, "summary", "--primary", primary, "--influence", "extreme")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSelectionInvalid))
}

func TestValidate_JSON(t *testing.T) {
	primary, secondary := fixtures(t)
	out, err := run(t, "validate", "--primary", primary, "--secondary", secondary, "-o", "json")
	require.NoError(t, err)

	var report ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)
	require.Len(t, report.Tables, 2)
	assert.Equal(t, 3, report.Tables[0].Rows)
	assert.Equal(t, 2, report.Tables[0].Regions)
	assert.True(t, report.Tables[0].Influence)
	assert.Equal(t, 2, report.Tables[1].Rows)
}

func TestValidate_MissingFile(t *testing.T) {
	fixtures(t)
	_, err := run(t, "validate", "--primary", filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetLoadFailed))
}

func TestValidate_MalformedFile(t *testing.T) {
	fixtures(t)
	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Region,Country\nEurope,Germany\n"), 0o644))
	_, err := run(t, "validate", "--primary", bad)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetColumnMissing))
}

func TestExport_CSVToStdout(t *testing.T) {
	primary, _ := fixtures(t)
	out, err := run(t, "export", "--primary", primary, "--region", "Asia")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Region,Country"))
	assert.Contains(t, lines[1], "Japan")
}

func TestExport_XLSXToFile(t *testing.T) {
	primary, _ := fixtures(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	_, err := run(t, "export", "--primary", primary, "--format", "xlsx", "--out", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Readiness")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestExport_BadFormat(t *testing.T) {
	primary, _ := fixtures(t)
	_, err := run(t, "export", "--primary", primary, "--format", "pdf")
	assert.Error(t, err)
}

func TestRunServe_MissingPrimaryIsFatal(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Dataset.PrimaryPath = filepath.Join(t.TempDir(), "absent.csv")
	cfg.Metrics.Enabled = false

	err := runServe(context.Background(), &CLIContext{Config: cfg, Logger: logging.NewNopLogger()})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetLoadFailed))
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	primary, _ := fixtures(t)
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Dataset.PrimaryPath = primary
	cfg.Metrics.Namespace = "servetest"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, &CLIContext{Config: cfg, Logger: logging.NewNopLogger()}) }()

	time.Sleep(200 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestOnConfigChange(t *testing.T) {
	cur := &config.Config{}
	cur.Dataset.PrimaryPath = "data.csv"

	t.Run("same paths reload", func(t *testing.T) {
		src := &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1"), Next: testutil.SampleDataset(t, "v2")}
		logger := testutil.NewMockLogger()
		onConfigChange(context.Background(), cur, cur, src, logger)
		assert.Equal(t, 1, src.Reloads())
		assert.True(t, logger.HasMessage("info", "dataset reloaded after config change"))
	})

	t.Run("new paths need restart", func(t *testing.T) {
		src := &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1")}
		logger := testutil.NewMockLogger()
		next := &config.Config{}
		next.Dataset.PrimaryPath = "other.csv"
		onConfigChange(context.Background(), cur, next, src, logger)
		assert.Zero(t, src.Reloads())
		_, ok := logger.Find("warn", "dataset paths changed in config; restart to apply")
		assert.True(t, ok)
	})

	t.Run("failed reload is logged", func(t *testing.T) {
		src := &testutil.StaticSource{DS: testutil.SampleDataset(t, "v1"), Err: errors.Internal("unreadable")}
		logger := testutil.NewMockLogger()
		onConfigChange(context.Background(), cur, cur, src, logger)
		_, ok := logger.Find("warn", "reload after config change failed")
		assert.True(t, ok)
	})
}

//Personal.AI order the ending
