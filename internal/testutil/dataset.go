package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// SampleHeader is the canonical primary header with the influence column.
var SampleHeader = []string{"Region", "Country", "Market Size", "Opportunity Index", "Regulatory Index", "Influence"}

// SampleDataset returns a three-market dataset over two regions:
// Europe (Germany 1200, France 800) and Asia (Japan 450).
func SampleDataset(t testing.TB, version string) *readiness.Dataset {
	t.Helper()
	schema, err := readiness.ResolveSchema(SampleHeader, readiness.PrimaryColumns, readiness.ColumnInfluence)
	require.NoError(t, err)
	tbl := readiness.NewTable([]readiness.Record{
		{Region: "Europe", Country: "Germany", MarketSize: 1200, OpportunityIndex: 2.5, RegulatoryIndex: 8, Influence: readiness.InfluenceHigh},
		{Region: "Europe", Country: "France", MarketSize: 800, OpportunityIndex: 2, RegulatoryIndex: 6, Influence: readiness.InfluenceMedium},
		{Region: "Asia", Country: "Japan", MarketSize: 450, OpportunityIndex: 1.5, RegulatoryIndex: 5, Influence: readiness.InfluenceLow},
	}, schema, "sample.csv")
	return &readiness.Dataset{Table: tbl, Version: version, LoadedAt: time.Now()}
}

// StaticSource serves a fixed snapshot.  Reload publishes Next, or fails
// with Err when set.
type StaticSource struct {
	mu      sync.Mutex
	DS      *readiness.Dataset
	Next    *readiness.Dataset
	Err     error
	reloads int
}

func (s *StaticSource) Current() (*readiness.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DS == nil {
		return nil, errors.New(errors.ErrCodeDatasetNotLoaded, "dataset not loaded")
	}
	return s.DS, nil
}

func (s *StaticSource) Reload(context.Context) (*readiness.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloads++
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Next != nil {
		s.DS = s.Next
	}
	if s.DS == nil {
		return nil, errors.New(errors.ErrCodeDatasetNotLoaded, "dataset not loaded")
	}
	return s.DS, nil
}

func (s *StaticSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.DS != nil
}

// Reloads counts Reload calls.
func (s *StaticSource) Reloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloads
}

//Personal.AI order the ending
