package handlers

import (
	"testing"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/testutil"
)

func testDataset(t *testing.T, version string) *readiness.Dataset {
	return testutil.SampleDataset(t, version)
}

func newTestHandler(t *testing.T, src *testutil.StaticSource) *DashboardHandler {
	t.Helper()
	svc := dashboard.NewService(src, dashboard.Config{})
	return NewDashboardHandler(svc, dashboard.NewExporter(svc, nil, nil), nil)
}

//Personal.AI order the ending
