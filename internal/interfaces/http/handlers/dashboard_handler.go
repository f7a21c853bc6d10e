package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
)

// DatasetVersionHeader carries the snapshot version a response was derived from.
const DatasetVersionHeader = "X-Dataset-Version"

// DashboardHandler serves the dashboard API.
type DashboardHandler struct {
	svc      dashboard.Service
	exporter *dashboard.Exporter
	logger   logging.Logger
}

// NewDashboardHandler returns a DashboardHandler.
func NewDashboardHandler(svc dashboard.Service, exporter *dashboard.Exporter, logger logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DashboardHandler{svc: svc, exporter: exporter, logger: logger.Named("http")}
}

// Options handles GET /api/v1/options.
func (h *DashboardHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.Header().Set(DatasetVersionHeader, opts.DatasetVersion)
	writeJSON(w, http.StatusOK, opts)
}

// CountriesResponse lists country options for a region selection.
type CountriesResponse struct {
	Regions   []string `json:"regions,omitempty"`
	Countries []string `json:"countries"`
}

// Countries handles GET /api/v1/countries?region=...
func (h *DashboardHandler) Countries(w http.ResponseWriter, r *http.Request) {
	regions := listParam(r.URL.Query(), paramRegion)
	countries, err := h.svc.Countries(r.Context(), regions)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, CountriesResponse{Regions: regions, Countries: countries})
}

// View handles GET /api/v1/dashboard.  An empty subset is a 200 with
// no_data set, not an error.
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.BuildView(r.Context(), q)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.Header().Set(DatasetVersionHeader, view.DatasetVersion)
	writeJSON(w, http.StatusOK, view)
}

// Records handles GET /api/v1/records.
func (h *DashboardHandler) Records(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	tbl, err := h.svc.Records(r.Context(), sel)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.Header().Set(DatasetVersionHeader, tbl.DatasetVersion)
	writeJSON(w, http.StatusOK, tbl)
}

// Export handles GET /api/v1/records/export?format=csv|xlsx.  The body is
// buffered so a failure can still produce a JSON error.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := dashboard.ParseExportFormat(r.URL.Query().Get(paramFormat))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	sel, err := parseSelection(r)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(r.Context(), sel, format, &buf); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Reload handles POST /api/v1/dataset/reload.
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reload(r.Context())
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	h.logger.WithContext(r.Context()).Info("dataset reloaded on request",
		logging.String("version", res.Version),
		logging.String("previous_version", res.PreviousVersion))
	w.Header().Set(DatasetVersionHeader, res.Version)
	writeJSON(w, http.StatusOK, res)
}

//Personal.AI order the ending
