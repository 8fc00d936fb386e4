/*
handlers.go - HTTP API handlers for report generation and retrieval

PURPOSE:
  Exposes the reporting engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine and
  the archive.

ENDPOINTS:
  GET    /api/reporters               List registered reporters
  GET    /api/reports                 List archived runs (no documents)
  GET    /api/reports/{id}            Get one archived run with document
  POST   /api/reports/{reporter}      Run a reporter now, archive the result
  GET    /api/reports/{reporter}/latest  Latest archived run for a reporter

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Runner:  The report engine bound to the upstream client
  - Archive: SQLite persistence for finished runs
  - Logger:  Structured logging

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Unknown reporter, malformed id
  - 404: Archive miss
  - 500: Engine configuration or storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/loyalty-reporter/factory"
	"github.com/warp/loyalty-reporter/generic"
	"github.com/warp/loyalty-reporter/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Runner  *generic.Runner
	Archive *sqlite.Archive
	Logger  *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(runner *generic.Runner, archive *sqlite.Archive, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Runner: runner, Archive: archive, Logger: logger}
}

// =============================================================================
// REPORTER CATALOG
// =============================================================================

// ListReporters returns every registered reporter.
// GET /api/reporters
func (h *Handler) ListReporters(w http.ResponseWriter, r *http.Request) {
	adapters := factory.Adapters()
	dtos := make([]ReporterDTO, 0, len(adapters))
	for _, adapter := range adapters {
		dtos = append(dtos, ReporterDTO{Slug: adapter.Key, Title: adapter.Title})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORT RUNS
// =============================================================================

// GenerateReport runs one reporter synchronously and archives the result.
// POST /api/reports/{reporter}
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "key")

	adapter, err := factory.Adapter(slug)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown reporter", err)
		return
	}

	report, err := h.Runner.Run(ctx, adapter)
	if err != nil {
		// Run only fails on configuration errors.
		writeError(w, http.StatusInternalServerError, "report run failed", err)
		return
	}

	id, err := h.Archive.Save(ctx, report)
	if err != nil {
		h.Logger.Error("archive save failed", zap.String("reporter", slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to archive report", err)
		return
	}

	writeJSON(w, http.StatusCreated, ReportDTO{
		ID:          id,
		Reporter:    report.Adapter,
		Title:       report.Title,
		GeneratedAt: report.GeneratedAt,
		Stats:       toStatsDTO(report.Stats),
		Document:    report.Document,
	})
}

// ListReports returns archived runs, newest first, without documents.
// GET /api/reports?reporter=tiers&limit=20
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reporter := r.URL.Query().Get("reporter")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	reports, err := h.Archive.List(ctx, reporter, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports", err)
		return
	}

	dtos := make([]ReportDTO, 0, len(reports))
	for _, report := range reports {
		dtos = append(dtos, toReportDTO(report, false))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetReport returns one archived run by id, document included.
// GET /api/reports/{id}
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "report id must be numeric", err)
		return
	}

	report, err := h.Archive.Get(ctx, id)
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "report not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report, true))
}

// LatestReport returns the newest archived run for one reporter.
// GET /api/reports/{reporter}/latest
func (h *Handler) LatestReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "key")

	if _, err := factory.Adapter(slug); err != nil {
		writeError(w, http.StatusBadRequest, "unknown reporter", err)
		return
	}

	report, err := h.Archive.Latest(ctx, slug)
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "no reports for reporter", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report, true))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
