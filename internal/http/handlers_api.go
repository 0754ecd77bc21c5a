package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"budget/internal/chart"
	"budget/internal/core"
	"budget/internal/export"
	applog "budget/internal/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) failJSON(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "Request failed", applog.FieldOperation, op, applog.FieldError, err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleYearChart returns the Chart.js configuration for one year.
func (s *Server) handleYearChart(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.PathValue("year"))
	if err != nil {
		s.failJSON(w, r, applog.OpRender, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, chart.LineChart(chart.FromSeries(year, s.svc.YearlySeries(year))))
}

func (s *Server) handleMonthTotals(w http.ResponseWriter, r *http.Request) {
	key, err := parseMonthKey(r)
	if err != nil {
		s.failJSON(w, r, applog.OpRead, err)
		return
	}
	totals, err := s.svc.Totals(key)
	if err != nil {
		s.failJSON(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Key string `json:"key"`
		core.Totals
	}{Key: key.String(), Totals: totals})
}

// handleExport serves /export/{year}.xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".xlsx")
	if !ok {
		http.NotFound(w, r)
		return
	}
	year, err := parseYear(name)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}

	b, err := export.YearlyWorkbook(year, s.svc.YearlySeries(year))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed", applog.FieldOperation, applog.OpExport, applog.FieldYear, year, applog.FieldError, err)
		InternalServerError("Could not build the workbook").Write(w)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="budget-%d.xlsx"`, year))
	_, _ = w.Write(b)
}

// handleHealth performs basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether templates are loaded and storage answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{"templates": "ok"}

	if s.ready == nil {
		checks["storage"] = "ok"
	} else if err := s.ready(ctx); err != nil {
		checks["storage"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{"active_clients": s.limiter.ActiveClients()}
	checks["requests_total"] = s.tracer.TotalRequests()
	checks["series_cache"] = s.svc.SeriesCache().Stats()

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}
