package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/satchel/internal/common"
)

// --- Report handlers ---

// reportRange parses the from/to query parameters (RFC 3339). Absent
// values default to the trailing 30 days.
func reportRange(r *http.Request) (time.Time, time.Time, string) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, "invalid 'from' timestamp: " + v
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, "invalid 'to' timestamp: " + v
		}
		to = parsed
	}
	return from, to, ""
}

// handleReportProducts handles GET /api/reports/products?from=&to=.
func (s *Server) handleReportProducts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	from, to, errMsg := reportRange(r)
	if errMsg != "" {
		WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	caller := common.CallerFromContext(r.Context())
	sales, err := s.app.ReportService.SumQuantityByProduct(r.Context(), caller, from, to)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sales)
}

// handleReportCreators handles GET /api/reports/creators?from=&to=.
func (s *Server) handleReportCreators(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	from, to, errMsg := reportRange(r)
	if errMsg != "" {
		WriteError(w, http.StatusBadRequest, errMsg)
		return
	}

	caller := common.CallerFromContext(r.Context())
	sales, err := s.app.ReportService.SumQuantityByCreator(r.Context(), caller, from, to)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sales)
}
