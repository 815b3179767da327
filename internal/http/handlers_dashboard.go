package http

import (
	"bytes"
	"net/http"

	applog "commissions/internal/log"
	"commissions/internal/render"
)

// handleIndex renders the full dashboard. An invalid ordering falls back to
// the configured default instead of failing the page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	report := s.report.Load()

	key, dir, err := s.parseSort(r)
	if err != nil {
		logger.WarnContext(ctx, "Invalid sort parameters, using defaults",
			applog.FieldQuery, r.URL.RawQuery, applog.FieldError, err)
		key, dir = s.opts.DefaultSort, s.opts.DefaultDirection
	}

	rows, err := s.sortedRows(ctx, report, key, dir)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to sort report rows",
			applog.FieldError, err, applog.FieldOperation, applog.OpSort)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	data := dashboardView{
		GeneratedAt: render.GeneratedAtLine(*report),
		Cards:       render.Cards(*report, s.opts.CurrencySymbol),
		Table:       newTableView(rows, key, dir, s.opts.CurrencySymbol),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		logger.ErrorContext(ctx, "Dashboard template execution failed",
			applog.FieldError, err, applog.FieldOperation, applog.OpRender)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleReportTable renders the table partial swapped in by header clicks.
func (s *Server) handleReportTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	report := s.report.Load()

	key, dir, err := s.parseSort(r)
	if err != nil {
		BadRequestError(err.Error()).TriggerErrorNotification("Invalid sort order").Write(w)
		return
	}

	rows, err := s.sortedRows(ctx, report, key, dir)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to sort report rows",
			applog.FieldError, err, applog.FieldOperation, applog.OpSort)
		InternalServerError("Failed to sort the table").Write(w)
		return
	}
	view := newTableView(rows, key, dir, s.opts.CurrencySymbol)

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "report_table", view); err != nil {
		logger.ErrorContext(ctx, "Report table template execution failed",
			applog.FieldError, err, applog.FieldOperation, applog.OpRender)
		InternalServerError("Failed to render the table").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerReportSorted(key, dir).
		Header("Vary", "HX-Request").
		BodyHTML(buf.Bytes()).
		Write(w)
}

// handleRules renders the commission rules dialog.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "rules", newRulesView(s.opts.CurrencySymbol)); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Rules template execution failed",
			applog.FieldError, err, applog.FieldOperation, applog.OpRender)
		InternalServerError("Failed to render the rules").Write(w)
		return
	}
	NewHTMXResponse().TriggerRulesOpened().BodyHTML(buf.Bytes()).Write(w)
}
