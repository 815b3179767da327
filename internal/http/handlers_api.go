package http

import (
	"net/http"

	applog "commissions/internal/log"
	"commissions/internal/render"
)

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	key, dir, err := s.parseSort(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	report := s.report.Load()
	rows, err := s.sortedRows(r.Context(), report, key, dir)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to sort report rows",
			applog.FieldError, err, applog.FieldOperation, applog.OpSort)
		writeJSONError(w, http.StatusInternalServerError, "failed to sort report")
		return
	}
	writeJSON(w, http.StatusOK, render.NewDocumentFromRows(*report, rows, key, dir))
}

type rulesResponse struct {
	CurrencySymbol string        `json:"currency_symbol"`
	Rules          []render.Rule `json:"rules"`
}

func (s *Server) handleAPIRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rulesResponse{
		CurrencySymbol: s.opts.CurrencySymbol,
		Rules:          render.Rules(s.opts.CurrencySymbol),
	})
}
