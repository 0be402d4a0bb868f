package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"violet/internal/core"
	"violet/internal/log"
	"violet/internal/report"
	"violet/internal/tracker"
)

type dashboardResponse struct {
	tracker.DashboardView
	Currency         string `json:"currency"`
	FormattedBalance string `json:"formatted_balance,omitempty"`
	FormattedTotal   string `json:"formatted_total,omitempty"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	year, month := s.tracker.ReferenceMonth()
	key := fmt.Sprintf("%04d-%02d", year, month)

	view, ok := s.dashboardCache.Get(key)
	if !ok {
		view = s.tracker.Dashboard()
		s.dashboardCache.Set(key, view)
	}

	settings := s.tracker.Settings()
	resp := dashboardResponse{DashboardView: view, Currency: settings.Currency}
	if view.Totals != nil {
		resp.FormattedBalance = formatAmount(view.Totals.Balance, settings.Currency)
	}
	if view.PaidPending != nil {
		resp.FormattedTotal = formatAmount(view.PaidPending.Total, settings.Currency)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	typ := core.TransactionType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = core.Expense
	}
	if err := typ.Validate(); err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Breakdown(typ))
}

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Days())
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	s.tracker.LoadMore()
	writeJSON(w, http.StatusOK, s.tracker.Days())
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Months())
}

func (s *Server) handleNavigateMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	year, month := s.tracker.NavigateMonth(req.Delta)
	s.logger.InfoContext(r.Context(), "Reference month changed",
		log.FieldYear, year, log.FieldMonth, month)
	writeJSON(w, http.StatusOK, s.tracker.Days())
}

func (s *Server) handleSelectMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.tracker.SelectMonth(req.Key); err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Days())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	filter := report.TypeFilter(r.URL.Query().Get("type"))
	if filter == "" {
		filter = report.FilterAll
	}
	switch filter {
	case report.FilterAll, report.FilterIncome, report.FilterExpense:
	default:
		writeError(w, http.StatusBadRequest, "type must be one of all, income, expense")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.History(r.URL.Query().Get("q"), filter))
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.tracker.Transactions())
	case http.MethodPost:
		var draft tracker.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		t, err := s.tracker.Add(r.Context(), draft)
		if err != nil {
			writeCommandError(w, err)
			return
		}
		s.invalidateViews()
		writeJSON(w, http.StatusCreated, t)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleTransactionByID routes /api/transactions/{id} and
// /api/transactions/{id}/toggle.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	switch {
	case action == "toggle" && r.Method == http.MethodPost:
		t, err := s.tracker.ToggleStatus(r.Context(), id)
		if err != nil {
			writeCommandError(w, err)
			return
		}
		s.invalidateViews()
		writeJSON(w, http.StatusOK, t)
	case action == "" && r.Method == http.MethodPut:
		var draft tracker.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		t, err := s.tracker.Update(r.Context(), id, draft)
		if err != nil {
			writeCommandError(w, err)
			return
		}
		s.invalidateViews()
		writeJSON(w, http.StatusOK, t)
	case action == "" && r.Method == http.MethodDelete:
		if err := s.tracker.Delete(r.Context(), id); err != nil {
			writeCommandError(w, err)
			return
		}
		s.invalidateViews()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "PUT, DELETE, POST")
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := s.tracker.ClearAll(r.Context()); err != nil {
		writeCommandError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

type settingsResponse struct {
	core.Settings
	Symbol     string   `json:"symbol"`
	Currencies []string `json:"currencies"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings := s.tracker.Settings()
		writeJSON(w, http.StatusOK, settingsResponse{
			Settings:   settings,
			Symbol:     core.CurrencySymbol(settings.Currency),
			Currencies: core.Currencies,
		})
	case http.MethodPut:
		var req core.Settings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.tracker.SetCurrency(r.Context(), req.Currency); err != nil {
			writeCommandError(w, err)
			return
		}
		if err := s.tracker.SetTheme(r.Context(), req.DarkTheme); err != nil {
			writeCommandError(w, err)
			return
		}
		settings := s.tracker.Settings()
		writeJSON(w, http.StatusOK, settingsResponse{
			Settings:   settings,
			Symbol:     core.CurrencySymbol(settings.Currency),
			Currencies: core.Currencies,
		})
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}
