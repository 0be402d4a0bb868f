package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"violet/internal/core"
	"violet/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeCommandError maps domain errors onto HTTP statuses: validation
// failures are unprocessable, missing ids are not found, everything else is
// a server error.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrDuplicateID),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownCurrency),
		errors.Is(err, core.ErrEmptyID):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// formatAmount renders money for display: currency symbol plus decimal
// string. The core never formats; only this boundary does.
func formatAmount(m core.Money, currencyCode string) string {
	if m.Cents < 0 {
		return "-" + core.CurrencySymbol(currencyCode) + core.Money{Cents: -m.Cents}.DecimalString()
	}
	return core.CurrencySymbol(currencyCode) + m.DecimalString()
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
