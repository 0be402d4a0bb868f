package report

import (
	"strings"

	"violet/internal/core"
)

// TypeFilter narrows history listings by transaction type.
type TypeFilter string

const (
	FilterAll     TypeFilter = "all"
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
)

// FilterHistory returns the records whose description or decimal amount text
// contains the query (case-insensitive) and whose type matches the filter,
// preserving order. An empty query matches everything.
func FilterHistory(records []core.Transaction, query string, filter TypeFilter) []core.Transaction {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []core.Transaction
	for _, t := range records {
		if filter != FilterAll && string(t.Type) != string(filter) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Description), query) &&
			!strings.Contains(t.Amount.DecimalString(), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}
