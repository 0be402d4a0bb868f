package report

import (
	"sort"

	"violet/internal/core"
)

// MonthTotal is one monthly rollup entry. Amount sums every record of that
// month regardless of status.
type MonthTotal struct {
	Key    string     `json:"key"`
	Year   int        `json:"year"`
	Month  int        `json:"month"`
	Amount core.Money `json:"amount"`
}

// MonthlyRollup groups ALL records (no month filter) by calendar month and
// sums amounts unconditionally, most recent month first. Zero-padded keys
// make the descending lexicographic order chronological.
func MonthlyRollup(all []core.Transaction) []MonthTotal {
	byKey := make(map[string]*MonthTotal)
	for _, t := range all {
		key := t.Date.MonthKey()
		m, ok := byKey[key]
		if !ok {
			m = &MonthTotal{Key: key, Year: t.Date.Year, Month: t.Date.Month}
			byKey[key] = m
		}
		m.Amount.Cents += t.Amount.Cents
	}

	months := make([]MonthTotal, 0, len(byKey))
	for _, m := range byKey {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Key > months[j].Key
	})
	return months
}
