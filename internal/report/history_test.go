package report

import (
	"testing"

	"violet/internal/core"
)

func TestFilterHistory(t *testing.T) {
	records := []core.Transaction{
		tx("1", core.Expense, 1250, "food", core.NewDate(2024, 1, 1), core.Completed),
		tx("2", core.Income, 99900, "salary", core.NewDate(2024, 1, 2), core.Completed),
		tx("3", core.Expense, 400, "travel", core.NewDate(2024, 1, 3), core.Pending),
	}
	records[0].Description = "Groceries run"
	records[1].Description = "January salary"
	records[2].Description = "Bus ticket"

	cases := []struct {
		name    string
		query   string
		filter  TypeFilter
		wantIDs []string
	}{
		{"all", "", FilterAll, []string{"1", "2", "3"}},
		{"income only", "", FilterIncome, []string{"2"}},
		{"expense only", "", FilterExpense, []string{"1", "3"}},
		{"case-insensitive description", "GROCER", FilterAll, []string{"1"}},
		{"amount text", "12.50", FilterAll, []string{"1"}},
		{"query plus filter", "salary", FilterExpense, nil},
		{"no match", "zzz", FilterAll, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterHistory(records, tc.query, tc.filter)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d records, want %d", len(got), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Fatalf("record %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
