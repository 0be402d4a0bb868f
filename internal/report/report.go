// Package report derives presentation-ready views from a transaction
// snapshot. Every function is pure: the same snapshot and parameters always
// produce the same output, inputs are never mutated, and nothing is memoized.
package report

import "violet/internal/core"

// Totals sums settled money only: pending transactions are excluded from
// income, expense and balance. Only cleared cash movements count toward the
// balance.
type Totals struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// PaidPendingTotals is the alternative headline policy: Total includes
// pending amounts (committed-but-unsettled obligations), Paid covers
// completed records, Pending = Total - Paid.
type PaidPendingTotals struct {
	Total   core.Money `json:"total"`
	Paid    core.Money `json:"paid"`
	Pending core.Money `json:"pending"`
}

// Summary is the dashboard view: all-time settled balance plus income and
// expense scoped to the reference month.
type Summary struct {
	Balance        core.Money `json:"balance"`
	MonthlyIncome  core.Money `json:"monthly_income"`
	MonthlyExpense core.Money `json:"monthly_expense"`
}

// FilterMonth returns the records dated in the given calendar month,
// preserving relative order.
func FilterMonth(records []core.Transaction, year, month int) []core.Transaction {
	var out []core.Transaction
	for _, t := range records {
		if t.Date.InMonth(year, month) {
			out = append(out, t)
		}
	}
	return out
}

// ComputeTotals applies the settled-only policy over the given records.
func ComputeTotals(records []core.Transaction) Totals {
	var totals Totals
	for _, t := range records {
		if t.Status == core.Pending {
			continue
		}
		switch t.Type {
		case core.Income:
			totals.Income.Cents += t.Amount.Cents
		case core.Expense:
			totals.Expense.Cents += t.Amount.Cents
		}
	}
	totals.Balance.Cents = totals.Income.Cents - totals.Expense.Cents
	return totals
}

// ComputePaidPending applies the include-pending policy over the given
// records. All amounts count toward Total regardless of status.
func ComputePaidPending(records []core.Transaction) PaidPendingTotals {
	var totals PaidPendingTotals
	for _, t := range records {
		totals.Total.Cents += t.Amount.Cents
		if t.Status != core.Pending {
			totals.Paid.Cents += t.Amount.Cents
		}
	}
	totals.Pending.Cents = totals.Total.Cents - totals.Paid.Cents
	return totals
}

// DashboardSummary computes the all-time balance over settled records plus
// the month-scoped income and expense for the reference month.
func DashboardSummary(all []core.Transaction, year, month int) Summary {
	allTime := ComputeTotals(all)
	monthly := ComputeTotals(FilterMonth(all, year, month))
	return Summary{
		Balance:        allTime.Balance,
		MonthlyIncome:  monthly.Income,
		MonthlyExpense: monthly.Expense,
	}
}
