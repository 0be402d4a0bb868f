package tracker

import (
	"violet/internal/core"
	"violet/internal/report"
)

// TotalsPolicy names the headline totals mode selected by configuration.
type TotalsPolicy string

const (
	// PolicySettledOnly excludes pending movements from income, expense and
	// balance: only cleared money counts.
	PolicySettledOnly TotalsPolicy = "settled_only"
	// PolicyIncludePending counts pending amounts toward the headline total
	// as committed-but-unsettled obligations.
	PolicyIncludePending TotalsPolicy = "include_pending"
)

// DashboardView is the month-scoped dashboard. Exactly one of Totals and
// PaidPending is populated, according to the configured policy.
type DashboardView struct {
	Year        int                       `json:"year"`
	Month       int                       `json:"month"`
	Policy      TotalsPolicy              `json:"policy"`
	Totals      *report.Summary           `json:"totals,omitempty"`
	PaidPending *report.PaidPendingTotals `json:"paid_pending,omitempty"`
	Recent      []core.Transaction        `json:"recent"`
}

// DaysView is the day-grouped, incrementally paginated history for the
// reference month.
type DaysView struct {
	Year        int               `json:"year"`
	Month       int               `json:"month"`
	Groups      []report.DayGroup `json:"groups"`
	TotalGroups int               `json:"total_groups"`
	HasMore     bool              `json:"has_more"`
}

const recentLimit = 5

// Dashboard derives the dashboard view from the current snapshot and the
// reference month.
func (tr *Tracker) Dashboard() DashboardView {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	snapshot := tr.store.Snapshot()
	view := DashboardView{Year: tr.refYear, Month: tr.refMonth}

	if tr.includePendingInTotals {
		view.Policy = PolicyIncludePending
		pp := report.ComputePaidPending(report.FilterMonth(snapshot, tr.refYear, tr.refMonth))
		view.PaidPending = &pp
	} else {
		view.Policy = PolicySettledOnly
		s := report.DashboardSummary(snapshot, tr.refYear, tr.refMonth)
		view.Totals = &s
	}

	recent := snapshot
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	view.Recent = recent
	return view
}

// Breakdown derives the category analytics for one transaction type over the
// full history (the analytics view is not month-scoped).
func (tr *Tracker) Breakdown(typ core.TransactionType) []report.CategoryShare {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return report.CategoryBreakdown(tr.store.Snapshot(), typ)
}

// Days derives the visible day-grouped window for the reference month.
func (tr *Tracker) Days() DaysView {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	groups := report.GroupByDay(report.FilterMonth(tr.store.Snapshot(), tr.refYear, tr.refMonth))
	visible := report.VisibleWindow(groups, tr.visible)
	return DaysView{
		Year:        tr.refYear,
		Month:       tr.refMonth,
		Groups:      visible,
		TotalGroups: len(groups),
		HasMore:     len(visible) < len(groups),
	}
}

// Months derives the all-history monthly rollup.
func (tr *Tracker) Months() []report.MonthTotal {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return report.MonthlyRollup(tr.store.Snapshot())
}

// History lists transactions matching a search query and type filter.
func (tr *Tracker) History(query string, filter report.TypeFilter) []core.Transaction {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return report.FilterHistory(tr.store.Snapshot(), query, filter)
}

// Transactions returns the full ordered snapshot.
func (tr *Tracker) Transactions() []core.Transaction {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.store.Snapshot()
}

// Settings returns the current preferences.
func (tr *Tracker) Settings() core.Settings {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.settings
}

// ReferenceMonth returns the currently selected month.
func (tr *Tracker) ReferenceMonth() (year, month int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.refYear, tr.refMonth
}
