package report

import (
	"sort"

	"violet/internal/core"
)

// PageSize is the number of day-groups revealed per pagination step.
const PageSize = 7

// DayGroup bundles the transactions sharing one calendar date. Key is the
// canonical "YYYY-MM-DD" day identity.
type DayGroup struct {
	Key   string             `json:"key"`
	Date  core.Date          `json:"date"`
	Items []core.Transaction `json:"items"`
}

// GroupByDay groups records by calendar date, most recent day first. Within
// a day, item order follows the input (store) order.
func GroupByDay(records []core.Transaction) []DayGroup {
	byKey := make(map[string]*DayGroup)
	var order []string
	for _, t := range records {
		key := t.Date.Key()
		g, ok := byKey[key]
		if !ok {
			g = &DayGroup{Key: key, Date: t.Date}
			byKey[key] = g
			order = append(order, key)
		}
		g.Items = append(g.Items, t)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(order)))
	groups := make([]DayGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups
}

// VisibleWindow returns the first n groups. Since groups are newest-first,
// the window always widens into older days; n past the end yields everything.
func VisibleWindow(groups []DayGroup, n int) []DayGroup {
	if n < 0 {
		n = 0
	}
	if n > len(groups) {
		n = len(groups)
	}
	return groups[:n]
}
