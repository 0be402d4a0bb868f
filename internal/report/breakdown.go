package report

import (
	"sort"

	"violet/internal/core"
)

// CategoryShare is one row of a category breakdown. Percentage is a half-up
// rounded share of the per-type settled total, 0 when the total is 0.
type CategoryShare struct {
	Category   string     `json:"category"`
	Name       string     `json:"name"`
	Amount     core.Money `json:"amount"`
	Count      int        `json:"count"`
	Percentage int        `json:"percentage"`
}

// CategoryBreakdown groups the settled records of one type by category and
// computes each category's share of that type's total. Every catalog category
// appears in the result: zero-amount categories carry amount 0, count 0,
// percentage 0 and sort after the non-zero rows in catalog order.
func CategoryBreakdown(records []core.Transaction, typ core.TransactionType) []CategoryShare {
	catalog := core.CatalogFor(typ)

	sums := make(map[string]int64, len(catalog))
	counts := make(map[string]int, len(catalog))
	var total int64
	for _, t := range records {
		if t.Type != typ || t.Status == core.Pending {
			continue
		}
		sums[t.Category] += t.Amount.Cents
		counts[t.Category]++
		total += t.Amount.Cents
	}

	shares := make([]CategoryShare, 0, len(catalog))
	for _, cat := range catalog {
		shares = append(shares, CategoryShare{
			Category:   cat.ID,
			Name:       cat.Name,
			Amount:     core.Money{Cents: sums[cat.ID]},
			Count:      counts[cat.ID],
			Percentage: roundedShare(sums[cat.ID], total),
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.Cents > shares[j].Amount.Cents
	})
	return shares
}

// roundedShare computes round(amount/total*100) half-up in integer
// arithmetic, guarding the divide-by-zero case.
func roundedShare(amount, total int64) int {
	if total == 0 {
		return 0
	}
	return int((amount*100 + total/2) / total)
}
