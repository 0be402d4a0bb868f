package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"violet/internal/core"
	"violet/internal/ledger"
	"violet/internal/log"
	"violet/internal/report"
	"violet/internal/storage"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// newTestTracker pins the clock to mid January 2024 and hands out sequential
// ids so assertions stay deterministic.
func newTestTracker(t *testing.T, opts Options) (*Tracker, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	}
	if opts.NewID == nil {
		n := 0
		opts.NewID = func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}
	}
	tr := New(store, testLogger(), opts)
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return tr, store
}

func draft(typ, amount, category, date string) Draft {
	return Draft{Type: typ, Amount: amount, Category: category, Date: date}
}

func TestAddAssignsIDAndPersists(t *testing.T) {
	tr, store := newTestTracker(t, Options{})
	ctx := context.Background()

	got, err := tr.Add(ctx, draft("expense", "12.50", "food", "2024-01-10"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.ID != "id-1" {
		t.Fatalf("id = %q, want id-1", got.ID)
	}
	if got.Amount.Cents != 1250 {
		t.Fatalf("amount = %d, want 1250", got.Amount.Cents)
	}
	if got.Status != core.Completed {
		t.Fatalf("default status = %s, want completed", got.Status)
	}

	// Every mutation writes the full snapshot.
	persisted, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != "id-1" {
		t.Fatalf("snapshot not persisted: %+v", persisted)
	}
}

func TestAddRejectsMalformedDraft(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})
	ctx := context.Background()

	cases := []struct {
		name string
		d    Draft
		want error
	}{
		{"bad amount", draft("expense", "abc", "food", "2024-01-10"), core.ErrInvalidAmount},
		{"negative amount", draft("expense", "-5", "food", "2024-01-10"), core.ErrInvalidAmount},
		{"bad date", draft("expense", "5", "food", "2024-13-10"), core.ErrInvalidDate},
		{"bad type", draft("transfer", "5", "food", "2024-01-10"), core.ErrInvalidType},
		{"category of wrong type", draft("expense", "5", "salary", "2024-01-10"), core.ErrUnknownCategory},
		{"bad status", Draft{Type: "expense", Amount: "5", Category: "food", Date: "2024-01-10", Status: "maybe"}, core.ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tr.Add(ctx, tc.d); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if got := tr.Transactions(); len(got) != 0 {
		t.Fatalf("rejected drafts must not reach the store, got %d", len(got))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	tr, store := newTestTracker(t, Options{})
	ctx := context.Background()

	added, err := tr.Add(ctx, draft("expense", "10", "food", "2024-01-10"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, err := tr.Update(ctx, added.ID, draft("expense", "20", "bills", "2024-01-11"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 2000 || updated.Category != "bills" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := tr.Update(ctx, "missing", draft("expense", "1", "food", "2024-01-10")); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := tr.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tr.Delete(ctx, added.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	persisted, _ := store.LoadSnapshot(ctx)
	if len(persisted) != 0 {
		t.Fatalf("delete must persist the empty snapshot, got %d", len(persisted))
	}
}

func TestToggleStatus(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})
	ctx := context.Background()

	added, err := tr.Add(ctx, draft("expense", "10", "food", "2024-01-10"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	toggled, err := tr.ToggleStatus(ctx, added.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Status != core.Pending {
		t.Fatalf("status = %s, want pending", toggled.Status)
	}
	back, err := tr.ToggleStatus(ctx, added.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if back.Status != core.Completed {
		t.Fatalf("status = %s, want completed", back.Status)
	}
}

func TestDashboardSettledOnly(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})
	ctx := context.Background()

	mustAdd(t, tr, ctx, draft("income", "1000", "salary", "2024-01-05"))
	mustAdd(t, tr, ctx, draft("expense", "300", "food", "2024-01-10"))
	pending := Draft{Type: "expense", Amount: "200", Category: "food", Date: "2024-01-10", Status: "pending"}
	mustAdd(t, tr, ctx, pending)

	view := tr.Dashboard()
	if view.Policy != PolicySettledOnly {
		t.Fatalf("policy = %s, want settled_only", view.Policy)
	}
	if view.PaidPending != nil {
		t.Fatalf("settled-only dashboard must not carry paid/pending totals")
	}
	if view.Totals.MonthlyIncome.Cents != 100000 {
		t.Fatalf("income = %d, want 100000", view.Totals.MonthlyIncome.Cents)
	}
	if view.Totals.MonthlyExpense.Cents != 30000 {
		t.Fatalf("expense = %d, want 30000 (pending excluded)", view.Totals.MonthlyExpense.Cents)
	}
	if view.Totals.Balance.Cents != 70000 {
		t.Fatalf("balance = %d, want 70000", view.Totals.Balance.Cents)
	}
	if len(view.Recent) != 3 {
		t.Fatalf("recent = %d records, want 3", len(view.Recent))
	}
}

func TestDashboardIncludePending(t *testing.T) {
	tr, _ := newTestTracker(t, Options{IncludePendingInTotals: true})
	ctx := context.Background()

	mustAdd(t, tr, ctx, draft("expense", "300", "food", "2024-01-10"))
	mustAdd(t, tr, ctx, Draft{Type: "expense", Amount: "200", Category: "food", Date: "2024-01-10", Status: "pending"})

	view := tr.Dashboard()
	if view.Policy != PolicyIncludePending {
		t.Fatalf("policy = %s, want include_pending", view.Policy)
	}
	if view.Totals != nil {
		t.Fatalf("include-pending dashboard must not carry the settled summary")
	}
	pp := view.PaidPending
	if pp.Total.Cents != 50000 || pp.Paid.Cents != 30000 || pp.Pending.Cents != 20000 {
		t.Fatalf("paid/pending = %+v", pp)
	}
}

func TestRecentListCapped(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		mustAdd(t, tr, ctx, draft("expense", "1", "food", fmt.Sprintf("2024-01-%02d", i)))
	}
	view := tr.Dashboard()
	if len(view.Recent) != recentLimit {
		t.Fatalf("recent = %d records, want %d", len(view.Recent), recentLimit)
	}
	// Newest first.
	if view.Recent[0].ID != "id-7" {
		t.Fatalf("recent[0] = %s, want id-7", view.Recent[0].ID)
	}
}

func TestPaginationCursor(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})
	ctx := context.Background()

	// Ten distinct days in the reference month.
	for day := 1; day <= 10; day++ {
		mustAdd(t, tr, ctx, draft("expense", "1", "food", fmt.Sprintf("2024-01-%02d", day)))
	}

	view := tr.Days()
	if len(view.Groups) != report.PageSize || view.TotalGroups != 10 || !view.HasMore {
		t.Fatalf("first page: groups=%d total=%d more=%v", len(view.Groups), view.TotalGroups, view.HasMore)
	}

	tr.LoadMore()
	view = tr.Days()
	if len(view.Groups) != 10 || view.HasMore {
		t.Fatalf("after load more: groups=%d more=%v", len(view.Groups), view.HasMore)
	}

	// Adding a record does not reset the cursor.
	mustAdd(t, tr, ctx, draft("expense", "1", "food", "2024-01-11"))
	view = tr.Days()
	if len(view.Groups) != 11 {
		t.Fatalf("cursor must survive mutations, groups=%d", len(view.Groups))
	}

	// Changing month does.
	tr.NavigateMonth(1)
	tr.NavigateMonth(-1)
	view = tr.Days()
	if len(view.Groups) != report.PageSize {
		t.Fatalf("month change must reset the cursor, groups=%d", len(view.Groups))
	}
}

func TestNavigateMonthArithmetic(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})

	year, month := tr.NavigateMonth(-1)
	if year != 2023 || month != 12 {
		t.Fatalf("january minus one = %d-%d, want 2023-12", year, month)
	}
	year, month = tr.NavigateMonth(13)
	if year != 2025 || month != 1 {
		t.Fatalf("december 2023 plus thirteen = %d-%d, want 2025-01", year, month)
	}
}

func TestSelectMonth(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})

	tr.LoadMore()
	if err := tr.SelectMonth("2023-11"); err != nil {
		t.Fatalf("select month: %v", err)
	}
	year, month := tr.ReferenceMonth()
	if year != 2023 || month != 11 {
		t.Fatalf("reference = %d-%d, want 2023-11", year, month)
	}
	view := tr.Days()
	if len(view.Groups) != 0 || view.TotalGroups != 0 {
		t.Fatalf("empty month should have no groups: %+v", view)
	}

	if err := tr.SelectMonth("november"); err == nil {
		t.Fatalf("malformed month key must be rejected")
	}
}

func TestCrossMonthVisibility(t *testing.T) {
	tr, _ := newTestTracker(t, Options{})
	ctx := context.Background()

	mustAdd(t, tr, ctx, draft("expense", "10", "food", "2024-01-10"))
	added := mustAdd(t, tr, ctx, draft("expense", "20", "travel", "2024-02-03"))

	// The february record is outside the reference month but still counted
	// by the rollup.
	view := tr.Days()
	for _, g := range view.Groups {
		for _, item := range g.Items {
			if item.ID == added.ID {
				t.Fatalf("february record leaked into january view")
			}
		}
	}
	months := tr.Months()
	if len(months) != 2 || months[0].Key != "2024-02" {
		t.Fatalf("rollup = %+v", months)
	}

	tr.NavigateMonth(1)
	view = tr.Days()
	if view.TotalGroups != 1 || view.Groups[0].Items[0].ID != added.ID {
		t.Fatalf("february record missing after navigation: %+v", view)
	}
}

func TestClearAll(t *testing.T) {
	tr, store := newTestTracker(t, Options{})
	ctx := context.Background()

	mustAdd(t, tr, ctx, draft("expense", "10", "food", "2024-01-10"))
	if err := tr.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := tr.Transactions(); len(got) != 0 {
		t.Fatalf("expected empty store, got %d", len(got))
	}
	persisted, _ := store.LoadSnapshot(ctx)
	if len(persisted) != 0 {
		t.Fatalf("clear must persist, got %d records", len(persisted))
	}
}

func TestSettings(t *testing.T) {
	tr, store := newTestTracker(t, Options{DefaultCurrency: "EUR"})
	ctx := context.Background()

	if got := tr.Settings(); got.Currency != "EUR" {
		t.Fatalf("default currency = %s, want EUR", got.Currency)
	}

	if err := tr.SetCurrency(ctx, "XXX"); !errors.Is(err, core.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	if err := tr.SetCurrency(ctx, "JPY"); err != nil {
		t.Fatalf("set currency: %v", err)
	}
	if err := tr.SetTheme(ctx, true); err != nil {
		t.Fatalf("set theme: %v", err)
	}

	persisted, ok, err := store.LoadSettings(ctx)
	if err != nil || !ok {
		t.Fatalf("load settings: ok=%v err=%v", ok, err)
	}
	if persisted.Currency != "JPY" || !persisted.DarkTheme {
		t.Fatalf("persisted settings = %+v", persisted)
	}
}

func TestLoadRestoresState(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	seed := []core.Transaction{
		{ID: "x", Type: core.Expense, Amount: core.Money{Cents: 500}, Category: "food",
			Date: core.NewDate(2024, 1, 2), Status: core.Pending},
	}
	if err := store.SaveSnapshot(ctx, seed); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	if err := store.SaveSettings(ctx, core.Settings{Currency: "GBP", DarkTheme: true}); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	tr := New(store, testLogger(), Options{})
	if err := tr.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tr.Transactions(); len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("snapshot not restored: %+v", got)
	}
	if got := tr.Settings(); got.Currency != "GBP" || !got.DarkTheme {
		t.Fatalf("settings not restored: %+v", got)
	}
}

// failingStore accepts reads but refuses writes.
type failingStore struct {
	storage.MemoryStore
}

func (s *failingStore) SaveSnapshot(context.Context, []core.Transaction) error {
	return errors.New("disk full")
}

func TestPersistFailureDoesNotFailCommand(t *testing.T) {
	tr := New(&failingStore{}, testLogger(), Options{})
	ctx := context.Background()
	if err := tr.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := tr.Add(ctx, draft("expense", "10", "food", "2024-01-10"))
	if err != nil {
		t.Fatalf("add must succeed despite a persistence failure, got %v", err)
	}
	if listed := tr.Transactions(); len(listed) != 1 || listed[0].ID != got.ID {
		t.Fatalf("in-memory state must survive the failed save: %+v", listed)
	}
}

func mustAdd(t *testing.T, tr *Tracker, ctx context.Context, d Draft) core.Transaction {
	t.Helper()
	got, err := tr.Add(ctx, d)
	if err != nil {
		t.Fatalf("add %+v: %v", d, err)
	}
	return got
}
