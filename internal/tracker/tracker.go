// Package tracker is the application controller. It owns the transaction
// store, the settings object, the reference month and the pagination cursor,
// and it is the only place that mutates them. Every command persists a full
// snapshot before returning; views are recomputed fresh from the current
// snapshot, never from a stale cache.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"violet/internal/core"
	"violet/internal/ledger"
	"violet/internal/log"
	"violet/internal/report"
	"violet/internal/storage"
)

// Draft carries raw user input for an add or update command. Amount and Date
// are strings on purpose: parsing and validation happen at this boundary so
// malformed input is rejected instead of corrupting downstream sums.
type Draft struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Tracker serializes all commands and derivations behind one mutex: a view
// can never observe a half-applied mutation.
type Tracker struct {
	mu sync.Mutex

	store    *ledger.Store
	persist  storage.Store
	settings core.Settings

	refYear  int
	refMonth int
	visible  int

	includePendingInTotals bool

	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

// Options tune Tracker construction; zero values pick sensible defaults.
type Options struct {
	DefaultCurrency        string
	IncludePendingInTotals bool
	Now                    func() time.Time
	NewID                  func() string
}

func New(persist storage.Store, logger *log.Logger, opts Options) *Tracker {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	now := opts.Now()
	return &Tracker{
		store:                  ledger.New(),
		persist:                persist,
		settings:               core.Settings{Currency: opts.DefaultCurrency},
		refYear:                now.Year(),
		refMonth:               int(now.Month()),
		visible:                report.PageSize,
		includePendingInTotals: opts.IncludePendingInTotals,
		logger:                 logger.WithComponent(log.ComponentTracker),
		now:                    opts.Now,
		newID:                  opts.NewID,
	}
}

// Load restores the persisted snapshot and settings. A missing or partially
// corrupt snapshot degrades to whatever loaded cleanly.
func (tr *Tracker) Load(ctx context.Context) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	items, err := tr.persist.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	tr.store.Replace(items)

	settings, ok, err := tr.persist.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if ok {
		if settings.Currency == "" {
			settings.Currency = tr.settings.Currency
		}
		tr.settings = settings
	}

	tr.logger.InfoContext(ctx, "State loaded",
		log.FieldCount, tr.store.Len(),
		log.FieldCurrency, tr.settings.Currency)
	return nil
}

// Add creates a transaction from the draft, assigns a fresh id and inserts
// it at the head of the sequence.
func (tr *Tracker) Add(ctx context.Context, d Draft) (core.Transaction, error) {
	t, err := tr.fromDraft(d, tr.newID())
	if err != nil {
		return core.Transaction{}, err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if err := tr.store.Add(t); err != nil {
		return core.Transaction{}, err
	}
	tr.persistSnapshot(ctx)
	tr.logger.InfoContext(ctx, "Transaction added",
		log.FieldTransactionID, t.ID,
		log.FieldType, string(t.Type),
		log.FieldCategory, t.Category,
		log.FieldAmountCents, t.Amount.Cents)
	return t, nil
}

// Update replaces the record with the given id wholesale.
func (tr *Tracker) Update(ctx context.Context, id string, d Draft) (core.Transaction, error) {
	t, err := tr.fromDraft(d, id)
	if err != nil {
		return core.Transaction{}, err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if err := tr.store.Update(t); err != nil {
		return core.Transaction{}, err
	}
	tr.persistSnapshot(ctx)
	tr.logger.InfoContext(ctx, "Transaction updated", log.FieldTransactionID, id)
	return t, nil
}

// Delete removes the record with the given id.
func (tr *Tracker) Delete(ctx context.Context, id string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if err := tr.store.Remove(id); err != nil {
		return err
	}
	tr.persistSnapshot(ctx)
	tr.logger.InfoContext(ctx, "Transaction deleted", log.FieldTransactionID, id)
	return nil
}

// ToggleStatus flips pending and completed on the record with the given id.
func (tr *Tracker) ToggleStatus(ctx context.Context, id string) (core.Transaction, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	t, err := tr.store.ToggleStatus(id)
	if err != nil {
		return core.Transaction{}, err
	}
	tr.persistSnapshot(ctx)
	tr.logger.InfoContext(ctx, "Transaction status toggled",
		log.FieldTransactionID, id,
		log.FieldStatus, string(t.Status))
	return t, nil
}

// ClearAll destroys the entire collection. The presentation layer confirms
// with the user before calling this.
func (tr *Tracker) ClearAll(ctx context.Context) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.store.Clear()
	tr.persistSnapshot(ctx)
	tr.logger.WarnContext(ctx, "All transactions cleared")
	return nil
}

// NavigateMonth shifts the reference month by delta months and resets the
// pagination cursor. Changing the month is the only event that resets it.
func (tr *Tracker) NavigateMonth(delta int) (year, month int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.refYear, tr.refMonth = core.AddMonths(tr.refYear, tr.refMonth, delta)
	tr.visible = report.PageSize
	return tr.refYear, tr.refMonth
}

// SelectMonth jumps straight to a rollup entry's month and resets the
// pagination cursor.
func (tr *Tracker) SelectMonth(key string) error {
	year, month, err := core.MonthKeyParts(key)
	if err != nil {
		return err
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.refYear, tr.refMonth = year, month
	tr.visible = report.PageSize
	return nil
}

// LoadMore widens the visible day-group window by one page. Past the end of
// the data it is a harmless no-op in effect, though the cursor keeps growing.
func (tr *Tracker) LoadMore() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.visible += report.PageSize
	return tr.visible
}

// SetCurrency updates and persists the preferred currency code.
func (tr *Tracker) SetCurrency(ctx context.Context, code string) error {
	if err := core.ValidateCurrency(code); err != nil {
		return err
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.settings.Currency = code
	tr.persistSettings(ctx)
	return nil
}

// SetTheme updates and persists the dark-theme flag.
func (tr *Tracker) SetTheme(ctx context.Context, dark bool) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.settings.DarkTheme = dark
	tr.persistSettings(ctx)
	return nil
}

// fromDraft parses and validates raw input into a transaction.
func (tr *Tracker) fromDraft(d Draft, id string) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(d.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", d.Amount, err)
	}
	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	status := core.Status(d.Status)
	if d.Status == "" {
		status = core.Completed
	}
	t := core.Transaction{
		ID:          id,
		Type:        core.TransactionType(d.Type),
		Amount:      core.Money{Cents: cents},
		Category:    d.Category,
		Date:        date,
		Description: d.Description,
		Status:      status,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// persistSnapshot writes the full snapshot after a mutation. A storage
// failure is logged but does not roll back the in-memory state: the local
// store stays usable and the next successful save catches up.
func (tr *Tracker) persistSnapshot(ctx context.Context) {
	if err := tr.persist.SaveSnapshot(ctx, tr.store.Snapshot()); err != nil {
		tr.logger.ErrorContext(ctx, "Failed to persist snapshot", log.FieldError, err)
	}
}

func (tr *Tracker) persistSettings(ctx context.Context) {
	if err := tr.persist.SaveSettings(ctx, tr.settings); err != nil {
		tr.logger.ErrorContext(ctx, "Failed to persist settings", log.FieldError, err)
	}
}

func (tr *Tracker) Close() error {
	return tr.persist.Close()
}
