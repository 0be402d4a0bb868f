package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"violet/internal/core"
	"violet/internal/log"

	_ "modernc.org/sqlite"
)

const (
	settingsKeyCurrency = "currency"
	settingsKeyTheme    = "theme"
)

// SQLiteStore persists snapshots in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadSnapshot reads the persisted transactions in stored order. A row that
// fails validation (corrupt date, unknown category, non-positive amount) is
// skipped with a warning so a damaged snapshot never blocks startup.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, amount_cents, category, date, description, status
		 FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var items []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			cents   int64
			dateStr string
			status  string
		)
		if err := rows.Scan(&t.ID, &t.Type, &cents, &t.Category, &dateStr, &t.Description, &status); err != nil {
			s.logger.WarnContext(ctx, "Skipping unreadable transaction row", log.FieldError, err)
			continue
		}
		t.Amount = core.Money{Cents: cents}
		if status == "" {
			status = string(core.Completed)
		}
		t.Status = core.Status(status)
		date, err := core.ParseDate(dateStr)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping transaction with corrupt date",
				log.FieldTransactionID, t.ID, log.FieldError, err)
			continue
		}
		t.Date = date
		if err := t.Validate(); err != nil {
			s.logger.WarnContext(ctx, "Skipping invalid persisted transaction",
				log.FieldTransactionID, t.ID, log.FieldError, err)
			continue
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return items, nil
}

// SaveSnapshot replaces the full persisted transaction set in one database
// transaction, matching the full-snapshot overwrite semantics of the
// original storage.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, items []core.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, position, type, amount_cents, category, date, description, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range items {
		if _, err := stmt.ExecContext(ctx, t.ID, i, string(t.Type), t.Amount.Cents,
			t.Category, t.Date.Key(), t.Description, string(t.Status)); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "Snapshot saved", log.FieldCount, len(items))
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (core.Settings, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return core.Settings{}, false, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var settings core.Settings
	found := false
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return core.Settings{}, false, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case settingsKeyCurrency:
			if err := core.ValidateCurrency(value); err != nil {
				s.logger.WarnContext(ctx, "Ignoring corrupt currency setting", log.FieldCurrency, value)
				continue
			}
			settings.Currency = value
			found = true
		case settingsKeyTheme:
			dark, err := strconv.ParseBool(value)
			if err != nil {
				dark = value == "dark"
			}
			settings.DarkTheme = dark
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return core.Settings{}, false, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, found, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, settings core.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings save: %w", err)
	}
	defer tx.Rollback()

	upsert := `INSERT INTO settings (key, value) VALUES (?, ?)
	           ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, settingsKeyCurrency, settings.Currency); err != nil {
		return fmt.Errorf("save currency: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, settingsKeyTheme, strconv.FormatBool(settings.DarkTheme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}
