// Package storage persists full snapshots of the transaction collection and
// the settings object. Every mutation overwrites the whole snapshot; there is
// no append-only log.
package storage

import (
	"context"

	"violet/internal/core"
)

// Store is the persistence boundary the tracker writes through after every
// mutation.
type Store interface {
	// LoadSnapshot returns the persisted transactions in stored order.
	// Malformed records are skipped with a warning, never fatal to startup.
	LoadSnapshot(ctx context.Context) ([]core.Transaction, error)

	// SaveSnapshot atomically replaces the persisted transaction set.
	SaveSnapshot(ctx context.Context, items []core.Transaction) error

	// LoadSettings returns the persisted settings; ok is false when no
	// settings have been saved yet.
	LoadSettings(ctx context.Context) (settings core.Settings, ok bool, err error)

	SaveSettings(ctx context.Context, settings core.Settings) error

	Close() error
}
