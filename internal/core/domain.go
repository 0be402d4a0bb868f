package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	Pending   Status = "pending"
	Completed Status = "completed"
)

type (
	TransactionType string

	Status string

	Money struct {
		Cents int64
	}

	// Transaction is the sole persisted entity: a single recorded money
	// movement. ID is immutable once assigned.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Status      Status          `json:"status"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrUnknownCategory = errors.New("category not in catalog for type")
	ErrEmptyID         = errors.New("empty transaction id")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
}

func (s Status) Validate() error {
	switch s {
	case Pending, Completed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
}

// Toggle flips pending to completed and back.
func (s Status) Toggle() Status {
	if s == Pending {
		return Completed
	}
	return Pending
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !CatalogFor(t.Type).Contains(t.Category) {
		return fmt.Errorf("%w: %q (%s)", ErrUnknownCategory, t.Category, t.Type)
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return t.Status.Validate()
}

// UnmarshalJSON tolerates legacy records that predate the status field by
// treating them as completed.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type alias Transaction
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = Completed
	}
	*t = Transaction(a)
	return nil
}
