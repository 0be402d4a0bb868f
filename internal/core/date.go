package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Date is a timezone-naive calendar date. It is never converted through a
// time zone: year, month and day are stored as-is and compared as-is, so a
// record entered on 2024-01-05 buckets into January 2024 everywhere.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int
}

var ErrInvalidDate = errors.New("invalid date")

// NewDate builds a Date without validation; call Validate before trusting it.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d Date) Validate() error {
	if d.Year < 1 || d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("%w: %s", ErrInvalidDate, d.Key())
	}
	// Reject days that don't exist in the month (e.g. Feb 30): time.Date
	// normalizes overflow into the next month.
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if t.Day() != d.Day || int(t.Month()) != d.Month {
		return fmt.Errorf("%w: %s", ErrInvalidDate, d.Key())
	}
	return nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Key returns the canonical day identity "YYYY-MM-DD". Zero padding makes
// lexicographic order equal chronological order.
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthKey returns the month bucket "YYYY-MM".
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}

// InMonth reports whether the date falls in the given calendar month.
func (d Date) InMonth(year, month int) bool {
	return d.Year == year && d.Month == month
}

func (d Date) String() string {
	return d.Key()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Key() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthKeyParts splits a "YYYY-MM" key back into year and month.
func MonthKeyParts(key string) (year, month int, err error) {
	if _, err = fmt.Sscanf(key, "%4d-%2d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("%w: month key %q", ErrInvalidDate, key)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month key %q", ErrInvalidDate, key)
	}
	return year, month, nil
}

// AddMonths shifts a year/month pair by delta months, normalizing across
// year boundaries.
func AddMonths(year, month, delta int) (int, int) {
	m := year*12 + (month - 1) + delta
	return m / 12, m%12 + 1
}
