package finance

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrEntryNotFound = errors.New("finance: ledger entry not found")
	ErrZeroAmount    = errors.New("finance: entry amount must be non-zero")
	ErrUnknownKind   = errors.New("finance: unknown entry kind")
)

type EntryID string

type EntryKind string

const (
	KindCharge EntryKind = "CHARGE"
	KindRefund EntryKind = "REFUND"
	KindPayout EntryKind = "PAYOUT"
)

// LedgerEntry is one money movement tied to a booking. Entries are
// append-only; corrections are new entries, never edits.
type LedgerEntry struct {
	ID         EntryID
	BookingID  booking.BookingID
	PropertyID property.PropertyID
	Kind       EntryKind
	Amount     money.Money
	Memo       string
	OccurredAt time.Time
}

func NewEntry(id EntryID, bookingID booking.BookingID, propertyID property.PropertyID, kind EntryKind, amount money.Money, memo string, now time.Time) (*LedgerEntry, error) {
	switch kind {
	case KindCharge, KindRefund, KindPayout:
	default:
		return nil, ErrUnknownKind
	}
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}
	return &LedgerEntry{
		ID:         id,
		BookingID:  bookingID,
		PropertyID: propertyID,
		Kind:       kind,
		Amount:     amount,
		Memo:       memo,
		OccurredAt: now.UTC(),
	}, nil
}

// Signed returns the amount with refund entries negated, so a plain
// sum over entries yields the property's net position.
func (e *LedgerEntry) Signed() money.Money {
	if e.Kind == KindRefund {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Totals sums entries per currency using signed amounts.
func Totals(entries []*LedgerEntry) map[string]int64 {
	out := make(map[string]int64)
	for _, e := range entries {
		s := e.Signed()
		out[s.Currency] += s.Amount
	}
	return out
}

type Repository interface {
	ByProperty(ctx context.Context, propertyID property.PropertyID) ([]*LedgerEntry, error)
	ByBooking(ctx context.Context, bookingID booking.BookingID) ([]*LedgerEntry, error)
	Append(ctx context.Context, entry *LedgerEntry) error
}
