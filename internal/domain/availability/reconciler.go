package availability

import (
	"context"
	"errors"

	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrEmptyWindow = errors.New("availability: query window must span at least one day")
)

// Day reasons surfaced to the calendar view.
const (
	ReasonNotConfigured = "not configured"
	ReasonOverride      = "owner override"
	ReasonBooked        = "booked"
)

// DayEntry is the reconciled view of one calendar date.
type DayEntry struct {
	Date       civil.Date
	Status     DayStatus
	Price      money.Money
	Reason     string
	Notes      string
	BookingRef string
}

// BookedSpan is the slice of booking state the reconciler needs:
// an active (non-cancelled) stay and its reference.
type BookedSpan struct {
	Ref   string
	Range daterange.DateRange
}

// BookingSource lists active bookings whose ranges intersect the
// window. Cancelled bookings must not be returned.
type BookingSource interface {
	ActiveSpans(ctx context.Context, roomID property.RoomID, window daterange.DateRange) ([]BookedSpan, error)
}

// Reconciler merges the room default price, owner overrides and
// active bookings into one authoritative per-date view. It is
// read-only: availability state changes only through booking and
// override writes.
type Reconciler struct {
	Overrides OverrideRepository
	Bookings  BookingSource
}

// Window reconciles every date of [from, to] (inclusive) for the
// given room. Later layers win for the same date: defaults, then
// overrides, then bookings. A booking always forces OCCUPIED even
// where an override says otherwise; its checkout date stays free.
func (r Reconciler) Window(ctx context.Context, room *property.Room, from, to civil.Date) ([]DayEntry, error) {
	if room == nil {
		return nil, property.ErrRoomNotFound
	}
	if to.Before(from) {
		return nil, ErrEmptyWindow
	}

	days := from.DaysUntil(to) + 1
	entries := make([]DayEntry, 0, days)
	index := make(map[civil.Date]int, days)
	for d, i := from, 0; i < days; d, i = d.AddDays(1), i+1 {
		index[d] = i
		entries = append(entries, DayEntry{
			Date:   d,
			Status: StatusBlocked,
			Price:  room.DefaultPrice,
			Reason: ReasonNotConfigured,
		})
	}

	overrides, err := r.Overrides.InRange(ctx, room.ID, from, to)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		i, ok := index[o.Date]
		if !ok {
			continue
		}
		entries[i].Status = o.Status
		entries[i].Reason = ReasonOverride
		entries[i].Notes = o.Notes
		if o.Price != nil {
			entries[i].Price = *o.Price
		}
	}

	// Window end is inclusive, while stays are half-open; extend by
	// one day so a stay checking in on the last window date is seen.
	queryWindow := daterange.DateRange{CheckIn: from, CheckOut: to.AddDays(1)}
	spans, err := r.Bookings.ActiveSpans(ctx, room.ID, queryWindow)
	if err != nil {
		return nil, err
	}
	for _, span := range spans {
		clamped, ok := span.Range.Clamp(queryWindow)
		if !ok {
			continue
		}
		for _, d := range clamped.Dates() {
			i, ok := index[d]
			if !ok {
				continue
			}
			entries[i].Status = StatusOccupied
			entries[i].Reason = ReasonBooked
			entries[i].BookingRef = span.Ref
		}
	}

	return entries, nil
}

// NightPrice resolves the price of a single night the same way the
// override layer does: override price if one is set, otherwise the
// room default. Pricing must use this rule so that quoted totals
// match what the calendar shows.
func NightPrice(room *property.Room, overrides map[civil.Date]Override, night civil.Date) money.Money {
	if o, ok := overrides[night]; ok && o.Price != nil {
		return *o.Price
	}
	return room.DefaultPrice
}

// IndexOverrides keys override rows by date for per-night lookups.
func IndexOverrides(rows []Override) map[civil.Date]Override {
	out := make(map[civil.Date]Override, len(rows))
	for _, o := range rows {
		out[o.Date] = o
	}
	return out
}
