package booking

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
)

var (
	ErrBookingNotFound   = errors.New("booking: not found")
	ErrInvalidGuests     = errors.New("booking: guests count must be positive")
	ErrTooManyGuests     = errors.New("booking: guests exceed room occupancy")
	ErrInvalidState      = errors.New("booking: invalid state transition")
	ErrDatesUnavailable  = errors.New("booking: requested dates overlap an existing booking")
	ErrNotBookingActor   = errors.New("booking: actor may not modify this booking")
	ErrGuestRequired     = errors.New("booking: guest id required")
	ErrVersionConflict   = errors.New("booking: stale version, concurrent update detected")
	ErrReferenceRequired = errors.New("booking: reference required")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Booking is a guest's stay in a room. Rows are never deleted;
// cancellation is a status change so history survives.
type Booking struct {
	ID              BookingID
	RoomID          property.RoomID
	PropertyID      property.PropertyID
	GuestID         string
	Range           daterange.DateRange
	Guests          int
	Price           pricing.PriceBreakdown
	Status          Status
	Reference       string
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	events.EventRecorder
}

// Active reports whether the booking still occupies its dates.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled
}

type CreateParams struct {
	ID              BookingID
	RoomID          property.RoomID
	PropertyID      property.PropertyID
	GuestID         string
	Range           daterange.DateRange
	Guests          int
	Price           pricing.PriceBreakdown
	Reference       string
	SpecialRequests string
	CreatedAt       time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if params.Reference == "" {
		return nil, ErrReferenceRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		RoomID:          params.RoomID,
		PropertyID:      params.PropertyID,
		GuestID:         params.GuestID,
		Range:           params.Range,
		Guests:          params.Guests,
		Price:           params.Price.Copy(),
		Status:          StatusPending,
		Reference:       params.Reference,
		SpecialRequests: params.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(BookingRequested{BookingID: b.ID, RoomID: b.RoomID, GuestID: b.GuestID, Range: b.Range, Guests: b.Guests, Total: b.Price.Total, At: now})
	return b, nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, RoomID: b.RoomID, Range: b.Range, Total: b.Price.Total, At: b.UpdatedAt})
	return nil
}

// Cancel soft-deletes the stay. Its dates are freed immediately
// because cancelled bookings are excluded from availability reads.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, RoomID: b.RoomID, Range: b.Range, Reason: reason, At: b.UpdatedAt})
	return nil
}

// Reschedule moves the stay and replaces the captured price. The
// caller must have already re-validated the new range against other
// active bookings inside the same transaction.
func (b *Booking) Reschedule(newRange daterange.DateRange, newGuests int, newPrice pricing.PriceBreakdown, now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrInvalidState
	}
	if newGuests <= 0 {
		return ErrInvalidGuests
	}
	if err := newRange.Validate(); err != nil {
		return err
	}
	oldRange := b.Range
	b.Range = newRange
	b.Guests = newGuests
	b.Price = newPrice.Copy()
	b.UpdatedAt = now.UTC()
	b.Record(BookingRescheduled{BookingID: b.ID, RoomID: b.RoomID, OldRange: oldRange, NewRange: newRange, Total: b.Price.Total, At: b.UpdatedAt})
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// ActiveOverlapping returns non-cancelled bookings for the room
	// whose half-open ranges intersect the given one.
	ActiveOverlapping(ctx context.Context, roomID property.RoomID, r daterange.DateRange) ([]*Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	ListByRoom(ctx context.Context, roomID property.RoomID) ([]*Booking, error)
	Save(ctx context.Context, b *Booking) error
}
