package booking

import (
	"errors"
	"testing"
	"time"

	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

func params(t *testing.T) CreateParams {
	t.Helper()
	dr, err := daterange.Parse("2024-06-01", "2024-06-04")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return CreateParams{
		ID:         "bk-1",
		RoomID:     "room-1",
		PropertyID: "prop-1",
		GuestID:    "guest-1",
		Range:      dr,
		Guests:     2,
		Price:      pricing.PriceBreakdown{Nights: 3, Total: money.Must(30000, "USD")},
		Reference:  "ref-abc",
		CreatedAt:  time.Now(),
	}
}

func TestNewBookingStartsPending(t *testing.T) {
	b, err := NewBooking(params(t))
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("status = %s", b.Status)
	}
	evs := b.PendingEvents()
	if len(evs) != 1 || evs[0].EventName() != "booking.requested" {
		t.Fatalf("events = %+v", evs)
	}
}

func TestNewBookingValidation(t *testing.T) {
	p := params(t)
	p.Guests = 0
	if _, err := NewBooking(p); !errors.Is(err, ErrInvalidGuests) {
		t.Errorf("guests: got %v", err)
	}

	p = params(t)
	p.GuestID = ""
	if _, err := NewBooking(p); !errors.Is(err, ErrGuestRequired) {
		t.Errorf("guest id: got %v", err)
	}

	p = params(t)
	p.Range = daterange.DateRange{}
	if _, err := NewBooking(p); !errors.Is(err, daterange.ErrInvalidRange) {
		t.Errorf("range: got %v", err)
	}
}

func TestConfirmThenCancel(t *testing.T) {
	b, err := NewBooking(params(t))
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	now := time.Now()
	if err := b.Confirm(now); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !b.Active() {
		t.Fatal("confirmed booking should be active")
	}
	if err := b.Cancel("guest request", now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if b.Active() {
		t.Fatal("cancelled booking must not be active")
	}
	if err := b.Cancel("again", now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double cancel: got %v", err)
	}
}

func TestRescheduleReplacesPrice(t *testing.T) {
	b, err := NewBooking(params(t))
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	newRange, err := daterange.Parse("2024-07-01", "2024-07-03")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	newPrice := pricing.PriceBreakdown{Nights: 2, Total: money.Must(25000, "USD")}
	if err := b.Reschedule(newRange, 3, newPrice, time.Now()); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if b.Range != newRange || b.Guests != 3 || b.Price.Total.Amount != 25000 {
		t.Fatalf("reschedule not applied: %+v", b)
	}
}

func TestRescheduleCancelledFails(t *testing.T) {
	b, err := NewBooking(params(t))
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	if err := b.Cancel("x", time.Now()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	newRange, _ := daterange.Parse("2024-07-01", "2024-07-03")
	if err := b.Reschedule(newRange, 2, pricing.PriceBreakdown{}, time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
