package availability

import (
	"context"
	"testing"
	"time"

	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

type fakeOverrides struct {
	rows []Override
}

func (f fakeOverrides) InRange(_ context.Context, _ property.RoomID, from, to civil.Date) ([]Override, error) {
	var out []Override
	for _, o := range f.rows {
		if !o.Date.Before(from) && !o.Date.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f fakeOverrides) Upsert(context.Context, Override) error                    { return nil }
func (f fakeOverrides) Delete(context.Context, property.RoomID, civil.Date) error { return nil }

type fakeBookings struct {
	spans []BookedSpan
}

func (f fakeBookings) ActiveSpans(_ context.Context, _ property.RoomID, window daterange.DateRange) ([]BookedSpan, error) {
	var out []BookedSpan
	for _, s := range f.spans {
		if s.Range.Overlaps(window) {
			out = append(out, s)
		}
	}
	return out, nil
}

func testRoom(t *testing.T) *property.Room {
	t.Helper()
	room, err := property.NewRoom("room-1", "prop-1", "Garden View", money.Must(10000, "USD"), 2, time.Now())
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	return room
}

func entryFor(t *testing.T, entries []DayEntry, date string) DayEntry {
	t.Helper()
	d := civil.MustParseDate(date)
	for _, e := range entries {
		if e.Date == d {
			return e
		}
	}
	t.Fatalf("no entry for %s", date)
	return DayEntry{}
}

func stay(t *testing.T, ref, in, out string) BookedSpan {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return BookedSpan{Ref: ref, Range: dr}
}

func TestWindowDefaultsToBlocked(t *testing.T) {
	rec := Reconciler{Overrides: fakeOverrides{}, Bookings: fakeBookings{}}
	entries, err := rec.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-07"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("got %d entries, want 7 (every window date present)", len(entries))
	}
	for _, e := range entries {
		if e.Status != StatusBlocked || e.Reason != ReasonNotConfigured {
			t.Errorf("%s: status=%s reason=%q, want blocked/not configured", e.Date, e.Status, e.Reason)
		}
		if e.Price.Amount != 10000 {
			t.Errorf("%s: price=%d, want room default", e.Date, e.Price.Amount)
		}
	}
}

func TestWindowAppliesOverrides(t *testing.T) {
	price := money.Must(15000, "USD")
	rec := Reconciler{
		Overrides: fakeOverrides{rows: []Override{
			{RoomID: "room-1", Date: civil.MustParseDate("2024-06-02"), Status: StatusAvailable, Price: &price, Notes: "summer rate"},
			{RoomID: "room-1", Date: civil.MustParseDate("2024-06-03"), Status: StatusMaintenance, Notes: "boiler"},
		}},
		Bookings: fakeBookings{},
	}
	entries, err := rec.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-04"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}

	e := entryFor(t, entries, "2024-06-02")
	if e.Status != StatusAvailable || e.Price.Amount != 15000 || e.Notes != "summer rate" {
		t.Fatalf("override entry wrong: %+v", e)
	}
	e = entryFor(t, entries, "2024-06-03")
	if e.Status != StatusMaintenance || e.Price.Amount != 10000 {
		t.Fatalf("maintenance entry should keep default price: %+v", e)
	}
}

// A booking occupies [checkIn, checkOut); the checkout date stays free.
func TestWindowHalfOpenBooking(t *testing.T) {
	rec := Reconciler{
		Overrides: fakeOverrides{},
		Bookings:  fakeBookings{spans: []BookedSpan{stay(t, "bk-1", "2024-06-02", "2024-06-05")}},
	}
	entries, err := rec.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-06"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}

	for _, date := range []string{"2024-06-02", "2024-06-03", "2024-06-04"} {
		e := entryFor(t, entries, date)
		if e.Status != StatusOccupied || e.Reason != ReasonBooked || e.BookingRef != "bk-1" {
			t.Errorf("%s should be occupied by bk-1: %+v", date, e)
		}
	}
	if e := entryFor(t, entries, "2024-06-05"); e.Status == StatusOccupied {
		t.Errorf("checkout date must not be occupied: %+v", e)
	}
	if e := entryFor(t, entries, "2024-06-01"); e.Status == StatusOccupied {
		t.Errorf("date before check-in must not be occupied: %+v", e)
	}
}

// A booking wins over an owner override for the same date, but the
// override price remains what the calendar reports for that day.
func TestWindowBookingBeatsOverride(t *testing.T) {
	price := money.Must(15000, "USD")
	rec := Reconciler{
		Overrides: fakeOverrides{rows: []Override{
			{RoomID: "room-1", Date: civil.MustParseDate("2024-06-02"), Status: StatusAvailable, Price: &price},
		}},
		Bookings: fakeBookings{spans: []BookedSpan{stay(t, "bk-2", "2024-06-01", "2024-06-04")}},
	}
	entries, err := rec.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-04"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	e := entryFor(t, entries, "2024-06-02")
	if e.Status != StatusOccupied || e.Reason != ReasonBooked {
		t.Fatalf("booking must override status: %+v", e)
	}
	if e.Price.Amount != 15000 {
		t.Fatalf("override price should still be reported: %+v", e)
	}
}

// A stay that starts before and ends after the window must mark every
// window date, and a stay checking in on the window's last day is seen.
func TestWindowClampsLongStays(t *testing.T) {
	rec := Reconciler{
		Overrides: fakeOverrides{},
		Bookings: fakeBookings{spans: []BookedSpan{
			stay(t, "bk-long", "2024-05-20", "2024-07-10"),
		}},
	}
	entries, err := rec.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-03"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	for _, e := range entries {
		if e.Status != StatusOccupied {
			t.Errorf("%s should be occupied by the long stay", e.Date)
		}
	}

	rec = Reconciler{
		Overrides: fakeOverrides{},
		Bookings:  fakeBookings{spans: []BookedSpan{stay(t, "bk-edge", "2024-06-03", "2024-06-05")}},
	}
	entries, err = rec.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-03"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if e := entryFor(t, entries, "2024-06-03"); e.Status != StatusOccupied {
		t.Fatalf("stay starting on the last window date must appear: %+v", e)
	}
}

// Cancelling frees dates: the booking source simply stops returning
// the span, and the prior override (or default) shows through again.
func TestWindowCancelledBookingVanishes(t *testing.T) {
	price := money.Must(12000, "USD")
	overrides := fakeOverrides{rows: []Override{
		{RoomID: "room-1", Date: civil.MustParseDate("2024-06-02"), Status: StatusAvailable, Price: &price},
	}}

	active := Reconciler{Overrides: overrides, Bookings: fakeBookings{spans: []BookedSpan{stay(t, "bk-3", "2024-06-01", "2024-06-04")}}}
	entries, err := active.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-04"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if e := entryFor(t, entries, "2024-06-02"); e.Status != StatusOccupied {
		t.Fatalf("precondition: booked date occupied: %+v", e)
	}

	cancelled := Reconciler{Overrides: overrides, Bookings: fakeBookings{}}
	entries, err = cancelled.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-04"))
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if e := entryFor(t, entries, "2024-06-02"); e.Status != StatusAvailable || e.Price.Amount != 12000 {
		t.Fatalf("override should show through after cancellation: %+v", e)
	}
	if e := entryFor(t, entries, "2024-06-01"); e.Status != StatusBlocked {
		t.Fatalf("unconfigured date should fall back to blocked: %+v", e)
	}
}

func TestWindowRejectsInvertedWindow(t *testing.T) {
	rec := Reconciler{Overrides: fakeOverrides{}, Bookings: fakeBookings{}}
	_, err := rec.Window(context.Background(), testRoom(t), civil.MustParseDate("2024-06-05"), civil.MustParseDate("2024-06-01"))
	if err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestWindowNilRoom(t *testing.T) {
	rec := Reconciler{Overrides: fakeOverrides{}, Bookings: fakeBookings{}}
	_, err := rec.Window(context.Background(), nil, civil.MustParseDate("2024-06-01"), civil.MustParseDate("2024-06-02"))
	if err != property.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}
