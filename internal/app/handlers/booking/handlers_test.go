package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stayhub/internal/app/actor"
	"stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
)

type fixture struct {
	factory memory.Factory
	box     *memory.Outbox
	locks   *memory.RoomLocks
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		factory: memory.NewFactory(),
		box:     memory.NewOutbox(),
		locks:   memory.NewRoomLocks(),
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	prop := &domainproperty.Property{
		ID:        "prop-1",
		OwnerID:   "owner-1",
		Name:      "Harbor House",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.factory.PropertiesRepo.Save(ctx, prop); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	room, err := domainproperty.NewRoom("room-1", prop.ID, "Seaview", money.Must(10000, "USD"), 3, now)
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}
	if err := f.factory.RoomsRepo.Save(ctx, room); err != nil {
		t.Fatalf("save room: %v", err)
	}
	return f
}

func (f fixture) createHandler() *CreateBookingHandler {
	return &CreateBookingHandler{UoWFactory: f.factory, Locks: f.locks, Outbox: f.box}
}

func guest(id string) actor.Actor {
	return actor.Actor{ID: user.ID(id), Roles: []user.Role{user.RoleGuest}}
}

func createCmd(commandID, guestID, checkIn, checkOut string) CreateBookingCommand {
	return CreateBookingCommand{
		CommandID:  commandID,
		PropertyID: "prop-1",
		RoomID:     "room-1",
		Actor:      guest(guestID),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
	}
}

func TestCreateBookingConfirmsAndCharges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.createHandler().Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.BookingID != "bk-1" || res.Reference == "" {
		t.Fatalf("result = %+v", res)
	}
	if res.Price.Nights != 3 || res.Price.Total.Amount != 30000 {
		t.Fatalf("price = %+v", res.Price)
	}

	bk, err := f.factory.BookingsRepo.ByID(ctx, "bk-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bk.Status != domainbooking.StatusConfirmed {
		t.Fatalf("status = %s", bk.Status)
	}

	entries, err := f.factory.LedgerRepo.ByBooking(ctx, "bk-1")
	if err != nil || len(entries) != 1 {
		t.Fatalf("ledger = %v, err %v", entries, err)
	}
	if entries[0].Amount.Amount != 30000 {
		t.Fatalf("charge = %+v", entries[0].Amount)
	}

	if len(f.box.Pending()) == 0 {
		t.Fatal("no events recorded")
	}
}

func TestCreateBookingUsesOverridePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	price := money.Must(15000, "USD")
	err := f.factory.OverridesRepo.Upsert(ctx, availability.Override{
		RoomID: "room-1",
		Date:   civil.MustParseDate("2024-06-02"),
		Status: availability.StatusAvailable,
		Price:  &price,
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}

	res, err := f.createHandler().Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Price.Total.Amount != 35000 {
		t.Fatalf("total = %d", res.Price.Total.Amount)
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHandler()

	if _, err := h.Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := h.Handle(ctx, createCmd("bk-2", "guest-2", "2024-06-03", "2024-06-05"))
	if !errors.Is(err, domainbooking.ErrDatesUnavailable) {
		t.Fatalf("overlap: got %v", err)
	}
}

func TestCreateBookingBackToBackStays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHandler()

	if _, err := h.Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")); err != nil {
		t.Fatalf("first: %v", err)
	}
	// Checkout day is free, so a stay starting on it does not clash.
	if _, err := h.Handle(ctx, createCmd("bk-2", "guest-2", "2024-06-04", "2024-06-06")); err != nil {
		t.Fatalf("back-to-back: %v", err)
	}
}

func TestCreateBookingGuestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.createHandler()

	cmd := createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")
	cmd.Guests = 5
	if _, err := h.Handle(ctx, cmd); !errors.Is(err, domainbooking.ErrTooManyGuests) {
		t.Errorf("occupancy: got %v", err)
	}
	cmd.Guests = 0
	if _, err := h.Handle(ctx, cmd); !errors.Is(err, domainbooking.ErrInvalidGuests) {
		t.Errorf("zero guests: got %v", err)
	}
	cmd.Guests = 2
	cmd.Actor = actor.Actor{}
	if _, err := h.Handle(ctx, cmd); !errors.Is(err, domainbooking.ErrGuestRequired) {
		t.Errorf("anonymous: got %v", err)
	}
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd := createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")
	cmd.RoomID = "room-404"
	if _, err := f.createHandler().Handle(ctx, cmd); !errors.Is(err, domainproperty.ErrRoomNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestConcurrentCreateOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	h := f.createHandler()

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, id := range []string{"bk-a", "bk-b"} {
		wg.Add(1)
		go func(slot int, commandID string) {
			defer wg.Done()
			_, results[slot] = h.Handle(context.Background(), createCmd(commandID, "guest-"+commandID, "2024-06-01", "2024-06-04"))
		}(i, id)
	}
	wg.Wait()

	var wins, clashes int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainbooking.ErrDatesUnavailable):
			clashes++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || clashes != 1 {
		t.Fatalf("wins = %d, clashes = %d", wins, clashes)
	}
}

func TestCancelFreesDatesForRebooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := f.createHandler()
	cancel := &CancelBookingHandler{UoWFactory: f.factory, Outbox: f.box}

	if _, err := create.Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")); err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := cancel.Handle(ctx, CancelBookingCommand{
		BookingID: "bk-1",
		Actor:     guest("guest-1"),
		Reason:    "change of plans",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Status != string(domainbooking.StatusCancelled) {
		t.Fatalf("status = %s", res.Status)
	}

	// The cancelled row stays in place but no longer blocks the range.
	if _, err := create.Handle(ctx, createCmd("bk-2", "guest-2", "2024-06-02", "2024-06-05")); err != nil {
		t.Fatalf("rebook: %v", err)
	}
}

func TestCancelRequiresBookingActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cancel := &CancelBookingHandler{UoWFactory: f.factory, Outbox: f.box}

	if _, err := f.createHandler().Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := cancel.Handle(ctx, CancelBookingCommand{BookingID: "bk-1", Actor: guest("guest-2")})
	if !errors.Is(err, domainbooking.ErrNotBookingActor) {
		t.Fatalf("stranger cancel: got %v", err)
	}

	// An admin may cancel on the guest's behalf.
	admin := actor.Actor{ID: "staff-1", Roles: []user.Role{user.RoleAdmin}}
	if _, err := cancel.Handle(ctx, CancelBookingCommand{BookingID: "bk-1", Actor: admin}); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newFixture(t)
	cancel := &CancelBookingHandler{UoWFactory: f.factory, Outbox: f.box}

	_, err := cancel.Handle(context.Background(), CancelBookingCommand{BookingID: "bk-404", Actor: guest("guest-1")})
	if !errors.Is(err, domainbooking.ErrBookingNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestRescheduleRevalidatesAndRequotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := f.createHandler()
	reschedule := &RescheduleBookingHandler{UoWFactory: f.factory, Locks: f.locks, Outbox: f.box}

	if _, err := create.Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")); err != nil {
		t.Fatalf("create bk-1: %v", err)
	}
	if _, err := create.Handle(ctx, createCmd("bk-2", "guest-2", "2024-06-10", "2024-06-12")); err != nil {
		t.Fatalf("create bk-2: %v", err)
	}

	_, err := reschedule.Handle(ctx, RescheduleBookingCommand{
		BookingID: "bk-1",
		Actor:     guest("guest-1"),
		CheckIn:   "2024-06-11",
		CheckOut:  "2024-06-13",
		Guests:    2,
	})
	if !errors.Is(err, domainbooking.ErrDatesUnavailable) {
		t.Fatalf("clash: got %v", err)
	}

	res, err := reschedule.Handle(ctx, RescheduleBookingCommand{
		BookingID: "bk-1",
		Actor:     guest("guest-1"),
		CheckIn:   "2024-06-04",
		CheckOut:  "2024-06-08",
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if res.Price.Nights != 4 || res.Price.Total.Amount != 40000 {
		t.Fatalf("requote = %+v", res.Price)
	}

	bk, err := f.factory.BookingsRepo.ByID(ctx, "bk-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bk.Range.CheckIn.String() != "2024-06-04" || bk.Range.CheckOut.String() != "2024-06-08" {
		t.Fatalf("range = %s..%s", bk.Range.CheckIn, bk.Range.CheckOut)
	}
}

func TestListGuestBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := f.createHandler()

	if _, err := create.Handle(ctx, createCmd("bk-1", "guest-1", "2024-06-01", "2024-06-04")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := create.Handle(ctx, createCmd("bk-2", "guest-2", "2024-06-10", "2024-06-12")); err != nil {
		t.Fatalf("create: %v", err)
	}

	list := &ListGuestBookingsHandler{UoWFactory: f.factory}
	items, err := list.Handle(ctx, ListGuestBookingsQuery{Actor: guest("guest-1")})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != "bk-1" {
		t.Fatalf("items = %+v", items)
	}
}
