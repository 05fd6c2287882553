package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayhub/internal/app/actor"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
)

func seedRoom(t *testing.T) memory.Factory {
	t.Helper()
	ctx := context.Background()
	factory := memory.NewFactory()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	prop := &domainproperty.Property{ID: "prop-1", OwnerID: "owner-1", Name: "Harbor House", CreatedAt: now, UpdatedAt: now}
	if err := factory.PropertiesRepo.Save(ctx, prop); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	room, err := domainproperty.NewRoom("room-1", prop.ID, "Seaview", money.Must(10000, "USD"), 3, now)
	if err != nil {
		t.Fatalf("seed room: %v", err)
	}
	if err := factory.RoomsRepo.Save(ctx, room); err != nil {
		t.Fatalf("save room: %v", err)
	}
	return factory
}

func owner() actor.Actor {
	return actor.Actor{ID: "owner-1", Roles: []user.Role{user.RoleOwner}}
}

func TestSetOverrideUpsertsRecord(t *testing.T) {
	factory := seedRoom(t)
	ctx := context.Background()
	h := &SetOverrideHandler{UoWFactory: factory}

	price := int64(15000)
	res, err := h.Handle(ctx, SetOverrideCommand{
		PropertyID: "prop-1",
		RoomID:     "room-1",
		Actor:      owner(),
		Date:       "2024-06-02",
		Status:     "AVAILABLE",
		PriceMinor: &price,
		Notes:      "summer rate",
	})
	if err != nil {
		t.Fatalf("set override: %v", err)
	}
	if res.RoomID != "room-1" || res.Date != "2024-06-02" {
		t.Fatalf("result = %+v", res)
	}

	cal := &GetCalendarHandler{UoWFactory: factory}
	view, err := cal.Handle(ctx, GetCalendarQuery{PropertyID: "prop-1", RoomID: "room-1", From: "2024-06-01", To: "2024-06-03"})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(view.Days) != 3 {
		t.Fatalf("days = %d", len(view.Days))
	}
	if view.Days[0].Status != string(domainavailability.StatusBlocked) {
		t.Errorf("unconfigured day = %+v", view.Days[0])
	}
	if view.Days[1].Status != string(domainavailability.StatusAvailable) || view.Days[1].Price.Amount != 15000 {
		t.Errorf("override day = %+v", view.Days[1])
	}
}

func TestSetOverrideAuthorization(t *testing.T) {
	factory := seedRoom(t)
	ctx := context.Background()
	h := &SetOverrideHandler{UoWFactory: factory}

	stranger := actor.Actor{ID: "guest-9", Roles: []user.Role{user.RoleGuest}}
	_, err := h.Handle(ctx, SetOverrideCommand{
		PropertyID: "prop-1", RoomID: "room-1", Actor: stranger,
		Date: "2024-06-02", Status: "BLOCKED",
	})
	if !errors.Is(err, domainauth.ErrUnauthorized) {
		t.Fatalf("stranger: got %v", err)
	}

	admin := actor.Actor{ID: "staff-1", Roles: []user.Role{user.RoleAdmin}}
	if _, err := h.Handle(ctx, SetOverrideCommand{
		PropertyID: "prop-1", RoomID: "room-1", Actor: admin,
		Date: "2024-06-02", Status: "BLOCKED",
	}); err != nil {
		t.Fatalf("admin: %v", err)
	}
}

func TestSetOverrideRejectsUnknownStatus(t *testing.T) {
	factory := seedRoom(t)
	h := &SetOverrideHandler{UoWFactory: factory}

	_, err := h.Handle(context.Background(), SetOverrideCommand{
		PropertyID: "prop-1", RoomID: "room-1", Actor: owner(),
		Date: "2024-06-02", Status: "FULL",
	})
	if !errors.Is(err, domainavailability.ErrUnknownStatus) {
		t.Fatalf("got %v", err)
	}
}

func TestSetOverrideClearRestoresDefault(t *testing.T) {
	factory := seedRoom(t)
	ctx := context.Background()
	h := &SetOverrideHandler{UoWFactory: factory}

	if _, err := h.Handle(ctx, SetOverrideCommand{
		PropertyID: "prop-1", RoomID: "room-1", Actor: owner(),
		Date: "2024-06-02", Status: "AVAILABLE",
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := h.Handle(ctx, SetOverrideCommand{
		PropertyID: "prop-1", RoomID: "room-1", Actor: owner(),
		Date: "2024-06-02", Clear: true,
	}); err != nil {
		t.Fatalf("clear: %v", err)
	}

	cal := &GetCalendarHandler{UoWFactory: factory}
	view, err := cal.Handle(ctx, GetCalendarQuery{PropertyID: "prop-1", RoomID: "room-1", From: "2024-06-02", To: "2024-06-02"})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if view.Days[0].Status != string(domainavailability.StatusBlocked) {
		t.Fatalf("cleared day = %+v", view.Days[0])
	}
}

func TestQuoteStayMatchesNightResolution(t *testing.T) {
	factory := seedRoom(t)
	ctx := context.Background()
	set := &SetOverrideHandler{UoWFactory: factory}

	price := int64(15000)
	if _, err := set.Handle(ctx, SetOverrideCommand{
		PropertyID: "prop-1", RoomID: "room-1", Actor: owner(),
		Date: "2024-06-02", Status: "AVAILABLE", PriceMinor: &price,
	}); err != nil {
		t.Fatalf("override: %v", err)
	}

	quote := &QuoteStayHandler{UoWFactory: factory}
	q, err := quote.Handle(ctx, QuoteStayQuery{PropertyID: "prop-1", RoomID: "room-1", CheckIn: "2024-06-01", CheckOut: "2024-06-04"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Nights != 3 || q.Total.Amount != 35000 {
		t.Fatalf("quote = %+v", q)
	}
	if !q.Lines[1].Overridden || q.Lines[1].Price.Amount != 15000 {
		t.Fatalf("line = %+v", q.Lines[1])
	}
	// The checkout date is not a night and is never priced.
	if q.Lines[len(q.Lines)-1].Date != "2024-06-03" {
		t.Fatalf("last night = %s", q.Lines[len(q.Lines)-1].Date)
	}
}

func TestQuoteStayUnknownRoom(t *testing.T) {
	factory := seedRoom(t)
	quote := &QuoteStayHandler{UoWFactory: factory}

	_, err := quote.Handle(context.Background(), QuoteStayQuery{PropertyID: "prop-1", RoomID: "room-404", CheckIn: "2024-06-01", CheckOut: "2024-06-02"})
	if !errors.Is(err, domainproperty.ErrRoomNotFound) {
		t.Fatalf("got %v", err)
	}
}
