package middleware_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	bookingapp "stayhub/internal/app/handlers/booking"
	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/memory"
)

// seedFactory builds an in-memory factory with one property and room.
func seedFactory(t *testing.T) memory.Factory {
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

// buildPipeline wires the production command pipeline against
// in-memory stores, with a sink capturing flushed events.
func buildPipeline(t *testing.T) (commands.Bus, memory.Factory, *[]appoutbox.EventRecord) {
	t.Helper()
	factory := seedFactory(t)

	var flushed []appoutbox.EventRecord
	box := memory.NewOutbox().WithSink(func(rec appoutbox.EventRecord) {
		flushed = append(flushed, rec)
	})

	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: factory,
		Locks:      memory.NewRoomLocks(),
		Outbox:     box,
	})

	chained := middleware.ChainCommands(
		bus,
		middleware.Idempotency(memory.NewIdempotencyStore(0), nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	return chained, factory, &flushed
}

func createCmd(commandID, idempotencyKey string) bookingapp.CreateBookingCommand {
	return bookingapp.CreateBookingCommand{
		CommandID:       commandID,
		PropertyID:      "prop-1",
		RoomID:          "room-1",
		Actor:           actor.Actor{ID: "guest-1", Roles: []user.Role{user.RoleGuest}},
		CheckIn:         "2024-06-01",
		CheckOut:        "2024-06-04",
		Guests:          2,
		IdempotencyKeyV: idempotencyKey,
	}
}

func TestPipelineReplaysIdempotentCommand(t *testing.T) {
	bus, factory, _ := buildPipeline(t)
	ctx := context.Background()

	first, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](ctx, bus, createCmd("bk-1", "req-1"))
	if err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	// Same key replays the stored result; the handler never runs, so
	// no conflict surfaces even though the dates are now taken.
	second, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](ctx, bus, createCmd("bk-2", "req-1"))
	if err != nil {
		t.Fatalf("replay dispatch: %v", err)
	}
	if second.BookingID != first.BookingID || second.Reference != first.Reference {
		t.Fatalf("replay = %+v, want %+v", second, first)
	}

	if _, err := factory.BookingsRepo.ByID(ctx, "bk-2"); err == nil {
		t.Fatal("replay created a second booking")
	}
}

func TestPipelineDistinctKeysConflict(t *testing.T) {
	bus, _, _ := buildPipeline(t)
	ctx := context.Background()

	if _, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](ctx, bus, createCmd("bk-1", "req-1")); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](ctx, bus, createCmd("bk-2", "req-2")); err == nil {
		t.Fatal("expected a conflict for the second key")
	}
}

type eventTrace struct {
	mu     sync.Mutex
	events []string
}

func (tr *eventTrace) add(ev string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.events = append(tr.events, ev)
}

func (tr *eventTrace) index(ev string) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for i, e := range tr.events {
		if e == ev {
			return i
		}
	}
	return -1
}

type tracingLocker struct {
	inner policies.RoomLocker
	trace *eventTrace
}

func (l tracingLocker) Lock(ctx context.Context, roomID domainproperty.RoomID) (func(), error) {
	unlock, err := l.inner.Lock(ctx, roomID)
	if err != nil {
		return nil, err
	}
	l.trace.add("lock")
	return func() {
		l.trace.add("unlock")
		unlock()
	}, nil
}

type tracingFactory struct {
	inner uow.UoWFactory
	trace *eventTrace
}

func (f tracingFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	unit, err := f.inner.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	return tracingUnit{UnitOfWork: unit, trace: f.trace}, nil
}

type tracingUnit struct {
	uow.UnitOfWork
	trace *eventTrace
}

func (u tracingUnit) Commit(ctx context.Context) error {
	u.trace.add("commit")
	return u.UnitOfWork.Commit(ctx)
}

// The room lock serializes the validate-then-persist window. It may
// only be released once the transaction middleware has committed;
// otherwise a rival create could re-validate against a snapshot that
// does not yet contain this booking.
func TestRoomLockHeldAcrossCommit(t *testing.T) {
	factory := seedFactory(t)
	trace := &eventTrace{}

	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: factory,
		Locks:      tracingLocker{inner: memory.NewRoomLocks(), trace: trace},
		Outbox:     memory.NewOutbox(),
	})
	chained := middleware.ChainCommands(bus, middleware.Transaction(tracingFactory{inner: factory, trace: trace}, nil))

	if _, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](context.Background(), chained, createCmd("bk-1", "")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	lock, commit, unlock := trace.index("lock"), trace.index("commit"), trace.index("unlock")
	if lock < 0 || commit < 0 || unlock < 0 {
		t.Fatalf("trace = %v", trace.events)
	}
	if !(lock < commit && commit < unlock) {
		t.Fatalf("trace = %v, want lock before commit before unlock", trace.events)
	}
}

func TestPipelineFlushesOutboxAfterCommit(t *testing.T) {
	bus, _, flushed := buildPipeline(t)
	ctx := context.Background()

	if _, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](ctx, bus, createCmd("bk-1", "req-1")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(*flushed) == 0 {
		t.Fatal("no events flushed")
	}
	names := make(map[string]bool, len(*flushed))
	for _, rec := range *flushed {
		names[rec.Name] = true
	}
	if !names["booking.requested"] || !names["booking.confirmed"] {
		t.Fatalf("flushed = %v", names)
	}
}
