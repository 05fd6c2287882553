package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainfinance "stayhub/internal/domain/finance"
	domainpricing "stayhub/internal/domain/pricing"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

type CreateBookingCommand struct {
	CommandID       string
	PropertyID      string
	RoomID          string
	Actor           actor.Actor
	CheckIn         string // ISO calendar date, YYYY-MM-DD
	CheckOut        string
	Guests          int
	SpecialRequests string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) Acting() actor.Actor { return c.Actor }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID string                       `json:"booking_id"`
	Reference string                       `json:"reference"`
	Price     domainpricing.PriceBreakdown `json:"price"`
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Locks      policies.RoomLocker
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, managed, err := resolveUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	if !cmd.Actor.Known() {
		return nil, domainbooking.ErrGuestRequired
	}
	stay, err := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	roomID := domainproperty.RoomID(cmd.RoomID)
	if h.Locks != nil {
		unlock, err := h.Locks.Lock(ctx, roomID)
		if err != nil {
			return nil, err
		}
		// The lock must outlive the commit: a rival create may only
		// re-validate once this booking is visible to it.
		unit.Defer(unlock)
	}

	room, err := unit.Rooms().Room(ctx, domainproperty.PropertyID(cmd.PropertyID), roomID)
	if err != nil {
		return nil, err
	}
	if !room.FitsGuests(cmd.Guests) {
		if cmd.Guests <= 0 {
			return nil, domainbooking.ErrInvalidGuests
		}
		return nil, domainbooking.ErrTooManyGuests
	}

	// Re-validate against all active bookings inside the room lock;
	// the half-open rule means back-to-back stays never conflict.
	clashes, err := unit.Bookings().ActiveOverlapping(ctx, roomID, stay)
	if err != nil {
		return nil, err
	}
	if len(clashes) > 0 {
		return nil, domainbooking.ErrDatesUnavailable
	}

	quoter := domainpricing.OverrideQuoter{Overrides: unit.Overrides()}
	price, err := quoter.QuoteStay(ctx, room, stay)
	if err != nil {
		return nil, err
	}

	now := h.now()
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:              domainbooking.BookingID(cmd.CommandID),
		RoomID:          roomID,
		PropertyID:      room.PropertyID,
		GuestID:         string(cmd.Actor.ID),
		Range:           stay,
		Guests:          cmd.Guests,
		Price:           price,
		Reference:       uuid.NewString(),
		SpecialRequests: cmd.SpecialRequests,
		CreatedAt:       now,
	})
	if err != nil {
		return nil, err
	}
	if err := bk.Confirm(now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}

	charge, err := domainfinance.NewEntry(
		domainfinance.EntryID(uuid.NewString()),
		bk.ID, bk.PropertyID, domainfinance.KindCharge,
		bk.Price.Total, "booking charge", now,
	)
	if err != nil {
		return nil, err
	}
	if err := unit.Ledger().Append(ctx, charge); err != nil {
		return nil, err
	}

	if err := outbox.Drain(ctx, h.Outbox, h.encoder(), bk); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateBookingResult{
		BookingID: string(bk.ID),
		Reference: bk.Reference,
		Price:     bk.Price,
	}, nil
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CreateBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// resolveUnit reuses a unit of work already carried by the context
// (transaction middleware) or begins a handler-managed one.
func resolveUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, nil
	}
	if factory == nil {
		return nil, false, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	return unit, true, nil
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
