package booking

import (
	"context"
	"time"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
)

const rescheduleBookingKey = "booking.reschedule"

type RescheduleBookingCommand struct {
	BookingID       string
	Actor           actor.Actor
	CheckIn         string
	CheckOut        string
	Guests          int
	IdempotencyKeyV string
}

func (c RescheduleBookingCommand) Key() string { return rescheduleBookingKey }

func (c RescheduleBookingCommand) Acting() actor.Actor { return c.Actor }

func (c RescheduleBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RescheduleBookingCommand) ResultPrototype() any { return &RescheduleBookingResult{} }

type RescheduleBookingResult struct {
	BookingID string                       `json:"booking_id"`
	Price     domainpricing.PriceBreakdown `json:"price"`
}

// RescheduleBookingHandler moves a stay atomically: the new range is
// re-validated against other bookings, the price requoted and the
// booking saved inside one unit of work, so no reader ever sees the
// old dates freed without the new ones applied.
type RescheduleBookingHandler struct {
	UoWFactory uow.UoWFactory
	Locks      policies.RoomLocker
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RescheduleBookingHandler) Handle(ctx context.Context, cmd RescheduleBookingCommand) (*RescheduleBookingResult, error) {
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

	newRange, err := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	bk, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if err := authorizeBookingActor(ctx, unit, cmd.Actor, bk); err != nil {
		return nil, err
	}

	if h.Locks != nil {
		unlock, err := h.Locks.Lock(ctx, bk.RoomID)
		if err != nil {
			return nil, err
		}
		// Held until the unit settles so rivals re-validate against
		// the committed range.
		unit.Defer(unlock)
	}

	clashes, err := unit.Bookings().ActiveOverlapping(ctx, bk.RoomID, newRange)
	if err != nil {
		return nil, err
	}
	for _, other := range clashes {
		if other.ID != bk.ID {
			return nil, domainbooking.ErrDatesUnavailable
		}
	}

	room, err := unit.Rooms().Room(ctx, bk.PropertyID, bk.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.FitsGuests(cmd.Guests) {
		if cmd.Guests <= 0 {
			return nil, domainbooking.ErrInvalidGuests
		}
		return nil, domainbooking.ErrTooManyGuests
	}

	quoter := domainpricing.OverrideQuoter{Overrides: unit.Overrides()}
	price, err := quoter.QuoteStay(ctx, room, newRange)
	if err != nil {
		return nil, err
	}

	if err := bk.Reschedule(newRange, cmd.Guests, price, h.now()); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
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

	return &RescheduleBookingResult{BookingID: string(bk.ID), Price: bk.Price}, nil
}

func (h *RescheduleBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *RescheduleBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// authorizeBookingActor admits the booking's guest, the owner of the
// booked property, and admins. Anyone else is rejected before any
// mutation happens.
func authorizeBookingActor(ctx context.Context, unit uow.UnitOfWork, act actor.Actor, bk *domainbooking.Booking) error {
	if act.May(bk.GuestID) {
		return nil
	}
	prop, err := unit.Properties().ByID(ctx, bk.PropertyID)
	if err == nil && act.May(prop.OwnerID) {
		return nil
	}
	return domainbooking.ErrNotBookingActor
}

var _ commands.Handler[RescheduleBookingCommand, *RescheduleBookingResult] = (*RescheduleBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RescheduleBookingCommand)(nil)
