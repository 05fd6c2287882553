package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainfinance "stayhub/internal/domain/finance"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID       string
	Actor           actor.Actor
	Reason          string
	IdempotencyKeyV string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

func (c CancelBookingCommand) Acting() actor.Actor { return c.Actor }

func (c CancelBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CancelBookingCommand) ResultPrototype() any { return &CancelBookingResult{} }

type CancelBookingResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// CancelBookingHandler soft-cancels a stay. The row stays in place;
// the availability read side frees the dates immediately because it
// skips cancelled bookings.
type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
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

	bk, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if err := authorizeBookingActor(ctx, unit, cmd.Actor, bk); err != nil {
		return nil, err
	}

	now := h.now()
	if err := bk.Cancel(cmd.Reason, now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}

	refund, err := domainfinance.NewEntry(
		domainfinance.EntryID(uuid.NewString()),
		bk.ID, bk.PropertyID, domainfinance.KindRefund,
		bk.Price.Total, "booking cancelled", now,
	)
	if err != nil {
		return nil, err
	}
	if err := unit.Ledger().Append(ctx, refund); err != nil {
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

	return &CancelBookingResult{BookingID: string(bk.ID), Status: string(bk.Status)}, nil
}

func (h *CancelBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CancelBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CancelBookingCommand)(nil)
