package booking

import (
	"context"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
)

const listGuestBookingsKey = "booking.list_guest"

type ListGuestBookingsQuery struct {
	Actor actor.Actor
}

func (q ListGuestBookingsQuery) Key() string { return listGuestBookingsKey }

func (q ListGuestBookingsQuery) Acting() actor.Actor { return q.Actor }

type ListGuestBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) ([]dto.Booking, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	items, err := unit.Bookings().ListByGuest(ctx, string(q.Actor.ID))
	if err != nil {
		return nil, err
	}
	return dto.MapBookings(items), nil
}

var _ queries.Handler[ListGuestBookingsQuery, []dto.Booking] = (*ListGuestBookingsHandler)(nil)
