package availability

import (
	"context"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
)

const getCalendarKey = "availability.calendar"

type GetCalendarQuery struct {
	PropertyID string
	RoomID     string
	From       string // ISO calendar date
	To         string // inclusive
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

// GetCalendarHandler runs the reconciler for a room and window and
// maps the result for transport.
type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.Calendar{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.Calendar{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	from, err := civil.ParseDate(q.From)
	if err != nil {
		return dto.Calendar{}, err
	}
	to, err := civil.ParseDate(q.To)
	if err != nil {
		return dto.Calendar{}, err
	}

	room, err := unit.Rooms().Room(ctx, domainproperty.PropertyID(q.PropertyID), domainproperty.RoomID(q.RoomID))
	if err != nil {
		return dto.Calendar{}, err
	}

	rec := domainavailability.Reconciler{
		Overrides: unit.Overrides(),
		Bookings:  bookingSpans{repo: unit.Bookings()},
	}
	entries, err := rec.Window(ctx, room, from, to)
	if err != nil {
		return dto.Calendar{}, err
	}
	return dto.MapCalendar(q.PropertyID, q.RoomID, entries), nil
}

// bookingSpans adapts the booking repository to the reconciler's
// read-only source, filtering down to refs and ranges.
type bookingSpans struct {
	repo domainbooking.Repository
}

func (s bookingSpans) ActiveSpans(ctx context.Context, roomID domainproperty.RoomID, window daterange.DateRange) ([]domainavailability.BookedSpan, error) {
	items, err := s.repo.ActiveOverlapping(ctx, roomID, window)
	if err != nil {
		return nil, err
	}
	spans := make([]domainavailability.BookedSpan, 0, len(items))
	for _, b := range items {
		spans = append(spans, domainavailability.BookedSpan{Ref: b.Reference, Range: b.Range})
	}
	return spans, nil
}

var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
