package availability

import (
	"context"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainpricing "stayhub/internal/domain/pricing"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/daterange"
)

const quoteStayKey = "availability.quote"

type QuoteStayQuery struct {
	PropertyID string
	RoomID     string
	CheckIn    string
	CheckOut   string
}

func (q QuoteStayQuery) Key() string { return quoteStayKey }

// QuoteStayHandler previews the stay total. Clients render this
// server quote instead of recomputing it, so preview and booked
// totals cannot drift.
type QuoteStayHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QuoteStayHandler) Handle(ctx context.Context, q QuoteStayQuery) (dto.Quote, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.Quote{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.Quote{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	stay, err := daterange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Quote{}, err
	}
	room, err := unit.Rooms().Room(ctx, domainproperty.PropertyID(q.PropertyID), domainproperty.RoomID(q.RoomID))
	if err != nil {
		return dto.Quote{}, err
	}

	quoter := domainpricing.OverrideQuoter{Overrides: unit.Overrides()}
	breakdown, err := quoter.QuoteStay(ctx, room, stay)
	if err != nil {
		return dto.Quote{}, err
	}
	return dto.MapQuote(breakdown), nil
}

var _ queries.Handler[QuoteStayQuery, dto.Quote] = (*QuoteStayHandler)(nil)
