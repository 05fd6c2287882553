package finance

import (
	"context"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainproperty "stayhub/internal/domain/property"
)

const propertyLedgerKey = "finance.ledger"

type PropertyLedgerQuery struct {
	Actor      actor.Actor
	PropertyID string
}

func (q PropertyLedgerQuery) Key() string { return propertyLedgerKey }

func (q PropertyLedgerQuery) Acting() actor.Actor { return q.Actor }

// PropertyLedgerHandler lists a property's money movements with
// per-currency running totals. Owner or admin only.
type PropertyLedgerHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *PropertyLedgerHandler) Handle(ctx context.Context, q PropertyLedgerQuery) (dto.LedgerSummary, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.LedgerSummary{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.LedgerSummary{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.LedgerSummary{}, err
	}
	if !q.Actor.May(prop.OwnerID) {
		return dto.LedgerSummary{}, domainauth.ErrUnauthorized
	}

	entries, err := unit.Ledger().ByProperty(ctx, prop.ID)
	if err != nil {
		return dto.LedgerSummary{}, err
	}
	return dto.MapLedger(q.PropertyID, entries), nil
}

var _ queries.Handler[PropertyLedgerQuery, dto.LedgerSummary] = (*PropertyLedgerHandler)(nil)
