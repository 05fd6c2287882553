package availability

import (
	"context"
	"time"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/money"
)

const setOverrideKey = "availability.set_override"

type SetOverrideCommand struct {
	PropertyID string
	RoomID     string
	Actor      actor.Actor
	Date       string
	Status     string
	// PriceMinor is the per-night price in minor units; nil keeps the
	// room default.
	PriceMinor *int64
	Currency   string
	Notes      string
	Clear      bool
}

func (c SetOverrideCommand) Key() string { return setOverrideKey }

func (c SetOverrideCommand) Acting() actor.Actor { return c.Actor }

type SetOverrideResult struct {
	RoomID string `json:"room_id"`
	Date   string `json:"date"`
	Status string `json:"status,omitempty"`
}

// SetOverrideHandler upserts (or clears) the owner's per-date record.
// Only the property owner or an admin may edit a room's calendar.
type SetOverrideHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *SetOverrideHandler) Handle(ctx context.Context, cmd SetOverrideCommand) (*SetOverrideResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if !cmd.Actor.May(prop.OwnerID) {
		return nil, domainauth.ErrUnauthorized
	}

	room, err := unit.Rooms().Room(ctx, prop.ID, domainproperty.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}

	date, err := civil.ParseDate(cmd.Date)
	if err != nil {
		return nil, err
	}

	if cmd.Clear {
		if err := unit.Overrides().Delete(ctx, room.ID, date); err != nil {
			return nil, err
		}
		if managed {
			if err := unit.Commit(ctx); err != nil {
				return nil, err
			}
			committed = true
		}
		return &SetOverrideResult{RoomID: string(room.ID), Date: date.String()}, nil
	}

	status, err := domainavailability.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	override := domainavailability.Override{
		RoomID:    room.ID,
		Date:      date,
		Status:    status,
		Notes:     cmd.Notes,
		UpdatedAt: h.now(),
	}
	if cmd.PriceMinor != nil {
		currency := cmd.Currency
		if currency == "" {
			currency = room.DefaultPrice.Currency
		}
		price, err := money.New(*cmd.PriceMinor, currency)
		if err != nil {
			return nil, err
		}
		override.Price = &price
	}
	if err := unit.Overrides().Upsert(ctx, override); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &SetOverrideResult{RoomID: string(room.ID), Date: date.String(), Status: string(status)}, nil
}

func (h *SetOverrideHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[SetOverrideCommand, *SetOverrideResult] = (*SetOverrideHandler)(nil)
