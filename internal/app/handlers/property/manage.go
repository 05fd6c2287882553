package property

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/actor"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/money"
	domainuser "stayhub/internal/domain/user"
)

const (
	createPropertyKey = "property.create"
	addRoomKey        = "property.add_room"
	listPropertiesKey = "property.list"
	listRoomsKey      = "property.rooms"
)

type CreatePropertyCommand struct {
	Actor   actor.Actor
	Name    string
	Line1   string
	City    string
	Region  string
	Country string
	Postal  string
}

func (c CreatePropertyCommand) Key() string { return createPropertyKey }

func (c CreatePropertyCommand) Acting() actor.Actor { return c.Actor }

type CreatePropertyResult struct {
	PropertyID string `json:"property_id"`
}

type CreatePropertyHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*CreatePropertyResult, error) {
	unit, managed, commit, rollback, err := begin(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		defer rollback()
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
	}

	if !cmd.Actor.Known() || !(cmd.Actor.HasRole(domainuser.RoleOwner) || cmd.Actor.IsAdmin()) {
		return nil, domainauth.ErrUnauthorized
	}
	now := nowOr(h.Now)
	prop := &domainproperty.Property{
		ID:      domainproperty.PropertyID(uuid.NewString()),
		OwnerID: string(cmd.Actor.ID),
		Name:    cmd.Name,
		Address: domainproperty.Address{
			Line1:      cmd.Line1,
			City:       cmd.City,
			Region:     cmd.Region,
			Country:    cmd.Country,
			PostalCode: cmd.Postal,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, err
	}
	if managed {
		if err := commit(); err != nil {
			return nil, err
		}
	}
	return &CreatePropertyResult{PropertyID: string(prop.ID)}, nil
}

type AddRoomCommand struct {
	Actor        actor.Actor
	PropertyID   string
	Name         string
	PriceMinor   int64
	Currency     string
	MaxOccupancy int
	Beds         []dto.Bed
	Amenities    []string
}

func (c AddRoomCommand) Key() string { return addRoomKey }

func (c AddRoomCommand) Acting() actor.Actor { return c.Actor }

type AddRoomResult struct {
	RoomID string `json:"room_id"`
}

type AddRoomHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *AddRoomHandler) Handle(ctx context.Context, cmd AddRoomCommand) (*AddRoomResult, error) {
	unit, managed, commit, rollback, err := begin(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		defer rollback()
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if !cmd.Actor.May(prop.OwnerID) {
		return nil, domainauth.ErrUnauthorized
	}

	price, err := money.New(cmd.PriceMinor, cmd.Currency)
	if err != nil {
		return nil, err
	}
	room, err := domainproperty.NewRoom(
		domainproperty.RoomID(uuid.NewString()), prop.ID, cmd.Name,
		price, cmd.MaxOccupancy, nowOr(h.Now),
	)
	if err != nil {
		return nil, err
	}
	for _, b := range cmd.Beds {
		room.Beds = append(room.Beds, domainproperty.Bed{Kind: domainproperty.BedKind(b.Kind), Count: b.Count})
	}
	room.Amenities = append(room.Amenities, cmd.Amenities...)

	if err := unit.Rooms().Save(ctx, room); err != nil {
		return nil, err
	}
	if managed {
		if err := commit(); err != nil {
			return nil, err
		}
	}
	return &AddRoomResult{RoomID: string(room.ID)}, nil
}

type ListPropertiesQuery struct {
	Actor actor.Actor
}

func (q ListPropertiesQuery) Key() string { return listPropertiesKey }

func (q ListPropertiesQuery) Acting() actor.Actor { return q.Actor }

type ListPropertiesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListPropertiesHandler) Handle(ctx context.Context, q ListPropertiesQuery) ([]dto.Property, error) {
	unit, managed, _, rollback, err := begin(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		defer rollback()
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
	}
	items, err := unit.Properties().ByOwner(ctx, string(q.Actor.ID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.Property, 0, len(items))
	for _, p := range items {
		out = append(out, dto.MapProperty(p))
	}
	return out, nil
}

type ListRoomsQuery struct {
	PropertyID string
}

func (q ListRoomsQuery) Key() string { return listRoomsKey }

type ListRoomsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRoomsHandler) Handle(ctx context.Context, q ListRoomsQuery) ([]dto.Room, error) {
	unit, managed, _, rollback, err := begin(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if managed {
		defer rollback()
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
	}
	if _, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(q.PropertyID)); err != nil {
		return nil, err
	}
	rooms, err := unit.Rooms().ByProperty(ctx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, dto.MapRoom(r))
	}
	return out, nil
}

// begin resolves a context unit of work or starts a managed one,
// returning commit/rollback closures that are no-ops when the unit
// came from the context.
func begin(ctx context.Context, factory uow.UoWFactory) (unit uow.UnitOfWork, managed bool, commit func() error, rollback func(), err error) {
	if u, ok := uow.FromContext(ctx); ok {
		return u, false, func() error { return nil }, func() {}, nil
	}
	if factory == nil {
		return nil, false, nil, nil, uow.ErrUnitOfWorkMissing
	}
	u, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, false, nil, nil, err
	}
	committed := false
	commit = func() error {
		if err := u.Commit(ctx); err != nil {
			return err
		}
		committed = true
		return nil
	}
	rollback = func() {
		if !committed {
			_ = u.Rollback(ctx)
		}
	}
	return u, true, commit, rollback, nil
}

func nowOr(f func() time.Time) time.Time {
	if f != nil {
		return f().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreatePropertyCommand, *CreatePropertyResult] = (*CreatePropertyHandler)(nil)
var _ commands.Handler[AddRoomCommand, *AddRoomResult] = (*AddRoomHandler)(nil)
var _ queries.Handler[ListPropertiesQuery, []dto.Property] = (*ListPropertiesHandler)(nil)
var _ queries.Handler[ListRoomsQuery, []dto.Room] = (*ListRoomsHandler)(nil)
