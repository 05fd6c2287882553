package memory

import (
	"context"
	"errors"

	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainfinance "stayhub/internal/domain/finance"
	domainmaintenance "stayhub/internal/domain/maintenance"
	domainmessaging "stayhub/internal/domain/messaging"
	domainproperty "stayhub/internal/domain/property"
	domainuser "stayhub/internal/domain/user"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	PropertiesRepo  domainproperty.Repository
	RoomsRepo       domainproperty.RoomRepository
	OverridesRepo   domainavailability.OverrideRepository
	BookingsRepo    domainbooking.Repository
	MaintenanceRepo domainmaintenance.Repository
	MessagingRepo   domainmessaging.Repository
	LedgerRepo      domainfinance.Repository
	UsersRepo       domainuser.Repository
	SessionsStore   domainauth.SessionStore
}

// NewFactory builds a factory with a fresh set of empty stores.
func NewFactory() Factory {
	return Factory{
		PropertiesRepo:  NewPropertyRepository(),
		RoomsRepo:       NewRoomRepository(),
		OverridesRepo:   NewOverrideRepository(),
		BookingsRepo:    NewBookingRepository(),
		MaintenanceRepo: NewMaintenanceRepository(),
		MessagingRepo:   NewMessagingRepository(),
		LedgerRepo:      NewLedgerRepository(),
		UsersRepo:       NewUserRepository(),
		SessionsStore:   NewSessionStore(),
	}
}

// Begin starts a lightweight transaction boundary. No isolation is
// provided but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.PropertiesRepo == nil || f.RoomsRepo == nil || f.OverridesRepo == nil || f.BookingsRepo == nil ||
		f.MaintenanceRepo == nil || f.MessagingRepo == nil || f.LedgerRepo == nil ||
		f.UsersRepo == nil || f.SessionsStore == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{factory: f}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	factory  Factory
	deferred []func()
	settled  bool
}

func (u *Unit) Properties() domainproperty.Repository            { return u.factory.PropertiesRepo }
func (u *Unit) Rooms() domainproperty.RoomRepository             { return u.factory.RoomsRepo }
func (u *Unit) Overrides() domainavailability.OverrideRepository { return u.factory.OverridesRepo }
func (u *Unit) Bookings() domainbooking.Repository               { return u.factory.BookingsRepo }
func (u *Unit) Maintenance() domainmaintenance.Repository        { return u.factory.MaintenanceRepo }
func (u *Unit) Messaging() domainmessaging.Repository            { return u.factory.MessagingRepo }
func (u *Unit) Ledger() domainfinance.Repository                 { return u.factory.LedgerRepo }
func (u *Unit) Users() domainuser.Repository                     { return u.factory.UsersRepo }
func (u *Unit) Sessions() domainauth.SessionStore                { return u.factory.SessionsStore }

func (u *Unit) Commit(ctx context.Context) error {
	u.settle()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.settle()
	return nil
}

func (u *Unit) Defer(fn func()) {
	if fn != nil {
		u.deferred = append(u.deferred, fn)
	}
}

// settle runs deferred functions in reverse order, exactly once.
func (u *Unit) settle() {
	if u.settled {
		return
	}
	u.settled = true
	for i := len(u.deferred) - 1; i >= 0; i-- {
		u.deferred[i]()
	}
	u.deferred = nil
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
