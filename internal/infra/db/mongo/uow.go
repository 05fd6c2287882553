package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

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

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

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

// NewFactory builds a factory with repositories bound to the database.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:              db,
		PropertiesRepo:  NewPropertyRepository(db),
		RoomsRepo:       NewRoomRepository(db),
		OverridesRepo:   NewOverrideRepository(db),
		BookingsRepo:    NewBookingRepository(db),
		MaintenanceRepo: NewMaintenanceRepository(db),
		MessagingRepo:   NewMessagingRepository(db),
		LedgerRepo:      NewLedgerRepository(db),
		UsersRepo:       NewUserRepository(db),
		SessionsStore:   NewSessionStore(db),
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{factory: f, session: session}, nil
}

type Unit struct {
	factory  Factory
	session  mongo.Session
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
	defer u.settle()
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.settle()
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

func (u *Unit) Defer(fn func()) {
	if fn != nil {
		u.deferred = append(u.deferred, fn)
	}
}

// settle runs deferred functions in reverse order, exactly once,
// after the session has ended.
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

// InjectContext makes the Mongo session visible to downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
