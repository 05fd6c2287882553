package uow

import (
	"context"

	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainfinance "stayhub/internal/domain/finance"
	domainmaintenance "stayhub/internal/domain/maintenance"
	domainmessaging "stayhub/internal/domain/messaging"
	domainproperty "stayhub/internal/domain/property"
	domainuser "stayhub/internal/domain/user"
)

// UnitOfWork coordinates repositories inside one transaction boundary.
type UnitOfWork interface {
	Properties() domainproperty.Repository
	Rooms() domainproperty.RoomRepository
	Overrides() domainavailability.OverrideRepository
	Bookings() domainbooking.Repository
	Maintenance() domainmaintenance.Repository
	Messaging() domainmessaging.Repository
	Ledger() domainfinance.Repository
	Users() domainuser.Repository
	Sessions() domainauth.SessionStore

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Defer schedules fn to run once the unit settles, after Commit
	// or Rollback, whichever comes first. Handlers use it to keep a
	// lock held across a commit they do not perform themselves.
	Defer(fn func())
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
