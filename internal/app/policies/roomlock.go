package policies

import (
	"context"

	"stayhub/internal/domain/property"
)

// RoomLocker serializes the validate-then-persist window of booking
// creation per room. Two concurrent creates for overlapping dates on
// the same room must not both pass the overlap check, so the check
// and the insert run under the room's lock.
type RoomLocker interface {
	// Lock blocks until the room lock is held or ctx is done. The
	// returned function releases the lock and must always be called.
	Lock(ctx context.Context, roomID property.RoomID) (func(), error)
}
