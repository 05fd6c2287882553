package memory

import (
	"context"
	"sync"

	"stayhub/internal/app/policies"
	domainproperty "stayhub/internal/domain/property"
)

// RoomLocks is a keyed-mutex room locker. Lock acquisition respects
// context cancellation so a stuck holder cannot wedge callers forever.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[domainproperty.RoomID]chan struct{}
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{locks: make(map[domainproperty.RoomID]chan struct{})}
}

func (l *RoomLocks) Lock(ctx context.Context, roomID domainproperty.RoomID) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[roomID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[roomID] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var _ policies.RoomLocker = (*RoomLocks)(nil)
