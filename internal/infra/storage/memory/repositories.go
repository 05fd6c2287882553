package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainfinance "stayhub/internal/domain/finance"
	domainmaintenance "stayhub/internal/domain/maintenance"
	domainmessaging "stayhub/internal/domain/messaging"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
)

// PropertyRepository is an in-memory property store.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.PropertyID]*domainproperty.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperty.PropertyID]*domainproperty.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainproperty.ErrPropertyNotFound
	}
	return cloneProperty(p), nil
}

func (r *PropertyRepository) ByOwner(ctx context.Context, ownerID string) ([]*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainproperty.Property, 0)
	for _, p := range r.items {
		if p.OwnerID == ownerID {
			matches = append(matches, cloneProperty(p))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return matches, nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Version++
	r.items[p.ID] = cloneProperty(p)
	return nil
}

func cloneProperty(p *domainproperty.Property) *domainproperty.Property {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// RoomRepository keeps rooms keyed by id but always resolves them
// through the parent property, so a mismatched pair reads as absent.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.RoomID]*domainproperty.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainproperty.RoomID]*domainproperty.Room)}
}

func (r *RoomRepository) Room(ctx context.Context, propertyID domainproperty.PropertyID, roomID domainproperty.RoomID) (*domainproperty.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[roomID]
	if !ok || room.PropertyID != propertyID {
		return nil, domainproperty.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (r *RoomRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainproperty.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainproperty.Room, 0)
	for _, room := range r.items {
		if room.PropertyID == propertyID {
			matches = append(matches, cloneRoom(room))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (r *RoomRepository) Save(ctx context.Context, room *domainproperty.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room.Version++
	r.items[room.ID] = cloneRoom(room)
	return nil
}

func cloneRoom(room *domainproperty.Room) *domainproperty.Room {
	if room == nil {
		return nil
	}
	out := *room
	out.Beds = append([]domainproperty.Bed(nil), room.Beds...)
	out.Amenities = append([]string(nil), room.Amenities...)
	out.PhotoURLs = append([]string(nil), room.PhotoURLs...)
	return &out
}

// OverrideRepository stores per-date overrides keyed by (room, date).
type OverrideRepository struct {
	mu    sync.RWMutex
	items map[overrideKey]domainavailability.Override
}

type overrideKey struct {
	room domainproperty.RoomID
	date civil.Date
}

func NewOverrideRepository() *OverrideRepository {
	return &OverrideRepository{items: make(map[overrideKey]domainavailability.Override)}
}

func (r *OverrideRepository) InRange(ctx context.Context, roomID domainproperty.RoomID, from, to civil.Date) ([]domainavailability.Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]domainavailability.Override, 0)
	for key, o := range r.items {
		if key.room != roomID {
			continue
		}
		if key.date.Before(from) || key.date.After(to) {
			continue
		}
		matches = append(matches, cloneOverride(o))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.Before(matches[j].Date) })
	return matches, nil
}

func (r *OverrideRepository) Upsert(ctx context.Context, o domainavailability.Override) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[overrideKey{room: o.RoomID, date: o.Date}] = cloneOverride(o)
	return nil
}

func (r *OverrideRepository) Delete(ctx context.Context, roomID domainproperty.RoomID, date civil.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, overrideKey{room: roomID, date: date})
	return nil
}

func cloneOverride(o domainavailability.Override) domainavailability.Override {
	if o.Price != nil {
		price := *o.Price
		o.Price = &price
	}
	return o
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// ActiveOverlapping scans the room's non-cancelled bookings and keeps
// those whose half-open ranges intersect the given one.
func (r *BookingRepository) ActiveOverlapping(ctx context.Context, roomID domainproperty.RoomID, rng daterange.DateRange) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.RoomID != roomID || !b.Active() {
			continue
		}
		if b.Range.Overlaps(rng) {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Range.CheckIn.Before(matches[j].Range.CheckIn) })
	return matches, nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(guestID)
	if id == "" {
		return nil, domainbooking.ErrGuestRequired
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.GuestID == id {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	return matches, nil
}

func (r *BookingRepository) ListByRoom(ctx context.Context, roomID domainproperty.RoomID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.RoomID == roomID {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Range.CheckIn.Before(matches[j].Range.CheckIn) })
	return matches, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[b.ID]; ok && existing.Version != b.Version {
		return domainbooking.ErrVersionConflict
	}
	b.Version++
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	out := *b
	out.Price = b.Price.Copy()
	out.EventRecorder = b.EventRecorder
	return &out
}

// MaintenanceRepository stores maintenance tasks in memory.
type MaintenanceRepository struct {
	mu    sync.RWMutex
	items map[domainmaintenance.TaskID]*domainmaintenance.Task
}

func NewMaintenanceRepository() *MaintenanceRepository {
	return &MaintenanceRepository{items: make(map[domainmaintenance.TaskID]*domainmaintenance.Task)}
}

func (r *MaintenanceRepository) ByID(ctx context.Context, id domainmaintenance.TaskID) (*domainmaintenance.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok {
		return nil, domainmaintenance.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (r *MaintenanceRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainmaintenance.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainmaintenance.Task, 0)
	for _, t := range r.items {
		if t.PropertyID == propertyID {
			out := *t
			matches = append(matches, &out)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return matches, nil
}

func (r *MaintenanceRepository) Save(ctx context.Context, task *domainmaintenance.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *task
	r.items[task.ID] = &out
	return nil
}

// MessagingRepository stores conversation threads in memory.
type MessagingRepository struct {
	mu    sync.RWMutex
	items map[domainmessaging.ThreadID]*domainmessaging.Thread
}

func NewMessagingRepository() *MessagingRepository {
	return &MessagingRepository{items: make(map[domainmessaging.ThreadID]*domainmessaging.Thread)}
}

func (r *MessagingRepository) ByID(ctx context.Context, id domainmessaging.ThreadID) (*domainmessaging.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok {
		return nil, domainmessaging.ErrThreadNotFound
	}
	return cloneThread(t), nil
}

func (r *MessagingRepository) ByParticipants(ctx context.Context, propertyID domainproperty.PropertyID, guestID string) (*domainmessaging.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.items {
		if t.PropertyID == propertyID && t.GuestID == guestID {
			return cloneThread(t), nil
		}
	}
	return nil, domainmessaging.ErrThreadNotFound
}

func (r *MessagingRepository) ListForUser(ctx context.Context, userID string) ([]*domainmessaging.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainmessaging.Thread, 0)
	for _, t := range r.items {
		if t.GuestID == userID || t.OwnerID == userID {
			matches = append(matches, cloneThread(t))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].UpdatedAt.After(matches[j].UpdatedAt) })
	return matches, nil
}

func (r *MessagingRepository) Save(ctx context.Context, t *domainmessaging.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.ID] = cloneThread(t)
	return nil
}

func cloneThread(t *domainmessaging.Thread) *domainmessaging.Thread {
	if t == nil {
		return nil
	}
	out := *t
	out.Messages = append([]domainmessaging.Message(nil), t.Messages...)
	return &out
}

// LedgerRepository is an append-only in-memory ledger.
type LedgerRepository struct {
	mu      sync.RWMutex
	entries []*domainfinance.LedgerEntry
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainfinance.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainfinance.LedgerEntry, 0)
	for _, e := range r.entries {
		if e.PropertyID == propertyID {
			out := *e
			matches = append(matches, &out)
		}
	}
	return matches, nil
}

func (r *LedgerRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) ([]*domainfinance.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainfinance.LedgerEntry, 0)
	for _, e := range r.entries {
		if e.BookingID == bookingID {
			out := *e
			matches = append(matches, &out)
		}
	}
	return matches, nil
}

func (r *LedgerRepository) Append(ctx context.Context, entry *domainfinance.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := *entry
	r.entries = append(r.entries, &out)
	return nil
}

var (
	_ domainproperty.Repository        = (*PropertyRepository)(nil)
	_ domainproperty.RoomRepository    = (*RoomRepository)(nil)
	_ domainavailability.OverrideRepository = (*OverrideRepository)(nil)
	_ domainbooking.Repository         = (*BookingRepository)(nil)
	_ domainmaintenance.Repository     = (*MaintenanceRepository)(nil)
	_ domainmessaging.Repository       = (*MessagingRepository)(nil)
	_ domainfinance.Repository         = (*LedgerRepository)(nil)
)
