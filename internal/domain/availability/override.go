package availability

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/money"
)

var (
	ErrUnknownStatus = errors.New("availability: unknown day status")
)

// DayStatus is the availability state of a single calendar date.
type DayStatus string

const (
	StatusAvailable   DayStatus = "AVAILABLE"
	StatusOccupied    DayStatus = "OCCUPIED"
	StatusMaintenance DayStatus = "MAINTENANCE"
	StatusBlocked     DayStatus = "BLOCKED"
)

func ParseStatus(s string) (DayStatus, error) {
	switch DayStatus(s) {
	case StatusAvailable, StatusOccupied, StatusMaintenance, StatusBlocked:
		return DayStatus(s), nil
	}
	return "", ErrUnknownStatus
}

// Override is an owner-set per-date record. At most one exists per
// (room, date); a later write replaces the earlier one.
type Override struct {
	RoomID    property.RoomID
	Date      civil.Date
	Status    DayStatus
	Price     *money.Money // nil means the room default applies
	Notes     string
	UpdatedAt time.Time
}

type OverrideRepository interface {
	// InRange returns overrides for dates in [from, to], ordered by date.
	InRange(ctx context.Context, roomID property.RoomID, from, to civil.Date) ([]Override, error)
	// Upsert replaces any existing override for the same (room, date).
	Upsert(ctx context.Context, o Override) error
	Delete(ctx context.Context, roomID property.RoomID, date civil.Date) error
}
