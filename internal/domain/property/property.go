package property

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/shared/money"
)

var (
	ErrPropertyNotFound = errors.New("property: not found")
	ErrRoomNotFound     = errors.New("property: room not found")
	ErrInvalidPrice     = errors.New("property: nightly price must be positive")
	ErrInvalidOccupancy = errors.New("property: max occupancy must be positive")
	ErrPhotoURLRequired = errors.New("property: photo url required")
)

type PropertyID string

type RoomID string

type Property struct {
	ID        PropertyID
	OwnerID   string
	Name      string
	Address   Address
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

type Address struct {
	Line1      string
	City       string
	Region     string
	Country    string
	PostalCode string
}

// Bed is one sleeping place entry in a room's configuration.
type Bed struct {
	Kind  BedKind
	Count int
}

type BedKind string

const (
	BedSingle BedKind = "SINGLE"
	BedDouble BedKind = "DOUBLE"
	BedQueen  BedKind = "QUEEN"
	BedKing   BedKind = "KING"
	BedSofa   BedKind = "SOFA"
)

// Room belongs to exactly one property and carries the default
// nightly price used wherever no per-date override applies.
type Room struct {
	ID           RoomID
	PropertyID   PropertyID
	Name         string
	DefaultPrice money.Money
	MaxOccupancy int
	Beds         []Bed
	Amenities    []string
	PhotoURLs    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
}

func NewRoom(id RoomID, propertyID PropertyID, name string, defaultPrice money.Money, maxOccupancy int, now time.Time) (*Room, error) {
	if defaultPrice.Amount <= 0 || defaultPrice.Currency == "" {
		return nil, ErrInvalidPrice
	}
	if maxOccupancy <= 0 {
		return nil, ErrInvalidOccupancy
	}
	now = now.UTC()
	return &Room{
		ID:           id,
		PropertyID:   propertyID,
		Name:         name,
		DefaultPrice: defaultPrice,
		MaxOccupancy: maxOccupancy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// FitsGuests reports whether the room can host the party size.
func (r *Room) FitsGuests(guests int) bool {
	return guests > 0 && guests <= r.MaxOccupancy
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	ByOwner(ctx context.Context, ownerID string) ([]*Property, error)
	Save(ctx context.Context, p *Property) error
}

type RoomRepository interface {
	// Room resolves a room scoped by its parent property. A room id
	// that exists under a different property is ErrRoomNotFound.
	Room(ctx context.Context, propertyID PropertyID, roomID RoomID) (*Room, error)
	ByProperty(ctx context.Context, propertyID PropertyID) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
}
