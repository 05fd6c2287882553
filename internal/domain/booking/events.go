package booking

import (
	"time"

	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID BookingID
	RoomID    property.RoomID
	GuestID   string
	Range     daterange.DateRange
	Guests    int
	Total     money.Money
	At        time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID
	RoomID    property.RoomID
	Range     daterange.DateRange
	Total     money.Money
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID
	RoomID    property.RoomID
	Range     daterange.DateRange
	Reason    string
	At        time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingRescheduled struct {
	BookingID BookingID
	RoomID    property.RoomID
	OldRange  daterange.DateRange
	NewRange  daterange.DateRange
	Total     money.Money
	At        time.Time
}

func (e BookingRescheduled) EventName() string     { return "booking.rescheduled" }
func (e BookingRescheduled) AggregateID() string   { return string(e.BookingID) }
func (e BookingRescheduled) OccurredAt() time.Time { return e.At }

type DoubleBookingPrevented struct {
	RoomID property.RoomID
	Range  daterange.DateRange
	At     time.Time
}

func (e DoubleBookingPrevented) EventName() string     { return "booking.double_booking_prevented" }
func (e DoubleBookingPrevented) AggregateID() string   { return string(e.RoomID) }
func (e DoubleBookingPrevented) OccurredAt() time.Time { return e.At }
