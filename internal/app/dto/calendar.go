package dto

import (
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/shared/money"
)

type CalendarDay struct {
	Date       string      `json:"date"`
	Status     string      `json:"status"`
	Price      money.Money `json:"price"`
	Reason     string      `json:"reason"`
	Notes      string      `json:"notes,omitempty"`
	BookingRef string      `json:"booking_ref,omitempty"`
}

type Calendar struct {
	PropertyID string        `json:"property_id"`
	RoomID     string        `json:"room_id"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Days       []CalendarDay `json:"days"`
}

func MapCalendar(propertyID, roomID string, entries []availability.DayEntry) Calendar {
	cal := Calendar{PropertyID: propertyID, RoomID: roomID, Days: make([]CalendarDay, 0, len(entries))}
	if len(entries) > 0 {
		cal.From = entries[0].Date.String()
		cal.To = entries[len(entries)-1].Date.String()
	}
	for _, e := range entries {
		cal.Days = append(cal.Days, CalendarDay{
			Date:       e.Date.String(),
			Status:     string(e.Status),
			Price:      e.Price,
			Reason:     e.Reason,
			Notes:      e.Notes,
			BookingRef: e.BookingRef,
		})
	}
	return cal
}
