package dto

import (
	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/money"
)

type NightLine struct {
	Date       string      `json:"date"`
	Price      money.Money `json:"price"`
	Overridden bool        `json:"overridden"`
}

type Quote struct {
	Nights int         `json:"nights"`
	Lines  []NightLine `json:"lines"`
	Total  money.Money `json:"total"`
}

func MapQuote(b pricing.PriceBreakdown) Quote {
	q := Quote{Nights: b.Nights, Total: b.Total, Lines: make([]NightLine, 0, len(b.Lines))}
	for _, line := range b.Lines {
		q.Lines = append(q.Lines, NightLine{Date: line.Date.String(), Price: line.Price, Overridden: line.Overridden})
	}
	return q
}

type Booking struct {
	ID              string      `json:"id"`
	PropertyID      string      `json:"property_id"`
	RoomID          string      `json:"room_id"`
	GuestID         string      `json:"guest_id"`
	CheckIn         string      `json:"check_in"`
	CheckOut        string      `json:"check_out"`
	Guests          int         `json:"guests"`
	Status          string      `json:"status"`
	Reference       string      `json:"reference"`
	SpecialRequests string      `json:"special_requests,omitempty"`
	Total           money.Money `json:"total"`
	Price           Quote       `json:"price"`
}

func MapBooking(b *booking.Booking) Booking {
	return Booking{
		ID:              string(b.ID),
		PropertyID:      string(b.PropertyID),
		RoomID:          string(b.RoomID),
		GuestID:         b.GuestID,
		CheckIn:         b.Range.CheckIn.String(),
		CheckOut:        b.Range.CheckOut.String(),
		Guests:          b.Guests,
		Status:          string(b.Status),
		Reference:       b.Reference,
		SpecialRequests: b.SpecialRequests,
		Total:           b.Price.Total,
		Price:           MapQuote(b.Price),
	}
}

func MapBookings(items []*booking.Booking) []Booking {
	out := make([]Booking, 0, len(items))
	for _, b := range items {
		out = append(out, MapBooking(b))
	}
	return out
}
