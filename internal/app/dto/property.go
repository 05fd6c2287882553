package dto

import (
	"stayhub/internal/domain/finance"
	"stayhub/internal/domain/maintenance"
	"stayhub/internal/domain/messaging"
	"stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/money"
)

type Property struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func MapProperty(p *property.Property) Property {
	return Property{
		ID:      string(p.ID),
		OwnerID: p.OwnerID,
		Name:    p.Name,
		City:    p.Address.City,
		Country: p.Address.Country,
	}
}

type Bed struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

type Room struct {
	ID           string      `json:"id"`
	PropertyID   string      `json:"property_id"`
	Name         string      `json:"name"`
	DefaultPrice money.Money `json:"default_price"`
	MaxOccupancy int         `json:"max_occupancy"`
	Beds         []Bed       `json:"beds"`
	Amenities    []string    `json:"amenities"`
	PhotoURLs    []string    `json:"photo_urls"`
}

func MapRoom(r *property.Room) Room {
	beds := make([]Bed, 0, len(r.Beds))
	for _, b := range r.Beds {
		beds = append(beds, Bed{Kind: string(b.Kind), Count: b.Count})
	}
	return Room{
		ID:           string(r.ID),
		PropertyID:   string(r.PropertyID),
		Name:         r.Name,
		DefaultPrice: r.DefaultPrice,
		MaxOccupancy: r.MaxOccupancy,
		Beds:         beds,
		Amenities:    r.Amenities,
		PhotoURLs:    r.PhotoURLs,
	}
}

type Task struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	RoomID     string `json:"room_id"`
	Title      string `json:"title"`
	Due        string `json:"due"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
}

func MapTask(t *maintenance.Task) Task {
	return Task{
		ID:         string(t.ID),
		PropertyID: string(t.PropertyID),
		RoomID:     string(t.RoomID),
		Title:      t.Title,
		Due:        t.Due.String(),
		Priority:   string(t.Priority),
		Status:     string(t.Status),
	}
}

type Message struct {
	SenderID string `json:"sender_id"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
	Read     bool   `json:"read"`
}

type Thread struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	OwnerID    string    `json:"owner_id"`
	GuestID    string    `json:"guest_id"`
	Messages   []Message `json:"messages"`
	Unread     int       `json:"unread"`
}

func MapThread(t *messaging.Thread, readerID string) Thread {
	msgs := make([]Message, 0, len(t.Messages))
	for _, m := range t.Messages {
		msgs = append(msgs, Message{
			SenderID: m.SenderID,
			Body:     m.Body,
			SentAt:   m.SentAt.Format("2006-01-02T15:04:05Z07:00"),
			Read:     m.Read,
		})
	}
	return Thread{
		ID:         string(t.ID),
		PropertyID: string(t.PropertyID),
		OwnerID:    t.OwnerID,
		GuestID:    t.GuestID,
		Messages:   msgs,
		Unread:     t.UnreadCount(readerID),
	}
}

type LedgerEntry struct {
	ID         string      `json:"id"`
	BookingID  string      `json:"booking_id"`
	Kind       string      `json:"kind"`
	Amount     money.Money `json:"amount"`
	Memo       string      `json:"memo,omitempty"`
	OccurredAt string      `json:"occurred_at"`
}

type LedgerSummary struct {
	PropertyID string           `json:"property_id"`
	Entries    []LedgerEntry    `json:"entries"`
	Totals     map[string]int64 `json:"totals"`
}

func MapLedger(propertyID string, entries []*finance.LedgerEntry) LedgerSummary {
	out := LedgerSummary{PropertyID: propertyID, Entries: make([]LedgerEntry, 0, len(entries)), Totals: finance.Totals(entries)}
	for _, e := range entries {
		out.Entries = append(out.Entries, LedgerEntry{
			ID:         string(e.ID),
			BookingID:  string(e.BookingID),
			Kind:       string(e.Kind),
			Amount:     e.Amount,
			Memo:       e.Memo,
			OccurredAt: e.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}
