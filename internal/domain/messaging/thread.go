package messaging

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/property"
)

var (
	ErrThreadNotFound = errors.New("messaging: thread not found")
	ErrEmptyBody      = errors.New("messaging: message body required")
	ErrNotParticipant = errors.New("messaging: sender is not a thread participant")
)

type ThreadID string

// Thread is the conversation between one guest and one property's
// owner. One thread exists per (property, guest) pair.
type Thread struct {
	ID         ThreadID
	PropertyID property.PropertyID
	OwnerID    string
	GuestID    string
	Messages   []Message
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Message struct {
	SenderID string
	Body     string
	SentAt   time.Time
	Read     bool
}

func NewThread(id ThreadID, propertyID property.PropertyID, ownerID, guestID string, now time.Time) *Thread {
	now = now.UTC()
	return &Thread{
		ID:         id,
		PropertyID: propertyID,
		OwnerID:    ownerID,
		GuestID:    guestID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (t *Thread) Post(senderID, body string, now time.Time) error {
	if body == "" {
		return ErrEmptyBody
	}
	if senderID != t.OwnerID && senderID != t.GuestID {
		return ErrNotParticipant
	}
	t.Messages = append(t.Messages, Message{SenderID: senderID, Body: body, SentAt: now.UTC()})
	t.UpdatedAt = now.UTC()
	return nil
}

// MarkRead flags every message not sent by the reader as read.
func (t *Thread) MarkRead(readerID string) {
	for i := range t.Messages {
		if t.Messages[i].SenderID != readerID {
			t.Messages[i].Read = true
		}
	}
}

// UnreadCount counts messages addressed to the reader still unread.
func (t *Thread) UnreadCount(readerID string) int {
	n := 0
	for _, m := range t.Messages {
		if m.SenderID != readerID && !m.Read {
			n++
		}
	}
	return n
}

type Repository interface {
	ByID(ctx context.Context, id ThreadID) (*Thread, error)
	ByParticipants(ctx context.Context, propertyID property.PropertyID, guestID string) (*Thread, error)
	ListForUser(ctx context.Context, userID string) ([]*Thread, error)
	Save(ctx context.Context, t *Thread) error
}
