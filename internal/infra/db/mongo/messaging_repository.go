package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmessaging "stayhub/internal/domain/messaging"
	domainproperty "stayhub/internal/domain/property"
)

// MessagingRepository stores each thread as one document with its
// messages embedded. Threads stay small enough that whole-document
// reads and writes are cheaper than a separate message collection.
type MessagingRepository struct {
	col *mongo.Collection
}

func NewMessagingRepository(db *mongo.Database) *MessagingRepository {
	return &MessagingRepository{col: db.Collection("chat_thread")}
}

func (r *MessagingRepository) ByID(ctx context.Context, id domainmessaging.ThreadID) (*domainmessaging.Thread, error) {
	var doc threadDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmessaging.ErrThreadNotFound
		}
		return nil, err
	}
	return doc.toThread(), nil
}

func (r *MessagingRepository) ByParticipants(ctx context.Context, propertyID domainproperty.PropertyID, guestID string) (*domainmessaging.Thread, error) {
	filter := bson.M{"property_id": string(propertyID), "guest_id": guestID}
	var doc threadDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmessaging.ErrThreadNotFound
		}
		return nil, err
	}
	return doc.toThread(), nil
}

func (r *MessagingRepository) ListForUser(ctx context.Context, userID string) ([]*domainmessaging.Thread, error) {
	filter := bson.M{"$or": bson.A{bson.M{"guest_id": userID}, bson.M{"owner_id": userID}}}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.M{"updated_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainmessaging.Thread
	for cursor.Next(ctx) {
		var doc threadDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toThread())
	}
	return out, cursor.Err()
}

func (r *MessagingRepository) Save(ctx context.Context, t *domainmessaging.Thread) error {
	doc := newThreadDocument(t)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type threadDocument struct {
	ID         string       `bson:"_id"`
	PropertyID string       `bson:"property_id"`
	OwnerID    string       `bson:"owner_id"`
	GuestID    string       `bson:"guest_id"`
	Messages   []messageDoc `bson:"messages,omitempty"`
	CreatedAt  int64        `bson:"created_at"`
	UpdatedAt  int64        `bson:"updated_at"`
}

type messageDoc struct {
	SenderID string `bson:"sender_id"`
	Body     string `bson:"body"`
	SentAt   int64  `bson:"sent_at"`
	Read     bool   `bson:"read"`
}

func newThreadDocument(t *domainmessaging.Thread) threadDocument {
	doc := threadDocument{
		ID:         string(t.ID),
		PropertyID: string(t.PropertyID),
		OwnerID:    t.OwnerID,
		GuestID:    t.GuestID,
		CreatedAt:  t.CreatedAt.UnixMilli(),
		UpdatedAt:  t.UpdatedAt.UnixMilli(),
	}
	for _, m := range t.Messages {
		doc.Messages = append(doc.Messages, messageDoc{
			SenderID: m.SenderID,
			Body:     m.Body,
			SentAt:   m.SentAt.UnixMilli(),
			Read:     m.Read,
		})
	}
	return doc
}

func (d threadDocument) toThread() *domainmessaging.Thread {
	t := &domainmessaging.Thread{
		ID:         domainmessaging.ThreadID(d.ID),
		PropertyID: domainproperty.PropertyID(d.PropertyID),
		OwnerID:    d.OwnerID,
		GuestID:    d.GuestID,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
	for _, m := range d.Messages {
		t.Messages = append(t.Messages, domainmessaging.Message{
			SenderID: m.SenderID,
			Body:     m.Body,
			SentAt:   timestampToTime(m.SentAt),
			Read:     m.Read,
		})
	}
	return t
}

var _ domainmessaging.Repository = (*MessagingRepository)(nil)
