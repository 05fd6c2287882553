package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "stayhub/internal/domain/availability"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/money"
)

// OverrideRepository keys documents by room and ISO date, one per
// (room, date). Dates are stored as strings so lexical $gte/$lte
// range filters match chronological order.
type OverrideRepository struct {
	col *mongo.Collection
}

func NewOverrideRepository(db *mongo.Database) *OverrideRepository {
	return &OverrideRepository{col: db.Collection("calendar_override")}
}

func (r *OverrideRepository) InRange(ctx context.Context, roomID domainproperty.RoomID, from, to civil.Date) ([]domainavailability.Override, error) {
	filter := bson.M{
		"room_id": string(roomID),
		"date":    bson.M{"$gte": from.String(), "$lte": to.String()},
	}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []domainavailability.Override
	for cursor.Next(ctx) {
		var doc overrideDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		o, err := doc.toOverride()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, cursor.Err()
}

func (r *OverrideRepository) Upsert(ctx context.Context, o domainavailability.Override) error {
	doc := newOverrideDocument(o)
	filter := bson.M{"_id": doc.ID}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *OverrideRepository) Delete(ctx context.Context, roomID domainproperty.RoomID, date civil.Date) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": overrideID(roomID, date)})
	return err
}

type overrideDocument struct {
	ID         string    `bson:"_id"`
	RoomID     string    `bson:"room_id"`
	Date       string    `bson:"date"`
	Status     string    `bson:"status"`
	PriceMinor *int64    `bson:"price_minor,omitempty"`
	Currency   string    `bson:"currency,omitempty"`
	Notes      string    `bson:"notes,omitempty"`
	UpdatedAt  int64     `bson:"updated_at"`
}

func overrideID(roomID domainproperty.RoomID, date civil.Date) string {
	return string(roomID) + ":" + date.String()
}

func newOverrideDocument(o domainavailability.Override) overrideDocument {
	doc := overrideDocument{
		ID:        overrideID(o.RoomID, o.Date),
		RoomID:    string(o.RoomID),
		Date:      o.Date.String(),
		Status:    string(o.Status),
		Notes:     o.Notes,
		UpdatedAt: o.UpdatedAt.UnixMilli(),
	}
	if o.Price != nil {
		amount := o.Price.Amount
		doc.PriceMinor = &amount
		doc.Currency = o.Price.Currency
	}
	return doc
}

func (d overrideDocument) toOverride() (domainavailability.Override, error) {
	date, err := civil.ParseDate(d.Date)
	if err != nil {
		return domainavailability.Override{}, err
	}
	o := domainavailability.Override{
		RoomID:    domainproperty.RoomID(d.RoomID),
		Date:      date,
		Status:    domainavailability.DayStatus(d.Status),
		Notes:     d.Notes,
		UpdatedAt: time.UnixMilli(d.UpdatedAt).UTC(),
	}
	if d.PriceMinor != nil {
		o.Price = &money.Money{Amount: *d.PriceMinor, Currency: d.Currency}
	}
	return o, nil
}

var _ domainavailability.OverrideRepository = (*OverrideRepository)(nil)
