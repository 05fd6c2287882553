package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayhub/internal/domain/booking"
	domainfinance "stayhub/internal/domain/finance"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/money"
)

// LedgerRepository is append-only; entries are inserted and never
// updated or removed.
type LedgerRepository struct {
	col *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{col: db.Collection("ledger_entry")}
}

func (r *LedgerRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainfinance.LedgerEntry, error) {
	return r.find(ctx, bson.M{"property_id": string(propertyID)})
}

func (r *LedgerRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) ([]*domainfinance.LedgerEntry, error) {
	return r.find(ctx, bson.M{"booking_id": string(bookingID)})
}

func (r *LedgerRepository) find(ctx context.Context, filter bson.M) ([]*domainfinance.LedgerEntry, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.M{"occurred_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainfinance.LedgerEntry
	for cursor.Next(ctx) {
		var doc ledgerDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntry())
	}
	return out, cursor.Err()
}

func (r *LedgerRepository) Append(ctx context.Context, entry *domainfinance.LedgerEntry) error {
	_, err := r.col.InsertOne(ctx, newLedgerDocument(entry))
	return err
}

type ledgerDocument struct {
	ID         string   `bson:"_id"`
	BookingID  string   `bson:"booking_id"`
	PropertyID string   `bson:"property_id"`
	Kind       string   `bson:"kind"`
	Amount     moneyDoc `bson:"amount"`
	Memo       string   `bson:"memo,omitempty"`
	OccurredAt int64    `bson:"occurred_at"`
}

func newLedgerDocument(e *domainfinance.LedgerEntry) ledgerDocument {
	return ledgerDocument{
		ID:         string(e.ID),
		BookingID:  string(e.BookingID),
		PropertyID: string(e.PropertyID),
		Kind:       string(e.Kind),
		Amount:     moneyDoc{Amount: e.Amount.Amount, Currency: e.Amount.Currency},
		Memo:       e.Memo,
		OccurredAt: e.OccurredAt.UnixMilli(),
	}
}

func (d ledgerDocument) toEntry() *domainfinance.LedgerEntry {
	return &domainfinance.LedgerEntry{
		ID:         domainfinance.EntryID(d.ID),
		BookingID:  domainbooking.BookingID(d.BookingID),
		PropertyID: domainproperty.PropertyID(d.PropertyID),
		Kind:       domainfinance.EntryKind(d.Kind),
		Amount:     money.Money{Amount: d.Amount.Amount, Currency: d.Amount.Currency},
		Memo:       d.Memo,
		OccurredAt: timestampToTime(d.OccurredAt),
	}
}

var _ domainfinance.Repository = (*LedgerRepository)(nil)
