package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/civil"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

// ActiveOverlapping relies on stays being stored as sortable date
// strings: two half-open ranges intersect when each starts before the
// other ends.
func (r *BookingRepository) ActiveOverlapping(ctx context.Context, roomID domainproperty.RoomID, rng daterange.DateRange) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"room_id":   string(roomID),
		"status":    bson.M{"$ne": string(domainbooking.StatusCancelled)},
		"check_in":  bson.M{"$lt": rng.CheckOut.String()},
		"check_out": bson.M{"$gt": rng.CheckIn.String()},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"check_in": 1}))
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"guest_id": guestID}, options.Find().SetSort(bson.M{"created_at": -1}))
}

func (r *BookingRepository) ListByRoom(ctx context.Context, roomID domainproperty.RoomID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"room_id": string(roomID)}, options.Find().SetSort(bson.M{"check_in": 1}))
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, cursor.Err()
}

// Save performs a versioned upsert so two transactions cannot both
// persist from the same snapshot.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrVersionConflict
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrVersionConflict
	}
	b.Version = doc.Version
	return nil
}

type bookingDocument struct {
	ID              string        `bson:"_id"`
	RoomID          string        `bson:"room_id"`
	PropertyID      string        `bson:"property_id"`
	GuestID         string        `bson:"guest_id"`
	CheckIn         string        `bson:"check_in"`
	CheckOut        string        `bson:"check_out"`
	Guests          int           `bson:"guests"`
	Price           breakdownDoc  `bson:"price"`
	Status          string        `bson:"status"`
	Reference       string        `bson:"reference"`
	SpecialRequests string        `bson:"special_requests,omitempty"`
	CreatedAt       int64         `bson:"created_at"`
	UpdatedAt       int64         `bson:"updated_at"`
	Version         int64         `bson:"version"`
}

type breakdownDoc struct {
	Nights int            `bson:"nights"`
	Lines  []nightLineDoc `bson:"lines"`
	Total  moneyDoc       `bson:"total"`
}

type nightLineDoc struct {
	Date       string   `bson:"date"`
	Price      moneyDoc `bson:"price"`
	Overridden bool     `bson:"overridden"`
}

type moneyDoc struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:              string(b.ID),
		RoomID:          string(b.RoomID),
		PropertyID:      string(b.PropertyID),
		GuestID:         b.GuestID,
		CheckIn:         b.Range.CheckIn.String(),
		CheckOut:        b.Range.CheckOut.String(),
		Guests:          b.Guests,
		Price:           newBreakdownDoc(b.Price),
		Status:          string(b.Status),
		Reference:       b.Reference,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.UnixMilli(),
		UpdatedAt:       b.UpdatedAt.UnixMilli(),
		Version:         b.Version,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	checkIn, err := civil.ParseDate(d.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := civil.ParseDate(d.CheckOut)
	if err != nil {
		return nil, err
	}
	price, err := d.Price.toBreakdown()
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:              domainbooking.BookingID(d.ID),
		RoomID:          domainproperty.RoomID(d.RoomID),
		PropertyID:      domainproperty.PropertyID(d.PropertyID),
		GuestID:         d.GuestID,
		Range:           daterange.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		Guests:          d.Guests,
		Price:           price,
		Status:          domainbooking.Status(d.Status),
		Reference:       d.Reference,
		SpecialRequests: d.SpecialRequests,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
		Version:         d.Version,
	}, nil
}

func newBreakdownDoc(p domainpricing.PriceBreakdown) breakdownDoc {
	doc := breakdownDoc{
		Nights: p.Nights,
		Total:  moneyDoc{Amount: p.Total.Amount, Currency: p.Total.Currency},
	}
	for _, line := range p.Lines {
		doc.Lines = append(doc.Lines, nightLineDoc{
			Date:       line.Date.String(),
			Price:      moneyDoc{Amount: line.Price.Amount, Currency: line.Price.Currency},
			Overridden: line.Overridden,
		})
	}
	return doc
}

func (d breakdownDoc) toBreakdown() (domainpricing.PriceBreakdown, error) {
	out := domainpricing.PriceBreakdown{
		Nights: d.Nights,
		Total:  money.Money{Amount: d.Total.Amount, Currency: d.Total.Currency},
	}
	for _, line := range d.Lines {
		date, err := civil.ParseDate(line.Date)
		if err != nil {
			return domainpricing.PriceBreakdown{}, err
		}
		out.Lines = append(out.Lines, domainpricing.NightLine{
			Date:       date,
			Price:      money.Money{Amount: line.Price.Amount, Currency: line.Price.Currency},
			Overridden: line.Overridden,
		})
	}
	return out, nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
