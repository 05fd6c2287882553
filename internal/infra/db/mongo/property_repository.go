package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "stayhub/internal/domain/property"
	"stayhub/internal/domain/shared/money"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("agg_property")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrPropertyNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PropertyRepository) ByOwner(ctx context.Context, ownerID string) ([]*domainproperty.Property, error) {
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainproperty.Property
	for cursor.Next(ctx) {
		var doc propertyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	doc := newPropertyDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("mongo: concurrent property update")
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return errors.New("mongo: concurrent property update")
	}
	p.Version = doc.Version
	return nil
}

type propertyDocument struct {
	ID        string      `bson:"_id"`
	OwnerID   string      `bson:"owner_id"`
	Name      string      `bson:"name"`
	Address   addressDoc  `bson:"address"`
	CreatedAt int64       `bson:"created_at"`
	UpdatedAt int64       `bson:"updated_at"`
	Version   int64       `bson:"version"`
}

type addressDoc struct {
	Line1      string `bson:"line1"`
	City       string `bson:"city"`
	Region     string `bson:"region,omitempty"`
	Country    string `bson:"country"`
	PostalCode string `bson:"postal_code,omitempty"`
}

func newPropertyDocument(p *domainproperty.Property) propertyDocument {
	return propertyDocument{
		ID:      string(p.ID),
		OwnerID: p.OwnerID,
		Name:    p.Name,
		Address: addressDoc{
			Line1:      p.Address.Line1,
			City:       p.Address.City,
			Region:     p.Address.Region,
			Country:    p.Address.Country,
			PostalCode: p.Address.PostalCode,
		},
		CreatedAt: p.CreatedAt.UnixMilli(),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
		Version:   p.Version,
	}
}

func (d propertyDocument) toAggregate() *domainproperty.Property {
	return &domainproperty.Property{
		ID:      domainproperty.PropertyID(d.ID),
		OwnerID: d.OwnerID,
		Name:    d.Name,
		Address: domainproperty.Address{
			Line1:      d.Address.Line1,
			City:       d.Address.City,
			Region:     d.Address.Region,
			Country:    d.Address.Country,
			PostalCode: d.Address.PostalCode,
		},
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("agg_room")}
}

func (r *RoomRepository) Room(ctx context.Context, propertyID domainproperty.PropertyID, roomID domainproperty.RoomID) (*domainproperty.Room, error) {
	filter := bson.M{"_id": string(roomID), "property_id": string(propertyID)}
	var doc roomDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrRoomNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]*domainproperty.Room, error) {
	cursor, err := r.col.Find(ctx, bson.M{"property_id": string(propertyID)}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainproperty.Room
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *RoomRepository) Save(ctx context.Context, room *domainproperty.Room) error {
	doc := newRoomDocument(room)
	filter := bson.M{"_id": doc.ID, "version": room.Version}
	doc.Version = room.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("mongo: concurrent room update")
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return errors.New("mongo: concurrent room update")
	}
	room.Version = doc.Version
	return nil
}

type roomDocument struct {
	ID           string   `bson:"_id"`
	PropertyID   string   `bson:"property_id"`
	Name         string   `bson:"name"`
	DefaultPrice moneyDoc `bson:"default_price"`
	MaxOccupancy int      `bson:"max_occupancy"`
	Beds         []bedDoc `bson:"beds,omitempty"`
	Amenities    []string `bson:"amenities,omitempty"`
	PhotoURLs    []string `bson:"photo_urls,omitempty"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
	Version      int64    `bson:"version"`
}

type bedDoc struct {
	Kind  string `bson:"kind"`
	Count int    `bson:"count"`
}

func newRoomDocument(room *domainproperty.Room) roomDocument {
	doc := roomDocument{
		ID:           string(room.ID),
		PropertyID:   string(room.PropertyID),
		Name:         room.Name,
		DefaultPrice: moneyDoc{Amount: room.DefaultPrice.Amount, Currency: room.DefaultPrice.Currency},
		MaxOccupancy: room.MaxOccupancy,
		Amenities:    room.Amenities,
		PhotoURLs:    room.PhotoURLs,
		CreatedAt:    room.CreatedAt.UnixMilli(),
		UpdatedAt:    room.UpdatedAt.UnixMilli(),
		Version:      room.Version,
	}
	for _, bed := range room.Beds {
		doc.Beds = append(doc.Beds, bedDoc{Kind: string(bed.Kind), Count: bed.Count})
	}
	return doc
}

func (d roomDocument) toAggregate() *domainproperty.Room {
	room := &domainproperty.Room{
		ID:           domainproperty.RoomID(d.ID),
		PropertyID:   domainproperty.PropertyID(d.PropertyID),
		Name:         d.Name,
		DefaultPrice: money.Money{Amount: d.DefaultPrice.Amount, Currency: d.DefaultPrice.Currency},
		MaxOccupancy: d.MaxOccupancy,
		Amenities:    d.Amenities,
		PhotoURLs:    d.PhotoURLs,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
	for _, bed := range d.Beds {
		room.Beds = append(room.Beds, domainproperty.Bed{Kind: domainproperty.BedKind(bed.Kind), Count: bed.Count})
	}
	return room
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
var _ domainproperty.RoomRepository = (*RoomRepository)(nil)
