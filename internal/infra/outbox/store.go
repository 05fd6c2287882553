package outbox

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "stayhub/internal/app/outbox"
)

const (
	statusNew     = "NEW"
	statusClaimed = "CLAIMED"
	statusSent    = "SENT"
	statusFailed  = "FAILED"
)

// Store persists outbox events in Mongo. Add runs inside the command
// transaction, so an event row commits atomically with the aggregate
// change it describes; the polling worker publishes it afterwards.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("event_outbox")}
}

// EventDocument is the persisted form of one pending event.
type EventDocument struct {
	ID          string            `bson:"_id"`
	Name        string            `bson:"name"`
	Payload     []byte            `bson:"payload"`
	Aggregate   string            `bson:"aggregate"`
	Headers     map[string]string `bson:"headers,omitempty"`
	OccurredAt  time.Time         `bson:"occurred_at"`
	Status      string            `bson:"status"`
	Attempts    int               `bson:"attempts"`
	NextRetryAt time.Time         `bson:"next_retry_at"`
	ClaimedBy   string            `bson:"claimed_by,omitempty"`
	LastError   string            `bson:"last_error,omitempty"`
}

// Add enqueues the record as NEW.
func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := EventDocument{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     record.Payload,
		Aggregate:   record.Aggregate,
		Headers:     record.Headers,
		OccurredAt:  record.OccurredAt,
		Status:      statusNew,
		NextRetryAt: record.OccurredAt,
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Flush is a no-op: durability comes from the enclosing transaction
// and delivery belongs to the worker.
func (s *Store) Flush(ctx context.Context) error {
	return nil
}

// Claim atomically takes one due event for the given worker. Returns
// nil when nothing is due.
func (s *Store) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"status":        bson.M{"$in": bson.A{statusNew, statusFailed}},
		"next_retry_at": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{"status": statusClaimed, "claimed_by": workerID},
		"$inc": bson.M{"attempts": 1},
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.M{"occurred_at": 1}).
		SetReturnDocument(options.After)
	var doc EventDocument
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"status": statusSent},
		"$unset": bson.M{"claimed_by": "", "last_error": ""},
	})
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"status": statusFailed, "next_retry_at": nextRetry.UTC(), "last_error": reason},
		"$unset": bson.M{"claimed_by": ""},
	})
	return err
}

var _ appoutbox.Outbox = (*Store)(nil)
