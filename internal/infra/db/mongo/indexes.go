package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes repositories rely on. Safe to run
// on every startup. idempotencyTTL bounds how long replay records are
// kept; zero keeps them forever.
func EnsureIndexes(ctx context.Context, db *mongo.Database, idempotencyTTL time.Duration) error {
	for name, models := range indexModels(idempotencyTTL) {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func indexModels(idempotencyTTL time.Duration) map[string][]mongo.IndexModel {
	idempotency := mongo.IndexModel{Keys: bson.D{{Key: "occurred_at", Value: 1}}}
	if idempotencyTTL > 0 {
		idempotency.Options = options.Index().SetExpireAfterSeconds(int32(idempotencyTTL / time.Second))
	}
	return map[string][]mongo.IndexModel{
		"agg_booking": {
			{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "check_in", Value: 1}}},
			{Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"agg_room": {
			{Keys: bson.D{{Key: "property_id", Value: 1}}},
		},
		"agg_property": {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
		"calendar_override": {
			{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "date", Value: 1}}},
		},
		"agg_user": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"auth_session": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
		"chat_thread": {
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "guest_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"maintenance_task": {
			{Keys: bson.D{{Key: "property_id", Value: 1}}},
		},
		"ledger_entry": {
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
			{Keys: bson.D{{Key: "booking_id", Value: 1}}},
		},
		"event_outbox": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "next_retry_at", Value: 1}}},
		},
		"idempotency_record": {idempotency},
	}
}
