package mongo

import (
	"testing"
	"time"
)

func TestIdempotencyIndexExpires(t *testing.T) {
	models := indexModels(48 * time.Hour)["idempotency_record"]
	if len(models) != 1 {
		t.Fatalf("idempotency_record models = %d, want 1", len(models))
	}
	opts := models[0].Options
	if opts == nil || opts.ExpireAfterSeconds == nil {
		t.Fatalf("idempotency_record index has no expiry")
	}
	if got, want := *opts.ExpireAfterSeconds, int32(48*60*60); got != want {
		t.Fatalf("ExpireAfterSeconds = %d, want %d", got, want)
	}
}

func TestIdempotencyIndexZeroTTLKeepsRecords(t *testing.T) {
	models := indexModels(0)["idempotency_record"]
	if len(models) != 1 {
		t.Fatalf("idempotency_record models = %d, want 1", len(models))
	}
	if models[0].Options != nil {
		t.Fatalf("zero TTL must not set index options")
	}
}
