package policies

import (
	"context"

	"stayhub/internal/app/actor"
	domainauth "stayhub/internal/domain/auth"
)

// ActorCarrier is implemented by commands that act on behalf of an
// authenticated principal.
type ActorCarrier interface {
	Acting() actor.Actor
}

// KnownActorAuthorizer rejects anonymous writes at the bus boundary.
// Target-level checks (booking guest, property owner) stay in the
// handlers, which have the aggregates loaded.
type KnownActorAuthorizer struct{}

func (KnownActorAuthorizer) Authorize(ctx context.Context, message any) error {
	if carrier, ok := message.(ActorCarrier); ok && !carrier.Acting().Known() {
		return domainauth.ErrUnauthorized
	}
	return nil
}
