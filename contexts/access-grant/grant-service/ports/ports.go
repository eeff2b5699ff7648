package ports

import (
	"context"
	"time"

	"repogrant/contexts/access-grant/grant-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts unique ID generation for event envelopes.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// GrantStore is the single source of truth for which identity currently
// holds access because of which purchase. Put and Remove return the row
// that was replaced or deleted so the caller can target membership
// mutations at confirmed store state instead of a pre-write read.
type GrantStore interface {
	Get(ctx context.Context, purchaseID string) (entities.Grant, bool, error)
	Put(ctx context.Context, purchaseID string, identityHandle string, now time.Time) (prev entities.Grant, existed bool, err error)
	Remove(ctx context.Context, purchaseID string) (prev entities.Grant, existed bool, err error)
}

// PurchaseVerifier looks up purchase records by purchase identifier.
type PurchaseVerifier interface {
	Verify(ctx context.Context, purchaseID string) ([]entities.PurchaseRecord, error)
}

// IdentityDirectory resolves a principal name to identities in the
// membership system. Callers take the first result; ties are not an error.
type IdentityDirectory interface {
	LookupByName(ctx context.Context, principal string) ([]entities.Identity, error)
}

// MembershipClient mutates membership of an identity on a resource.
// Grant must treat "already a member" as success; Revoke is only called for
// handles the caller believes are members, but revoking an absent member
// must not fail.
type MembershipClient interface {
	IsMember(ctx context.Context, resourceID string, identityHandle string) (bool, error)
	Grant(ctx context.Context, resourceID string, identityHandle string, accessLevel int) error
	Revoke(ctx context.Context, resourceID string, identityHandle string) error
}

// ChallengeVerifier checks an anti-automation response token.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// EventEnvelope is the shape published for grant lifecycle events.
type EventEnvelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	SourceService string    `json:"source_service"`
	OccurredAt    time.Time `json:"occurred_at"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Payload       any       `json:"payload"`
}

// EventPublisher emits grant lifecycle events. Publishing is best-effort;
// failures must never fail the originating request.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
