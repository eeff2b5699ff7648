package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"repogrant/contexts/access-grant/grant-service/domain/entities"
	domainerrors "repogrant/contexts/access-grant/grant-service/domain/errors"
	"repogrant/contexts/access-grant/grant-service/ports"
)

const defaultAccessLevel = 10

// Policy carries the deployment feature flags that gate reconciliation.
type Policy struct {
	AllowEditAndDelete bool
	AllowRefunded      bool
	AllowFree          bool
}

// Outcome is the terminal classification of a reconciliation request.
type Outcome string

const (
	OutcomePreviewGrant    Outcome = "will_grant"
	OutcomePreviewOverride Outcome = "will_override"
	OutcomePreviewRevoke   Outcome = "will_revoke"
	OutcomeAlreadyGranted  Outcome = "already_granted"
	OutcomeGranted         Outcome = "granted"
	OutcomeRegranted       Outcome = "regranted"
	OutcomeRevoked         Outcome = "revoked"
	OutcomeNothingToRevoke Outcome = "nothing_to_revoke"
)

// Result describes what reconciliation decided and, for mutating requests,
// what it did. Mutated is true only when the grant store changed.
type Result struct {
	Outcome        Outcome
	PurchaseID     string
	Principal      string
	IdentityHandle string
	ProductID      string
	ResourceID     string
	Mutated        bool
}

// Service drives the grant reconciliation workflow: validate, verify
// entitlement, resolve identity, compare against the persisted grant, then
// mutate store and membership in that order.
type Service struct {
	Store      ports.GrantStore
	Purchases  ports.PurchaseVerifier
	Identities ports.IdentityDirectory
	Membership ports.MembershipClient

	// Challenge is nil when no anti-automation secret is configured.
	Challenge ports.ChallengeVerifier

	// Events is optional; publishing is best-effort.
	Events ports.EventPublisher

	Clock       ports.Clock
	IDs         ports.IDGenerator
	Mapping     entities.AssetRepoMapping
	Policy      Policy
	AccessLevel int
	Logger      *slog.Logger
}

// Reconcile runs the full pipeline for one request. Every error returned
// wraps exactly one domain sentinel so the transport layer can map it.
func (s Service) Reconcile(ctx context.Context, raw RawRequest) (Result, error) {
	logger := ResolveLogger(s.Logger)

	req, err := ValidateRequest(raw, s.Policy.AllowEditAndDelete)
	if err != nil {
		return Result{}, err
	}

	logger.Info("grant reconciliation started",
		"event", "grant_reconcile_started",
		"module", "access-grant/grant-service",
		"layer", "application",
		"purchase_id", req.PurchaseID,
		"principal", req.Principal,
		"modify", req.Modify,
	)

	if err := s.verifyChallenge(ctx, req.ChallengeToken); err != nil {
		return Result{}, err
	}

	ent, err := s.resolveEntitlement(ctx, req.PurchaseID)
	if err != nil {
		return Result{}, err
	}

	identity, hasIdentity, err := s.resolveIdentity(ctx, req.Principal)
	if err != nil {
		return Result{}, err
	}

	existing, found, err := s.Store.Get(ctx, req.PurchaseID)
	if err != nil {
		logger.Error("grant store read failed",
			"event", "grant_store_get_failed",
			"module", "access-grant/grant-service",
			"layer", "application",
			"purchase_id", req.PurchaseID,
			"error", err.Error(),
		)
		// Fail closed: no write is attempted when the read failed.
		return Result{}, fmt.Errorf("%w: get: %v", domainerrors.ErrStorage, err)
	}

	result := Result{
		PurchaseID:     req.PurchaseID,
		Principal:      req.Principal,
		IdentityHandle: identity.Handle,
		ProductID:      ent.ProductID,
		ResourceID:     ent.ResourceID,
	}

	switch {
	case !found && !hasIdentity:
		// Revoke of a purchase that holds nothing; valid only under the
		// edit/delete flag, which the validator already enforced.
		result.Outcome = OutcomeNothingToRevoke
		return result, nil

	case !found && !req.Modify:
		result.Outcome = OutcomePreviewGrant
		return result, nil

	case !found:
		return s.createGrant(ctx, result, ent.ResourceID, identity)

	case hasIdentity && existing.IdentityHandle == identity.Handle:
		return s.confirmGrant(ctx, req, result, ent.ResourceID, identity)

	case !req.Modify && hasIdentity:
		result.Outcome = OutcomePreviewOverride
		return result, nil

	case !req.Modify:
		result.Outcome = OutcomePreviewRevoke
		return result, nil

	case !s.Policy.AllowEditAndDelete:
		return Result{}, fmt.Errorf("%w: purchase %s held by handle %s",
			domainerrors.ErrGrantImmutable, req.PurchaseID, existing.IdentityHandle)

	case hasIdentity:
		return s.updateGrant(ctx, result, ent.ResourceID, identity)

	default:
		return s.revokeGrant(ctx, result, ent.ResourceID)
	}
}

func (s Service) createGrant(ctx context.Context, result Result, resourceID string, identity entities.Identity) (Result, error) {
	prev, _, err := s.Store.Put(ctx, result.PurchaseID, identity.Handle, s.now())
	if err != nil {
		return Result{}, s.storeWriteErr(result.PurchaseID, err)
	}
	result.Outcome = OutcomeGranted
	result.Mutated = true
	s.publish(ctx, "grant.created", result)
	if err := s.applyMembership(ctx, resourceID, prev.IdentityHandle, identity.Handle); err != nil {
		return result, err
	}
	s.logCompleted(result)
	return result, nil
}

// confirmGrant is the idempotent no-op arm: the store already maps the
// purchase to the requested handle. A mutating retry still converges
// membership (the previous attempt may have failed after the store write),
// but never issues a grant call for a handle that is already a member.
func (s Service) confirmGrant(ctx context.Context, req ValidatedRequest, result Result, resourceID string, identity entities.Identity) (Result, error) {
	result.Outcome = OutcomeAlreadyGranted
	if !req.Modify {
		return result, nil
	}
	member, err := s.Membership.IsMember(ctx, resourceID, identity.Handle)
	if err != nil {
		return result, s.membershipErr("membership check", resourceID, identity.Handle, err)
	}
	if !member {
		if err := s.Membership.Grant(ctx, resourceID, identity.Handle, s.accessLevel()); err != nil {
			return result, s.membershipErr("membership grant", resourceID, identity.Handle, err)
		}
	}
	s.logCompleted(result)
	return result, nil
}

func (s Service) updateGrant(ctx context.Context, result Result, resourceID string, identity entities.Identity) (Result, error) {
	prev, _, err := s.Store.Put(ctx, result.PurchaseID, identity.Handle, s.now())
	if err != nil {
		return Result{}, s.storeWriteErr(result.PurchaseID, err)
	}
	result.Outcome = OutcomeRegranted
	result.Mutated = true
	s.publish(ctx, "grant.updated", result)
	if err := s.applyMembership(ctx, resourceID, prev.IdentityHandle, identity.Handle); err != nil {
		return result, err
	}
	s.logCompleted(result)
	return result, nil
}

func (s Service) revokeGrant(ctx context.Context, result Result, resourceID string) (Result, error) {
	prev, existed, err := s.Store.Remove(ctx, result.PurchaseID)
	if err != nil {
		return Result{}, s.storeWriteErr(result.PurchaseID, err)
	}
	if !existed {
		result.Outcome = OutcomeNothingToRevoke
		return result, nil
	}
	result.Outcome = OutcomeRevoked
	result.Mutated = true
	s.publish(ctx, "grant.revoked", result)
	if err := s.applyMembership(ctx, resourceID, prev.IdentityHandle, ""); err != nil {
		return result, err
	}
	s.logCompleted(result)
	return result, nil
}

// applyMembership converges actual repository membership on the persisted
// grant. The store write has already happened; failures here surface as
// upstream errors without rolling the write back, and a client retry
// converges. prevHandle comes from the row the store write returned, not
// from any value read before the write.
func (s Service) applyMembership(ctx context.Context, resourceID string, prevHandle, newHandle string) error {
	if prevHandle != "" && prevHandle != newHandle {
		member, err := s.Membership.IsMember(ctx, resourceID, prevHandle)
		if err != nil {
			return s.membershipErr("membership check", resourceID, prevHandle, err)
		}
		if member {
			if err := s.Membership.Revoke(ctx, resourceID, prevHandle); err != nil {
				return s.membershipErr("membership revoke", resourceID, prevHandle, err)
			}
		}
	}
	if newHandle != "" {
		if err := s.Membership.Grant(ctx, resourceID, newHandle, s.accessLevel()); err != nil {
			return s.membershipErr("membership grant", resourceID, newHandle, err)
		}
	}
	return nil
}

func (s Service) verifyChallenge(ctx context.Context, token string) error {
	if s.Challenge == nil {
		return nil
	}
	if token == "" {
		return domainerrors.ErrChallengeTokenRequired
	}
	ok, err := s.Challenge.Verify(ctx, token)
	if err != nil {
		ResolveLogger(s.Logger).Error("challenge verification failed",
			"event", "grant_challenge_verify_failed",
			"module", "access-grant/grant-service",
			"layer", "application",
			"error", err.Error(),
		)
		return fmt.Errorf("%w: challenge verification: %v", domainerrors.ErrUpstream, err)
	}
	if !ok {
		return domainerrors.ErrChallengeFailed
	}
	return nil
}

func (s Service) publish(ctx context.Context, eventType string, result Result) {
	if s.Events == nil {
		return
	}
	eventID := ""
	if s.IDs != nil {
		if id, err := s.IDs.NewID(ctx); err == nil {
			eventID = id
		}
	}
	err := s.Events.Publish(ctx, "access-grant.grants", ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "grant-service",
		OccurredAt:    s.now(),
		EntityType:    "grant",
		EntityID:      result.PurchaseID,
		Payload: map[string]string{
			"purchase_id":     result.PurchaseID,
			"identity_handle": result.IdentityHandle,
			"principal":       result.Principal,
			"resource_id":     result.ResourceID,
		},
	})
	if err != nil {
		ResolveLogger(s.Logger).Warn("grant event publish failed",
			"event", "grant_event_publish_failed",
			"module", "access-grant/grant-service",
			"layer", "application",
			"purchase_id", result.PurchaseID,
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (s Service) storeWriteErr(purchaseID string, err error) error {
	ResolveLogger(s.Logger).Error("grant store write failed",
		"event", "grant_store_write_failed",
		"module", "access-grant/grant-service",
		"layer", "application",
		"purchase_id", purchaseID,
		"error", err.Error(),
	)
	return fmt.Errorf("%w: write: %v", domainerrors.ErrStorage, err)
}

func (s Service) membershipErr(op string, resourceID, handle string, err error) error {
	ResolveLogger(s.Logger).Error("membership mutation failed",
		"event", "grant_membership_failed",
		"module", "access-grant/grant-service",
		"layer", "application",
		"op", op,
		"resource_id", resourceID,
		"identity_handle", handle,
		"error", err.Error(),
	)
	return fmt.Errorf("%w: %s: %v", domainerrors.ErrUpstream, op, err)
}

func (s Service) logCompleted(result Result) {
	ResolveLogger(s.Logger).Info("grant reconciliation completed",
		"event", "grant_reconcile_completed",
		"module", "access-grant/grant-service",
		"layer", "application",
		"purchase_id", result.PurchaseID,
		"outcome", string(result.Outcome),
		"mutated", result.Mutated,
	)
}

func (s Service) accessLevel() int {
	if s.AccessLevel <= 0 {
		return defaultAccessLevel
	}
	return s.AccessLevel
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
