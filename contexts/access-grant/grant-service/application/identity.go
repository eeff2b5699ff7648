package application

import (
	"context"
	"fmt"

	"repogrant/contexts/access-grant/grant-service/domain/entities"
	domainerrors "repogrant/contexts/access-grant/grant-service/domain/errors"
)

// resolveIdentity maps a principal name to its identity handle. An empty
// principal resolves to no identity, which is only meaningful for a revoke.
// When the directory returns multiple matches the first one wins; that is
// documented behavior, not an accident.
func (s Service) resolveIdentity(ctx context.Context, principal string) (entities.Identity, bool, error) {
	if principal == "" {
		return entities.Identity{}, false, nil
	}

	matches, err := s.Identities.LookupByName(ctx, principal)
	if err != nil {
		ResolveLogger(s.Logger).Error("identity lookup failed",
			"event", "grant_identity_lookup_failed",
			"module", "access-grant/grant-service",
			"layer", "application",
			"principal", principal,
			"error", err.Error(),
		)
		return entities.Identity{}, false, fmt.Errorf("%w: identity lookup: %v", domainerrors.ErrUpstream, err)
	}
	if len(matches) == 0 {
		return entities.Identity{}, false, fmt.Errorf("%w: %q", domainerrors.ErrPrincipalUnknown, principal)
	}
	return matches[0], true, nil
}
