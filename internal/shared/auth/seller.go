// Package auth holds the actor checks shared by the bounded contexts. Identity
// itself is established upstream; this service only receives the actor id.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthorized signals a missing actor or an actor lacking the seller role.
var ErrUnauthorized = errors.New("unauthorized")

// SellerAuthorizer decides whether an actor may perform seller operations.
type SellerAuthorizer interface {
	IsAuthorizedSeller(ctx context.Context, actorID string) (bool, error)
}

// Allowlist authorizes a fixed set of seller ids.
type Allowlist struct {
	ids map[string]struct{}
}

var _ SellerAuthorizer = (*Allowlist)(nil)

// NewAllowlist builds an allowlist, ignoring blank ids.
func NewAllowlist(ids ...string) *Allowlist {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return &Allowlist{ids: set}
}

// ParseAllowlist reads a comma separated list such as SELLER_IDS.
func ParseAllowlist(raw string) *Allowlist {
	return NewAllowlist(strings.Split(raw, ",")...)
}

func (a *Allowlist) IsAuthorizedSeller(_ context.Context, actorID string) (bool, error) {
	if a == nil {
		return false, nil
	}
	_, ok := a.ids[strings.TrimSpace(actorID)]
	return ok, nil
}

// RequireActor rejects blank actor ids.
func RequireActor(actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return ErrUnauthorized
	}
	return nil
}

// RequireSeller rejects actors the authorizer does not recognize as sellers.
func RequireSeller(ctx context.Context, sellers SellerAuthorizer, actorID string) error {
	if err := RequireActor(actorID); err != nil {
		return err
	}
	if sellers == nil {
		return ErrUnauthorized
	}
	ok, err := sellers.IsAuthorizedSeller(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
