// Package authz holds the ownership predicates consulted by services before
// any mutation. They have no side effects.
package authz

import (
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
)

// RequireOwnerOrAdmin fails with Forbidden unless identity owns the resource
// or carries the admin claim.
func RequireOwnerOrAdmin(ownerId domain.UserId, identity *domain.Identity) error {
	if identity == nil {
		return errors.Unauthenticated("Authentication required")
	}
	if identity.UserId == ownerId || identity.Admin {
		return nil
	}
	return errors.Forbidden("Only the author or an admin can do that")
}

func RequireAdmin(identity *domain.Identity) error {
	if identity == nil {
		return errors.Unauthenticated("Authentication required")
	}
	if !identity.Admin {
		return errors.Forbidden("Admin access required")
	}
	return nil
}

// CanSeeHidden reports whether identity may read content hidden from public views.
func CanSeeHidden(ownerId domain.UserId, identity *domain.Identity) bool {
	return RequireOwnerOrAdmin(ownerId, identity) == nil
}
