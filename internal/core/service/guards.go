package service

import "github.com/marketbay/order-system/internal/core/domain"

// requireRole checks that the reflected user record holds role. The check
// always runs against the store's current view of the user, never against
// claims cached in the token, so a role revocation takes effect on the next
// request even while the token keeps validating.
func requireRole(u *domain.User, role string) error {
	if u == nil || !u.HasRole(role) {
		if role == domain.RoleAdmin {
			return domain.ErrAdminRequired
		}
		return domain.ErrAccessDenied
	}
	return nil
}

// requireOwnership enforces strict owner equality. There is no admin override
// on resource ownership.
func requireOwnership(ownerID, callerID string) error {
	if ownerID != callerID {
		return domain.ErrAccessDenied
	}
	return nil
}
