// Package authz decides whether an authenticated identity may act on a
// resource. Decisions are pure functions of the identity and the resource's
// ownership; nothing here touches storage or the request.
package authz

import "github.com/nahashon-source/globalship-backend/internal/domain"

// Reason explains a denial. Handlers map reasons to response messages
// without leaking which resource exists or who owns it.
type Reason string

const (
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotOwner         Reason = "not_owner"
)

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allowed = Decision{Allowed: true}

// CanAccess reports whether identity may act on a resource owned by ownerID.
// Elevated identities may act on any resource; everyone else only on their
// own. Operations with no owner pass requiresElevated=true and ownerID="".
func CanAccess(identity domain.Identity, ownerID string, requiresElevated bool) Decision {
	if identity.Superuser {
		return allowed
	}
	if requiresElevated {
		return Decision{Allowed: false, Reason: ReasonInsufficientRole}
	}
	if identity.UserID != ownerID {
		return Decision{Allowed: false, Reason: ReasonNotOwner}
	}
	return allowed
}
