package order

import (
	"meddispatch/internal/pkg/errs"
)

// Role identifies which assignment slot of an order a candidate is offered:
// the servicing provider (pharmacy or diagnostic lab) or the delivery partner.
// The two roles run the same offer/resolve/escalate flow sequentially.
type Role string

const (
	// RoleProvider is the first assignment role: the pharmacy or lab that
	// services the order.
	RoleProvider Role = "provider"

	// RolePartner is the second assignment role: the delivery partner that
	// carries the order, matched only after a provider accepts.
	RolePartner Role = "partner"
)

// Validate checks that the role is one of the two known assignment roles.
func (r Role) Validate() error {
	switch r {
	case RoleProvider, RolePartner:
		return nil
	default:
		return errs.NewValueIsInvalidError("role")
	}
}

// String returns the persisted string form of the role.
func (r Role) String() string {
	return string(r)
}
