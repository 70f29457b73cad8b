package order

import (
	"fmt"

	"meddispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined, role-scoped transitions:
//
//	pending ──────────────┬─> assigned_to_pharmacy ──> accepted_by_pharmacy ─┐
//	   │                  │        │    ^                                    │
//	   │                  │        v    │ (manual assign)                    │
//	   │                  └─> need_manual_assignment_to_pharmacy             │
//	   │                                                                     v
//	   │                 ┌─────────────────────────────── assigned_to_delivery_partner
//	   │                 │ (no candidate)                        │    ^
//	   │                 v                                       │    │ (manual assign)
//	   │   need_manual_assignment_to_delivery_partner ───────────│────┘
//	   │                                                         v
//	   │                                    accepted_by_delivery_partner
//	   │                                                         │
//	   │                                                         v
//	   └─> cancelled                 out_for_delivery ──> delivered
//
// delivered and cancelled are terminal: no outgoing transitions. Any
// transition request made against a state that does not permit it fails with
// a ConflictError, never a silent no-op.
type Status string

const (
	// StatusPending is the initial state of an order before any candidate
	// has been offered.
	StatusPending Status = "pending"

	// StatusAssignedToPharmacy means a provider candidate holds a pending offer.
	StatusAssignedToPharmacy Status = "assigned_to_pharmacy"

	// StatusAcceptedByPharmacy means the provider accepted; partner matching
	// begins immediately after this state is recorded.
	StatusAcceptedByPharmacy Status = "accepted_by_pharmacy"

	// StatusNeedManualAssignmentToPharmacy means the provider candidate pool
	// is exhausted and an administrator must assign one manually.
	StatusNeedManualAssignmentToPharmacy Status = "need_manual_assignment_to_pharmacy"

	// StatusAssignedToDeliveryPartner means a partner candidate holds a
	// pending offer.
	StatusAssignedToDeliveryPartner Status = "assigned_to_delivery_partner"

	// StatusAcceptedByDeliveryPartner means the partner accepted and will
	// pick the order up.
	StatusAcceptedByDeliveryPartner Status = "accepted_by_delivery_partner"

	// StatusNeedManualAssignmentToDeliveryPartner means the partner candidate
	// pool is exhausted and an administrator must assign one manually.
	StatusNeedManualAssignmentToDeliveryPartner Status = "need_manual_assignment_to_delivery_partner"

	// StatusOutForDelivery means the partner picked the order up.
	StatusOutForDelivery Status = "out_for_delivery"

	// StatusDelivered is the successful terminal state.
	StatusDelivered Status = "delivered"

	// StatusCancelled is the terminal state of a cancelled order.
	StatusCancelled Status = "cancelled"
)

// getValidStatuses returns the set of persisted status values.
func getValidStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusPending:                               {},
		StatusAssignedToPharmacy:                    {},
		StatusAcceptedByPharmacy:                    {},
		StatusNeedManualAssignmentToPharmacy:        {},
		StatusAssignedToDeliveryPartner:             {},
		StatusAcceptedByDeliveryPartner:             {},
		StatusNeedManualAssignmentToDeliveryPartner: {},
		StatusOutForDelivery:                        {},
		StatusDelivered:                             {},
		StatusCancelled:                             {},
	}
}

// Validate checks if the Status value is one of the persisted status values.
// This is used when reconstructing orders from storage or parsing external input.
func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the persisted string form of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Assign transitions to the assigned state of the given role.
//
// Valid transitions:
//   - pending -> assigned_to_pharmacy (initial offer, or reoffer after reject)
//   - assigned_to_pharmacy -> assigned_to_pharmacy (next candidate offered)
//   - need_manual_assignment_to_pharmacy -> assigned_to_pharmacy (manual assign)
//   - accepted_by_pharmacy -> assigned_to_delivery_partner (role handoff)
//   - assigned_to_delivery_partner -> assigned_to_delivery_partner (next candidate)
//   - need_manual_assignment_to_delivery_partner -> assigned_to_delivery_partner
func (s Status) Assign(role Role) (Status, error) {
	if err := role.Validate(); err != nil {
		return "", err
	}

	switch role {
	case RoleProvider:
		if s == StatusPending || s == StatusAssignedToPharmacy || s == StatusNeedManualAssignmentToPharmacy {
			return StatusAssignedToPharmacy, nil
		}
	case RolePartner:
		if s == StatusAcceptedByPharmacy || s == StatusAssignedToDeliveryPartner ||
			s == StatusNeedManualAssignmentToDeliveryPartner {
			return StatusAssignedToDeliveryPartner, nil
		}
	}

	return "", errs.NewConflictError("order status",
		fmt.Sprintf("cannot assign %s from %s", role, s))
}

// Accept transitions to the accepted state of the given role.
// Only legal from the matching assigned state.
func (s Status) Accept(role Role) (Status, error) {
	if err := role.Validate(); err != nil {
		return "", err
	}

	switch role {
	case RoleProvider:
		if s == StatusAssignedToPharmacy {
			return StatusAcceptedByPharmacy, nil
		}
	case RolePartner:
		if s == StatusAssignedToDeliveryPartner {
			return StatusAcceptedByDeliveryPartner, nil
		}
	}

	return "", errs.NewConflictError("order status",
		fmt.Sprintf("cannot accept %s from %s", role, s))
}

// Escalate transitions to the manual-assignment state of the given role,
// reached when the candidate pool for that role is exhausted.
func (s Status) Escalate(role Role) (Status, error) {
	if err := role.Validate(); err != nil {
		return "", err
	}

	switch role {
	case RoleProvider:
		if s == StatusPending || s == StatusAssignedToPharmacy {
			return StatusNeedManualAssignmentToPharmacy, nil
		}
	case RolePartner:
		if s == StatusAcceptedByPharmacy || s == StatusAssignedToDeliveryPartner {
			return StatusNeedManualAssignmentToDeliveryPartner, nil
		}
	}

	return "", errs.NewConflictError("order status",
		fmt.Sprintf("cannot escalate %s from %s", role, s))
}

// StartDelivery transitions accepted_by_delivery_partner -> out_for_delivery.
func (s Status) StartDelivery() (Status, error) {
	if s != StatusAcceptedByDeliveryPartner {
		return "", errs.NewConflictError("order status",
			fmt.Sprintf("cannot start delivery from %s", s))
	}
	return StatusOutForDelivery, nil
}

// Deliver transitions out_for_delivery -> delivered.
func (s Status) Deliver() (Status, error) {
	if s != StatusOutForDelivery {
		return "", errs.NewConflictError("order status",
			fmt.Sprintf("cannot deliver from %s", s))
	}
	return StatusDelivered, nil
}

// Cancel transitions to cancelled. Cancellation is allowed while matching is
// still in progress: it is refused once a pharmacy has accepted and the order
// is between roles, once a delivery partner has accepted, and in terminal states.
func (s Status) Cancel() (Status, error) {
	switch s {
	case StatusPending,
		StatusAssignedToPharmacy,
		StatusNeedManualAssignmentToPharmacy,
		StatusAssignedToDeliveryPartner,
		StatusNeedManualAssignmentToDeliveryPartner:
		return StatusCancelled, nil
	default:
		return "", errs.NewConflictError("order status",
			fmt.Sprintf("cannot cancel from %s", s))
	}
}
