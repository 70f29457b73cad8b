// Package candidate holds the read model for assignable entities: pharmacies,
// diagnostic centers, and delivery partners surfaced by the entity directory.
// Candidates are not persisted by this service; they are re-read from the
// directory on every matching pass so availability is never stale.
package candidate

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/errs"
	"meddispatch/internal/pkg/guard"
)

// ErrCandidateIsNotConstructed is returned when a Candidate was not created via NewCandidate.
var ErrCandidateIsNotConstructed = errors.New("Candidate must be created via NewCandidate constructor")

// Candidate is one assignable entity with the location used for ranking and
// the push address used to notify it of an offer.
type Candidate struct {
	id          kernel.UUID
	role        order.Role
	location    kernel.GeoPoint
	pushAddress string
	guard       guard.ConstructorGuard
}

// NewCandidate creates a validated candidate. The push address may be empty;
// notification is best effort and a candidate without one is still assignable.
func NewCandidate(id kernel.UUID, role order.Role, location kernel.GeoPoint, pushAddress string) (Candidate, error) {
	if err := errors.Join(id.Validate(), role.Validate(), location.Validate()); err != nil {
		return Candidate{}, errs.NewValueIsInvalidErrorWithCause("candidate", err)
	}

	return Candidate{
		id:          id,
		role:        role,
		location:    location,
		pushAddress: pushAddress,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Candidate instance was properly constructed.
func (c Candidate) Validate() error {
	return c.guard.Validate(ErrCandidateIsNotConstructed)
}

// ID returns the candidate's directory identifier.
func (c Candidate) ID() kernel.UUID {
	return c.id
}

// Role returns whether the candidate is a provider or a delivery partner.
func (c Candidate) Role() order.Role {
	return c.role
}

// Location returns the coordinate the candidate is ranked by. For providers
// this is the facility location, for partners the last reported live location.
func (c Candidate) Location() kernel.GeoPoint {
	return c.location
}

// PushAddress returns the address offers are pushed to, empty if unknown.
func (c Candidate) PushAddress() string {
	return c.pushAddress
}
