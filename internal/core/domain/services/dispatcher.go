package services

import (
	"time"

	"meddispatch/internal/core/domain/model/candidate"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
)

// Dispatcher is a domain service that runs one matching pass for an order:
// it ranks the eligible candidates by distance to the delivery point, offers
// the order to the head of the ranking, and installs the rest as the order's
// candidate queue.
//
// Business rules:
//   - Candidates already present in the order's attempt ledger for the role
//     are never offered again
//   - The nearest eligible candidate receives the offer
//   - An exhausted pool escalates the order to manual assignment; this is a
//     normal outcome, not an error
type Dispatcher struct {
	matcher GeoMatcher
}

// NewDispatcher creates a new Dispatcher instance.
func NewDispatcher(matcher GeoMatcher) Dispatcher {
	return Dispatcher{matcher: matcher}
}

// Dispatch ranks the candidates and offers the order to the nearest one that
// has not been attempted for the role.
//
// Returns:
//   - candidate.Candidate: the candidate that received the offer
//   - bool: true if an offer was made, false if the pool was exhausted and
//     the order was escalated to manual assignment
//   - error: validation or transition failures only
func (d Dispatcher) Dispatch(
	o *order.Order,
	role order.Role,
	candidates []candidate.Candidate,
	now time.Time,
) (candidate.Candidate, bool, error) {
	if err := o.Validate(); err != nil {
		return candidate.Candidate{}, false, err
	}
	if err := role.Validate(); err != nil {
		return candidate.Candidate{}, false, err
	}

	eligible := d.filterAttempted(o, role, candidates)
	ranked := d.matcher.Rank(o.DeliveryPoint(), eligible)

	if len(ranked) == 0 {
		if err := o.Escalate(role); err != nil {
			return candidate.Candidate{}, false, err
		}
		return candidate.Candidate{}, false, nil
	}

	chosen := ranked[0]
	if err := o.Offer(role, chosen.ID(), now); err != nil {
		return candidate.Candidate{}, false, err
	}
	o.ReplaceQueue(role, candidateIDs(ranked[1:]))

	return chosen, true, nil
}

func (d Dispatcher) filterAttempted(o *order.Order, role order.Role, candidates []candidate.Candidate) []candidate.Candidate {
	attempted := o.AttemptedIDs(role)
	eligible := make([]candidate.Candidate, 0, len(candidates))
	for _, c := range candidates {
		skip := false
		for _, id := range attempted {
			if c.ID().IsEqual(id) {
				skip = true
				break
			}
		}
		if !skip {
			eligible = append(eligible, c)
		}
	}
	return eligible
}

func candidateIDs(candidates []candidate.Candidate) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID())
	}
	return ids
}
