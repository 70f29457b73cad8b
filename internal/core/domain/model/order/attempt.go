package order

import (
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/pkg/errs"
)

// Outcome is the recorded result of offering an order to one candidate.
type Outcome string

const (
	// OutcomePending means the candidate has been offered the order and has
	// not yet responded.
	OutcomePending Outcome = "pending"

	// OutcomeAccepted means the candidate accepted the offer.
	OutcomeAccepted Outcome = "accepted"

	// OutcomeRejected means the candidate rejected the offer, explicitly or
	// by timing out.
	OutcomeRejected Outcome = "rejected"
)

// Validate checks that the outcome is one of the known values.
func (o Outcome) Validate() error {
	switch o {
	case OutcomePending, OutcomeAccepted, OutcomeRejected:
		return nil
	default:
		return errs.NewValueIsInvalidError("outcome")
	}
}

// Attempt records one offer of an order to one candidate, with its outcome.
// Attempts are owned exclusively by the Order aggregate: they are created by
// Offer, never removed, and their outcome transitions pending to
// accepted or rejected exactly once.
type Attempt struct {
	candidateID kernel.UUID
	role        Role
	outcome     Outcome
	offeredAt   time.Time
	resolvedAt  *time.Time
}

// RestoreAttempt reconstructs an attempt from persistence.
// It validates every component so corrupted ledger rows surface immediately.
func RestoreAttempt(
	candidateID kernel.UUID,
	role Role,
	outcome Outcome,
	offeredAt time.Time,
	resolvedAt *time.Time,
) (Attempt, error) {
	if err := candidateID.Validate(); err != nil {
		return Attempt{}, err
	}
	if err := role.Validate(); err != nil {
		return Attempt{}, err
	}
	if err := outcome.Validate(); err != nil {
		return Attempt{}, err
	}
	if offeredAt.IsZero() {
		return Attempt{}, errs.NewValueIsRequiredError("offeredAt")
	}

	return Attempt{
		candidateID: candidateID,
		role:        role,
		outcome:     outcome,
		offeredAt:   offeredAt,
		resolvedAt:  resolvedAt,
	}, nil
}

// newAttempt creates a fresh pending attempt. Only the Order aggregate calls this.
func newAttempt(candidateID kernel.UUID, role Role, now time.Time) Attempt {
	return Attempt{
		candidateID: candidateID,
		role:        role,
		outcome:     OutcomePending,
		offeredAt:   now,
	}
}

// CandidateID returns the id of the candidate this order was offered to.
func (a Attempt) CandidateID() kernel.UUID {
	return a.candidateID
}

// Role returns the assignment role the attempt belongs to.
func (a Attempt) Role() Role {
	return a.role
}

// Outcome returns the current outcome of the attempt.
func (a Attempt) Outcome() Outcome {
	return a.outcome
}

// OfferedAt returns when the candidate was offered the order.
func (a Attempt) OfferedAt() time.Time {
	return a.offeredAt
}

// ResolvedAt returns when the attempt was accepted or rejected.
// Returns nil while the attempt is pending.
func (a Attempt) ResolvedAt() *time.Time {
	return a.resolvedAt
}

// IsPending reports whether the candidate has not yet responded.
func (a Attempt) IsPending() bool {
	return a.outcome == OutcomePending
}
