package commands

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/guard"
)

var ErrRespondToAssignmentCommandIsNotConstructed = errors.New(
	"RespondToAssignmentCommand must be created via NewRespondToAssignmentCommand constructor",
)

// RespondToAssignmentCommand represents a candidate's answer to a pending
// offer: a pharmacy, diagnostic center, or delivery partner accepting or
// rejecting the order it was offered.
type RespondToAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	role        order.Role
	candidateID kernel.UUID
	accepted    bool

	guard guard.ConstructorGuard
}

// NewRespondToAssignmentCommand creates a command carrying a candidate's response.
func NewRespondToAssignmentCommand(
	orderID kernel.UUID,
	role order.Role,
	candidateID kernel.UUID,
	accepted bool,
) (RespondToAssignmentCommand, error) {
	cmd := RespondToAssignmentCommand{
		accepted: accepted,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRole(role),
		cmd.setCandidateID(candidateID),
	); err != nil {
		return RespondToAssignmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondToAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondToAssignmentCommandIsNotConstructed)
}

// OrderID returns the order being responded to.
func (c RespondToAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Role returns the assignment role the responder holds.
func (c RespondToAssignmentCommand) Role() order.Role {
	return c.role
}

// CandidateID returns the responding candidate.
func (c RespondToAssignmentCommand) CandidateID() kernel.UUID {
	return c.candidateID
}

// Accepted reports whether the candidate accepted the offer.
func (c RespondToAssignmentCommand) Accepted() bool {
	return c.accepted
}

func (c *RespondToAssignmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RespondToAssignmentCommand) setRole(role order.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	c.role = role
	return nil
}

func (c *RespondToAssignmentCommand) setCandidateID(candidateID kernel.UUID) error {
	if err := candidateID.Validate(); err != nil {
		return err
	}
	c.candidateID = candidateID
	return nil
}
