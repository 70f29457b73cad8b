package commands

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/guard"
)

var ErrManualAssignCommandIsNotConstructed = errors.New(
	"ManualAssignCommand must be created via NewManualAssignCommand constructor",
)

// ManualAssignCommand represents an administrator hand-picking a candidate
// for an escalated order. The explicit choice overrides availability, but
// not the attempt ledger: a candidate who already rejected the order cannot
// be re-assigned to it.
type ManualAssignCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	role        order.Role
	candidateID kernel.UUID

	guard guard.ConstructorGuard
}

// NewManualAssignCommand creates a command assigning a candidate by hand.
func NewManualAssignCommand(orderID kernel.UUID, role order.Role, candidateID kernel.UUID) (ManualAssignCommand, error) {
	cmd := ManualAssignCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRole(role),
		cmd.setCandidateID(candidateID),
	); err != nil {
		return ManualAssignCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ManualAssignCommand) Validate() error {
	return c.guard.Validate(ErrManualAssignCommandIsNotConstructed)
}

// OrderID returns the escalated order.
func (c ManualAssignCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Role returns the role the candidate is being assigned for.
func (c ManualAssignCommand) Role() order.Role {
	return c.role
}

// CandidateID returns the administrator's chosen candidate.
func (c ManualAssignCommand) CandidateID() kernel.UUID {
	return c.candidateID
}

func (c *ManualAssignCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ManualAssignCommand) setRole(role order.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	c.role = role
	return nil
}

func (c *ManualAssignCommand) setCandidateID(candidateID kernel.UUID) error {
	if err := candidateID.Validate(); err != nil {
		return err
	}
	c.candidateID = candidateID
	return nil
}
