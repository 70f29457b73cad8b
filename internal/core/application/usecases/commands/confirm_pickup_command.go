package commands

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand represents the assigned delivery partner reporting
// that the order has been picked up from the provider.
type ConfirmPickupCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPickupCommand creates a command marking an order as picked up.
func NewConfirmPickupCommand(orderID, partnerID kernel.UUID) (ConfirmPickupCommand, error) {
	cmd := ConfirmPickupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPartnerID(partnerID),
	); err != nil {
		return ConfirmPickupCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

// OrderID returns the picked-up order.
func (c ConfirmPickupCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PartnerID returns the reporting delivery partner.
func (c ConfirmPickupCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c *ConfirmPickupCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmPickupCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	c.partnerID = partnerID
	return nil
}
