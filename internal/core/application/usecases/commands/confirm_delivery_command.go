package commands

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/pkg/errs"
	"meddispatch/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents the assigned delivery partner reporting
// handover to the customer, authenticated by the dispatch verification code.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	partnerID        kernel.UUID
	verificationCode string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command marking an order as delivered.
func NewConfirmDeliveryCommand(orderID, partnerID kernel.UUID, verificationCode string) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPartnerID(partnerID),
		cmd.setVerificationCode(verificationCode),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// OrderID returns the delivered order.
func (c ConfirmDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PartnerID returns the reporting delivery partner.
func (c ConfirmDeliveryCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// VerificationCode returns the code presented by the customer at handover.
func (c ConfirmDeliveryCommand) VerificationCode() string {
	return c.verificationCode
}

func (c *ConfirmDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmDeliveryCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	c.partnerID = partnerID
	return nil
}

func (c *ConfirmDeliveryCommand) setVerificationCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("verificationCode")
	}
	c.verificationCode = code
	return nil
}
