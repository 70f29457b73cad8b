package commands

import (
	"context"

	"meddispatch/internal/core/ports"
)

// ConfirmDeliveryCommandHandler completes an order when its assigned partner
// presents the matching verification code at handover. Cash-on-delivery
// orders are marked paid as part of the same state change.
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmations.
func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the delivery confirmation.
// A wrong verification code conflicts and leaves the order out for delivery
// so the partner can retry with the correct code.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.CompleteDelivery(cmd.PartnerID(), cmd.VerificationCode()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.NotifyCustomer(ctx, o.CustomerID(), o.ID(), o.Status())
	return nil
}
