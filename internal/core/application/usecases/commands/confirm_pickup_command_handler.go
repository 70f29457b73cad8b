package commands

import (
	"context"

	"meddispatch/internal/core/ports"
)

// ConfirmPickupCommandHandler moves an order out for delivery when its
// assigned partner reports pickup.
type ConfirmPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewConfirmPickupCommandHandler creates a handler for pickup confirmations.
func NewConfirmPickupCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the pickup confirmation.
// Only the partner currently assigned to the order may confirm pickup.
func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) error {
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

	if err = o.StartDelivery(cmd.PartnerID()); err != nil {
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
