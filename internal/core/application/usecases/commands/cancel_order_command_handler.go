package commands

import (
	"context"
	"fmt"

	"meddispatch/internal/core/ports"
	"meddispatch/internal/pkg/errs"
)

// CancelOrderCommandHandler handles customer cancellation requests.
// Cancellation is only possible while matching is in progress; once a
// pharmacy has accepted, the window closes and the aggregate returns a
// ConflictError.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewCancelOrderCommandHandler creates a handler for cancellation operations.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.Notifier) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the cancellation command.
// Only the customer who placed the order may cancel it. An in-flight accept
// that commits first wins the version race and the cancellation conflicts.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if !o.CustomerID().IsEqual(cmd.CustomerID()) {
		return errs.NewConflictError("order",
			fmt.Sprintf("customer %s did not place this order", cmd.CustomerID()))
	}

	if err = o.Cancel(); err != nil {
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
