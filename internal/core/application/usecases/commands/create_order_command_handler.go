package commands

import (
	"context"
	"time"

	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"
)

// CreateOrderCommandHandler handles order registration and the first provider
// matching pass. The order is persisted already carrying the outcome of the
// pass: assigned to the nearest available provider, or escalated to manual
// assignment when no provider is available.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, directory, notifier)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	flow       assignmentFlow
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.EntityDirectory,
	notifier ports.Notifier,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		flow:       newAssignmentFlow(directory, notifier),
	}
}

// Handle processes the order creation command.
// Builds the order aggregate, runs the provider matching pass, and persists
// the result in one transaction. Candidate and admin pushes go out only after
// the commit succeeds.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Kind(),
		cmd.CustomerID(),
		cmd.Items(),
		cmd.DeliveryPoint(),
		cmd.PaymentMethod(),
		cmd.VerificationCode(),
	)
	if err != nil {
		return err
	}

	notices, err := h.flow.offerNext(ctx, newOrder, order.RoleProvider, time.Now().UTC())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	runNotices(ctx, notices)
	return nil
}
