package commands

import (
	"context"
	"time"

	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"
)

// RespondToAssignmentCommandHandler records a candidate's response to a
// pending offer and advances the dispatch flow.
//
// On acceptance by a provider, partner matching starts in the same
// transaction so the order is never persisted in a state where nobody is
// being asked to deliver it. On rejection, the next candidate is offered
// from the queue, or from a fresh directory query, or the order escalates.
//
// A stale or duplicate response surfaces as a ConflictError from the
// aggregate and nothing is persisted.
type RespondToAssignmentCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	flow       assignmentFlow
}

// NewRespondToAssignmentCommandHandler creates a handler for offer responses.
func NewRespondToAssignmentCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.EntityDirectory,
	notifier ports.Notifier,
) RespondToAssignmentCommandHandler {
	return RespondToAssignmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		flow:       newAssignmentFlow(directory, notifier),
	}
}

// Handle processes an accept or reject response.
// The resolution and any follow-up offer are persisted in a single
// conditional update; losing the version race returns a ConflictError and
// the caller re-reads.
func (h RespondToAssignmentCommandHandler) Handle(ctx context.Context, cmd RespondToAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

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

	outcome := order.OutcomeRejected
	if cmd.Accepted() {
		outcome = order.OutcomeAccepted
	}
	if err = o.ResolveAttempt(cmd.Role(), cmd.CandidateID(), outcome, now); err != nil {
		return err
	}

	var notices []func(context.Context)
	switch {
	case cmd.Accepted() && cmd.Role() == order.RoleProvider:
		// Provider locked in, immediately start looking for a partner.
		notices, err = h.flow.offerNext(ctx, o, order.RolePartner, now)
	case !cmd.Accepted():
		notices, err = h.flow.offerNext(ctx, o, cmd.Role(), now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	customerID := o.CustomerID()
	orderID := o.ID()
	status := o.Status()
	h.notifier.NotifyCustomer(ctx, customerID, orderID, status)
	runNotices(ctx, notices)
	return nil
}
