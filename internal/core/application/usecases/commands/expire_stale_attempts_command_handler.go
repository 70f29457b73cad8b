package commands

import (
	"context"
	"errors"
	"time"

	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"
	"meddispatch/internal/pkg/errs"
)

// ExpireStaleAttemptsCommandHandler treats unanswered offers as rejections.
// Each expired attempt feeds the normal reassignment flow: next queued
// candidate, fresh directory query, or escalation.
//
// Every order is processed in its own transaction. Losing the version race
// on one order means the candidate responded while the sweep ran; that order
// is skipped and the sweep continues.
type ExpireStaleAttemptsCommandHandler struct {
	uowFactory OrderUoWFactory
	flow       assignmentFlow
}

// NewExpireStaleAttemptsCommandHandler creates a handler for timeout sweeps.
func NewExpireStaleAttemptsCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.EntityDirectory,
	notifier ports.Notifier,
) ExpireStaleAttemptsCommandHandler {
	return ExpireStaleAttemptsCommandHandler{
		uowFactory: uowFactory,
		flow:       newAssignmentFlow(directory, notifier),
	}
}

// Handle processes one sweep.
// Returns the first unexpected error; conflicts with concurrent responses
// are expected and do not interrupt the sweep.
func (h ExpireStaleAttemptsCommandHandler) Handle(ctx context.Context, cmd ExpireStaleAttemptsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-cmd.Timeout())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	stale, err := uow.OrderRepository().GetAllWithStaleAttempts(ctx, cutoff)
	rollbackErr := uow.Rollback(ctx)
	if err != nil {
		return err
	}
	if rollbackErr != nil {
		return rollbackErr
	}

	for _, o := range stale {
		if err := h.expireOrder(ctx, o, cutoff, now); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				continue
			}
			return err
		}
	}
	return nil
}

func (h ExpireStaleAttemptsCommandHandler) expireOrder(
	ctx context.Context,
	o *order.Order,
	cutoff time.Time,
	now time.Time,
) error {
	role, ok := staleAttemptRole(o, cutoff)
	if !ok {
		return nil
	}

	assignee := o.ActiveAssignee(role)
	if assignee == nil {
		return nil
	}

	if err := o.ResolveAttempt(role, *assignee, order.OutcomeRejected, now); err != nil {
		return err
	}

	notices, err := h.flow.offerNext(ctx, o, role, now)
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

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	runNotices(ctx, notices)
	return nil
}

// staleAttemptRole finds the role whose pending attempt was offered before
// the cutoff. At most one attempt is pending per role, and pending attempts
// in both roles at once cannot happen, so the first match is the only one.
func staleAttemptRole(o *order.Order, cutoff time.Time) (order.Role, bool) {
	for _, role := range []order.Role{order.RoleProvider, order.RolePartner} {
		if attempt := o.PendingAttempt(role); attempt != nil && attempt.OfferedAt().Before(cutoff) {
			return role, true
		}
	}
	return "", false
}
