package commands

import (
	"context"
	"time"

	"meddispatch/internal/core/ports"
)

// ManualAssignCommandHandler resolves escalated orders by offering them to
// the candidate an administrator picked. The candidate must exist in the
// directory; the normal accept/reject flow resumes from the offer.
type ManualAssignCommandHandler struct {
	uowFactory OrderUoWFactory
	directory  ports.EntityDirectory
	notifier   ports.Notifier
}

// NewManualAssignCommandHandler creates a handler for manual assignments.
func NewManualAssignCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.EntityDirectory,
	notifier ports.Notifier,
) ManualAssignCommandHandler {
	return ManualAssignCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		notifier:   notifier,
	}
}

// Handle processes the manual assignment.
// The offer lands in the attempt ledger like any automatic one, so a manual
// candidate who rejects feeds back into the normal reassignment flow.
func (h ManualAssignCommandHandler) Handle(ctx context.Context, cmd ManualAssignCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	chosen, err := h.directory.FindCandidate(ctx, cmd.Role(), cmd.CandidateID())
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

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Offer(cmd.Role(), chosen.ID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if chosen.PushAddress() != "" {
		h.notifier.NotifyOffer(ctx, chosen.PushAddress(), o.ID(), cmd.Role())
	}
	return nil
}
