package commands

import (
	"context"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/domain/services"
	"meddispatch/internal/core/ports"
)

// assignmentFlow is the shared machinery for advancing an order through
// candidate assignment. It is used by every handler that can trigger an offer:
// order creation, rejections, timeouts, and manual assignment.
type assignmentFlow struct {
	directory  ports.EntityDirectory
	notifier   ports.Notifier
	dispatcher services.Dispatcher
}

func newAssignmentFlow(directory ports.EntityDirectory, notifier ports.Notifier) assignmentFlow {
	return assignmentFlow{
		directory:  directory,
		notifier:   notifier,
		dispatcher: services.NewDispatcher(services.NewGeoMatcher()),
	}
}

// offerNext advances assignment for the role. The order's remaining candidate
// queue is consumed first; when it is empty a fresh directory query supplies
// new candidates, excluding everyone already in the attempt ledger. When that
// also comes up empty the order escalates to manual assignment.
//
// The returned notices must be run only after the surrounding transaction
// commits, so a rolled-back offer never reaches a candidate's device.
func (f assignmentFlow) offerNext(
	ctx context.Context,
	o *order.Order,
	role order.Role,
	now time.Time,
) ([]func(context.Context), error) {
	if next, ok := o.PopCandidate(); ok {
		if err := o.Offer(role, next, now); err != nil {
			return nil, err
		}
		return f.offerNotices(ctx, o, role, next), nil
	}

	filter := ports.CandidateFilter{
		Origin:     o.DeliveryPoint(),
		TestIDs:    requiredTestIDs(o),
		ExcludeIDs: o.AttemptedIDs(role),
	}
	candidates, err := f.directory.FindAvailable(ctx, role, filter)
	if err != nil {
		return nil, err
	}

	chosen, offered, err := f.dispatcher.Dispatch(o, role, candidates, now)
	if err != nil {
		return nil, err
	}

	if offered {
		orderID := o.ID()
		push := chosen.PushAddress()
		return []func(context.Context){
			func(ctx context.Context) { f.notifier.NotifyOffer(ctx, push, orderID, role) },
		}, nil
	}
	return f.escalationNotices(ctx, o, role), nil
}

// offerNotices builds the post-commit push for a candidate taken from the
// queue. The push address comes from a directory lookup; if the lookup fails
// the offer stands and the candidate polls instead of being pushed.
func (f assignmentFlow) offerNotices(
	ctx context.Context,
	o *order.Order,
	role order.Role,
	candidateID kernel.UUID,
) []func(context.Context) {
	cand, err := f.directory.FindCandidate(ctx, role, candidateID)
	if err != nil || cand.PushAddress() == "" {
		return nil
	}

	orderID := o.ID()
	push := cand.PushAddress()
	return []func(context.Context){
		func(ctx context.Context) { f.notifier.NotifyOffer(ctx, push, orderID, role) },
	}
}

// escalationNotices builds the post-commit admin alert for an escalated order.
func (f assignmentFlow) escalationNotices(
	ctx context.Context,
	o *order.Order,
	role order.Role,
) []func(context.Context) {
	admins, err := f.directory.FindActiveAdmins(ctx)
	if err != nil || len(admins) == 0 {
		return nil
	}

	orderID := o.ID()
	return []func(context.Context){
		func(ctx context.Context) { f.notifier.NotifyAdmins(ctx, admins, orderID, role) },
	}
}

// requiredTestIDs returns the product ids a diagnostic provider must offer.
// Pure medicine orders carry no test requirement.
func requiredTestIDs(o *order.Order) []kernel.UUID {
	if o.Kind() == order.KindPharmacy {
		return nil
	}

	items := o.Items()
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID())
	}
	return ids
}

// runNotices fires post-commit notifications. Failures are the notifier's
// problem; dispatch state is already durable.
func runNotices(ctx context.Context, notices []func(context.Context)) {
	for _, notice := range notices {
		notice(ctx)
	}
}
