package commands_test

import (
	"context"
	"testing"
	"time"

	"meddispatch/internal/core/application/usecases/commands"
	"meddispatch/internal/core/domain/model/candidate"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func escalatedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := fixtureOrder(t)
	require.NoError(t, o.Escalate(order.RoleProvider))
	return o
}

func TestManualAssignCommandHandler_Handle_OffersChosenCandidate(t *testing.T) {
	ctx := context.Background()
	o := escalatedOrder(t)
	chosen := fixtureCandidate(t, order.RoleProvider)

	directory := new(MockEntityDirectory)
	directory.On("FindCandidate", ctx, order.RoleProvider, chosen.ID()).Return(chosen, nil).Once()

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()
	_, factory := respondUoW(t, repo, true)

	notifier := new(MockNotifier)
	notifier.On("NotifyOffer", ctx, "push://device", o.ID(), order.RoleProvider).Once()

	cmd, err := commands.NewManualAssignCommand(o.ID(), order.RoleProvider, chosen.ID())
	require.NoError(t, err)

	h := commands.NewManualAssignCommandHandler(factory, directory, notifier)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.StatusAssignedToPharmacy, o.Status())
	require.NotNil(t, o.Provider())
	assert.True(t, o.Provider().IsEqual(chosen.ID()))
	notifier.AssertExpectations(t)
}

func TestManualAssignCommandHandler_Handle_UnknownCandidateFails(t *testing.T) {
	ctx := context.Background()
	candidateID := kernel.NewUUID()

	directory := new(MockEntityDirectory)
	directory.On("FindCandidate", ctx, order.RoleProvider, candidateID).
		Return(candidate.Candidate{}, errs.NewObjectNotFoundError("candidateID", candidateID)).Once()

	cmd, err := commands.NewManualAssignCommand(kernel.NewUUID(), order.RoleProvider, candidateID)
	require.NoError(t, err)

	h := commands.NewManualAssignCommandHandler(new(MockOrderUoWFactory), directory, new(MockNotifier))
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestManualAssignCommandHandler_Handle_PreviouslyRejectedCandidateConflicts(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	o := fixtureOrder(t)
	chosen := fixtureCandidate(t, order.RoleProvider)
	require.NoError(t, o.Offer(order.RoleProvider, chosen.ID(), now))
	require.NoError(t, o.ResolveAttempt(order.RoleProvider, chosen.ID(), order.OutcomeRejected, now))
	require.NoError(t, o.Escalate(order.RoleProvider))

	directory := new(MockEntityDirectory)
	directory.On("FindCandidate", ctx, order.RoleProvider, chosen.ID()).Return(chosen, nil).Once()

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	_, factory := respondUoW(t, repo, false)

	cmd, err := commands.NewManualAssignCommand(o.ID(), order.RoleProvider, chosen.ID())
	require.NoError(t, err)

	h := commands.NewManualAssignCommandHandler(factory, directory, new(MockNotifier))
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.StatusNeedManualAssignmentToPharmacy, o.Status())
}
