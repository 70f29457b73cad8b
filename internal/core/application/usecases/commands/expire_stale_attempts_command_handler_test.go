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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderWithStaleOffer builds an order whose provider offer is old enough to
// have timed out.
func orderWithStaleOffer(t *testing.T) *order.Order {
	t.Helper()
	o := fixtureOrder(t)
	offeredAt := time.Now().UTC().Add(-10 * time.Minute)
	require.NoError(t, o.Offer(order.RoleProvider, kernel.NewUUID(), offeredAt))
	return o
}

func TestExpireStaleAttemptsCommandHandler_Handle_ExpiresAndReassigns(t *testing.T) {
	ctx := context.Background()
	o := orderWithStaleOffer(t)
	next := fixtureCandidate(t, order.RoleProvider)

	repo := new(MockOrderRepository)
	repo.On("GetAllWithStaleAttempts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{o}, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Times(2)
	uow.On("OrderRepository").Return(repo).Times(2)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Times(2)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(2)

	directory := new(MockEntityDirectory)
	directory.On("FindAvailable", ctx, order.RoleProvider, mock.AnythingOfType("ports.CandidateFilter")).
		Return([]candidate.Candidate{next}, nil).Once()

	notifier := new(MockNotifier)
	notifier.On("NotifyOffer", ctx, "push://device", o.ID(), order.RoleProvider).Once()

	cmd, err := commands.NewExpireStaleAttemptsCommand(5 * time.Minute)
	require.NoError(t, err)

	h := commands.NewExpireStaleAttemptsCommandHandler(factory, directory, notifier)
	require.NoError(t, h.Handle(ctx, cmd))

	require.Len(t, o.Attempts(), 2)
	assert.Equal(t, order.OutcomeRejected, o.Attempts()[0].Outcome())
	require.NotNil(t, o.Provider())
	assert.True(t, o.Provider().IsEqual(next.ID()))
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestExpireStaleAttemptsCommandHandler_Handle_SkipsLostRaces(t *testing.T) {
	ctx := context.Background()
	o := orderWithStaleOffer(t)

	repo := new(MockOrderRepository)
	repo.On("GetAllWithStaleAttempts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{o}, nil).Once()
	repo.On("Update", ctx, o).Return(errs.NewConflictError("order", "version changed")).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Times(2)
	uow.On("OrderRepository").Return(repo).Times(2)
	uow.On("Rollback", ctx).Return(nil).Times(2)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(2)

	directory := new(MockEntityDirectory)
	directory.On("FindAvailable", ctx, order.RoleProvider, mock.AnythingOfType("ports.CandidateFilter")).
		Return([]candidate.Candidate{}, nil).Once()
	directory.On("FindActiveAdmins", ctx).Return([]string{}, nil).Once()

	cmd, err := commands.NewExpireStaleAttemptsCommand(5 * time.Minute)
	require.NoError(t, err)

	h := commands.NewExpireStaleAttemptsCommandHandler(factory, directory, new(MockNotifier))
	require.NoError(t, h.Handle(ctx, cmd))

	repo.AssertExpectations(t)
}

func TestExpireStaleAttemptsCommandHandler_Handle_NothingStale(t *testing.T) {
	ctx := context.Background()

	repo := new(MockOrderRepository)
	repo.On("GetAllWithStaleAttempts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{}, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewExpireStaleAttemptsCommand(5 * time.Minute)
	require.NoError(t, err)

	h := commands.NewExpireStaleAttemptsCommandHandler(factory, new(MockEntityDirectory), new(MockNotifier))
	require.NoError(t, h.Handle(ctx, cmd))

	repo.AssertExpectations(t)
}

func TestNewExpireStaleAttemptsCommand_RejectsNonPositiveTimeout(t *testing.T) {
	_, err := commands.NewExpireStaleAttemptsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
