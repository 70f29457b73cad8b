package commands_test

import (
	"context"
	"testing"

	"meddispatch/internal/core/application/usecases/commands"
	"meddispatch/internal/core/domain/model/candidate"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createOrderCmd(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		order.KindPharmacy,
		kernel.NewUUID(),
		fixtureItems(t),
		fixtureGeoPoint(t),
		order.PaymentCashOnDelivery,
		"5566",
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_AssignsNearestProvider(t *testing.T) {
	ctx := context.Background()
	cmd := createOrderCmd(t)
	provider := fixtureCandidate(t, order.RoleProvider)

	directory := new(MockEntityDirectory)
	directory.On("FindAvailable", ctx, order.RoleProvider, mock.AnythingOfType("ports.CandidateFilter")).
		Return([]candidate.Candidate{provider}, nil).Once()

	notifier := new(MockNotifier)
	notifier.On("NotifyOffer", ctx, "push://device", cmd.OrderID(), order.RoleProvider).Once()

	var persisted *order.Order
	repo := new(MockOrderRepository)
	repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*order.Order) }).
		Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, directory, notifier)
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, persisted)
	assert.Equal(t, order.StatusAssignedToPharmacy, persisted.Status())
	require.NotNil(t, persisted.Provider())
	assert.True(t, persisted.Provider().IsEqual(provider.ID()))
	require.Len(t, persisted.Attempts(), 1)

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	directory.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_EscalatesWhenNoProviderAvailable(t *testing.T) {
	ctx := context.Background()
	cmd := createOrderCmd(t)

	directory := new(MockEntityDirectory)
	directory.On("FindAvailable", ctx, order.RoleProvider, mock.AnythingOfType("ports.CandidateFilter")).
		Return([]candidate.Candidate{}, nil).Once()
	directory.On("FindActiveAdmins", ctx).Return([]string{"push://admin"}, nil).Once()

	notifier := new(MockNotifier)
	notifier.On("NotifyAdmins", ctx, []string{"push://admin"}, cmd.OrderID(), order.RoleProvider).Once()

	var persisted *order.Order
	repo := new(MockOrderRepository)
	repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*order.Order) }).
		Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, directory, notifier)
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, persisted)
	assert.Equal(t, order.StatusNeedManualAssignmentToPharmacy, persisted.Status())
	assert.Empty(t, persisted.Attempts())

	directory.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_LabOrderQueriesWithTestIDs(t *testing.T) {
	ctx := context.Background()
	testID := kernel.NewUUID()
	item, err := order.NewItem(testID, "cbc panel", 1)
	require.NoError(t, err)

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		order.KindLab,
		kernel.NewUUID(),
		[]order.Item{item},
		fixtureGeoPoint(t),
		order.PaymentOnline,
		"5566",
	)
	require.NoError(t, err)

	var captured ports.CandidateFilter
	directory := new(MockEntityDirectory)
	directory.On("FindAvailable", ctx, order.RoleProvider, mock.AnythingOfType("ports.CandidateFilter")).
		Run(func(args mock.Arguments) { captured = args.Get(2).(ports.CandidateFilter) }).
		Return([]candidate.Candidate{}, nil).Once()
	directory.On("FindActiveAdmins", ctx).Return([]string{}, nil).Once()

	repo := new(MockOrderRepository)
	repo.On("Add", ctx, mock.Anything).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, directory, new(MockNotifier))
	require.NoError(t, h.Handle(ctx, cmd))

	require.Len(t, captured.TestIDs, 1)
	assert.True(t, captured.TestIDs[0].IsEqual(testID))
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewCreateOrderCommandHandler(
		new(MockOrderUoWFactory), new(MockEntityDirectory), new(MockNotifier))

	err := h.Handle(context.Background(), commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
