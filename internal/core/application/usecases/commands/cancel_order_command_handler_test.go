package commands_test

import (
	"context"
	"testing"

	"meddispatch/internal/core/application/usecases/commands"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	o := fixtureOrder(t)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()
	_, factory := respondUoW(t, repo, true)

	notifier := new(MockNotifier)
	notifier.On("NotifyCustomer", ctx, o.CustomerID(), o.ID(), order.StatusCancelled).Once()

	cmd, err := commands.NewCancelOrderCommand(o.ID(), o.CustomerID())
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(factory, notifier)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.StatusCancelled, o.Status())
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_WrongCustomerConflicts(t *testing.T) {
	ctx := context.Background()
	o := fixtureOrder(t)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	_, factory := respondUoW(t, repo, false)

	cmd, err := commands.NewCancelOrderCommand(o.ID(), kernel.NewUUID())
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(factory, new(MockNotifier))
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.StatusPending, o.Status())
}

func TestCancelOrderCommandHandler_Handle_LostVersionRaceConflicts(t *testing.T) {
	ctx := context.Background()
	o := fixtureOrder(t)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(errs.NewConflictError("order", "version changed")).Once()
	_, factory := respondUoW(t, repo, false)

	cmd, err := commands.NewCancelOrderCommand(o.ID(), o.CustomerID())
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(factory, new(MockNotifier))
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	repo.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("orderID", orderID)).Once()
	_, factory := respondUoW(t, repo, false)

	cmd, err := commands.NewCancelOrderCommand(orderID, kernel.NewUUID())
	require.NoError(t, err)

	h := commands.NewCancelOrderCommandHandler(factory, new(MockNotifier))
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	mock.AssertExpectationsForObjects(t, repo, factory)
}
