package commands_test

import (
	"context"
	"testing"
	"time"

	"meddispatch/internal/core/application/usecases/commands"
	"meddispatch/internal/core/domain/model/candidate"
	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/core/domain/model/order"
	"meddispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllEscalated(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllWithStaleAttempts(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockEntityDirectory struct{ mock.Mock }

func (m *MockEntityDirectory) FindAvailable(
	ctx context.Context,
	role order.Role,
	filter ports.CandidateFilter,
) ([]candidate.Candidate, error) {
	args := m.Called(ctx, role, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]candidate.Candidate), args.Error(1)
}

func (m *MockEntityDirectory) FindCandidate(
	ctx context.Context,
	role order.Role,
	id kernel.UUID,
) (candidate.Candidate, error) {
	args := m.Called(ctx, role, id)
	return args.Get(0).(candidate.Candidate), args.Error(1)
}

func (m *MockEntityDirectory) FindActiveAdmins(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyOffer(ctx context.Context, pushAddress string, orderID kernel.UUID, role order.Role) {
	m.Called(ctx, pushAddress, orderID, role)
}

func (m *MockNotifier) NotifyCustomer(ctx context.Context, customerID, orderID kernel.UUID, status order.Status) {
	m.Called(ctx, customerID, orderID, status)
}

func (m *MockNotifier) NotifyAdmins(ctx context.Context, pushAddresses []string, orderID kernel.UUID, role order.Role) {
	m.Called(ctx, pushAddresses, orderID, role)
}

// Test fixtures shared across handler tests.

func fixtureGeoPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(23.8103, 90.4125)
	require.NoError(t, err)
	return p
}

func fixtureItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "seclo 20mg", 1)
	require.NoError(t, err)
	return []order.Item{item}
}

func fixtureOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.KindPharmacy,
		kernel.NewUUID(),
		fixtureItems(t),
		fixtureGeoPoint(t),
		order.PaymentCashOnDelivery,
		"5566",
	)
	require.NoError(t, err)
	return o
}

func fixtureCandidate(t *testing.T, role order.Role) candidate.Candidate {
	t.Helper()
	c, err := candidate.NewCandidate(kernel.NewUUID(), role, fixtureGeoPoint(t), "push://device")
	require.NoError(t, err)
	return c
}
