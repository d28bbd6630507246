package commands_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/user"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type createOrderFixture struct {
	orders    *MockOrderRepository
	users     *MockUserRepository
	catalog   *MockCatalogRepository
	uow       *MockUoW
	factory   *MockUoWFactory
	notifier  *MockNotifier
	publisher *MockPublisher
	handler   commands.CreateOrderCommandHandler
}

func newCreateOrderFixture() *createOrderFixture {
	f := &createOrderFixture{
		orders:    new(MockOrderRepository),
		users:     new(MockUserRepository),
		catalog:   new(MockCatalogRepository),
		uow:       new(MockUoW),
		factory:   new(MockUoWFactory),
		notifier:  new(MockNotifier),
		publisher: new(MockPublisher),
	}
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("UserRepository").Return(f.users).Maybe()
	f.uow.On("CatalogRepository").Return(f.catalog).Maybe()
	f.uow.On("OrderRepository").Return(f.orders).Maybe()
	f.handler = commands.NewCreateOrderCommandHandler(f.factory, f.notifier, f.publisher, discardLogger)
	return f
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	client := user.RestoreUser(7, 700, "Ali", "+998", kernel.RoleClient, now)

	cmd, err := commands.NewCreateOrderCommand(7, 5, []commands.OrderLine{{ProductID: 1, Quantity: 2}}, "", "")
	require.NoError(t, err)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.users.On("Get", ctx, int64(7)).Return(client, nil).Once()
	f.catalog.On("Store", ctx, int64(5)).Return(catalog.Store{ID: 5, Name: "Markaz"}, nil).Once()
	f.catalog.On("InventorySnapshot", ctx, int64(1), int64(5)).Return(catalog.InventorySnapshot{
		ProductID: 1, StoreID: 5, ProductName: "Olma", UnitPrice: decimal.NewFromInt(1000), Currency: "SUM",
	}, nil).Once()
	f.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { args.Get(1).(*order.Order).SetID(101) }).
		Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.notifier.On("OrderChanged", mock.Anything, mock.AnythingOfType("*order.Order")).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e ports.OrderEvent) bool {
		return e.OrderID == 101 && e.Status == order.Pending && e.ActingUserID == 7
	})).Return(nil).Once()

	created, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID())
	assert.Equal(t, order.Pending, created.Status())
	assert.True(t, decimal.NewFromInt(2000).Equal(created.TotalPrice()))
	require.Len(t, created.History(), 1)
	assert.Equal(t, order.CreationNote, created.LastEntry().Note)

	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ProductNotInStore(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	client := user.RestoreUser(7, 700, "Ali", "+998", kernel.RoleClient, now)

	cmd, err := commands.NewCreateOrderCommand(7, 5, []commands.OrderLine{{ProductID: 9, Quantity: 1}}, "", "")
	require.NoError(t, err)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.users.On("Get", ctx, int64(7)).Return(client, nil).Once()
	f.catalog.On("Store", ctx, int64(5)).Return(catalog.Store{ID: 5}, nil).Once()
	f.catalog.On("InventorySnapshot", ctx, int64(9), int64(5)).
		Return(catalog.InventorySnapshot{}, errs.NewObjectNotFoundError("inventory", "9/5")).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	created, err := f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "product 9 not available in store 5")
	assert.Nil(t, created)
	f.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.notifier.AssertNotCalled(t, "OrderChanged", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_UnknownUser(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()

	cmd, err := commands.NewCreateOrderCommand(7, 5, []commands.OrderLine{{ProductID: 1, Quantity: 1}}, "", "")
	require.NoError(t, err)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.users.On("Get", ctx, int64(7)).Return(nil, errs.NewObjectNotFoundError("user", int64(7))).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.catalog.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_PublishFailureIsSwallowed(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()
	client := user.RestoreUser(7, 700, "Ali", "+998", kernel.RoleClient, now)

	cmd, err := commands.NewCreateOrderCommand(7, 5, []commands.OrderLine{{ProductID: 1, Quantity: 1}}, "", "")
	require.NoError(t, err)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.users.On("Get", ctx, int64(7)).Return(client, nil).Once()
	f.catalog.On("Store", ctx, int64(5)).Return(catalog.Store{ID: 5}, nil).Once()
	f.catalog.On("InventorySnapshot", ctx, int64(1), int64(5)).Return(catalog.InventorySnapshot{
		ProductID: 1, StoreID: 5, UnitPrice: decimal.NewFromInt(10),
	}, nil).Once()
	f.orders.On("Add", ctx, mock.Anything).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.notifier.On("OrderChanged", mock.Anything, mock.Anything).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).
		Return(errs.NewUpstreamUnavailableErrorWithCause("kafka", errors.New("no brokers"))).Once()

	created, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.DefaultCurrency, created.Currency())
}

func TestCreateOrderCommandHandler_Handle_InvalidCommand(t *testing.T) {
	f := newCreateOrderFixture()

	_, err := f.handler.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	f.factory.AssertNotCalled(t, "Create")
}
