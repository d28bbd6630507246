package orderrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/postgres/dbtest"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL, including concurrent writers racing on one order.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	db        *gorm.DB
	terminate func(context.Context) error
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	db, terminate, err := dbtest.Postgres(context.Background())
	suite.Require().NoError(err)
	suite.db = db
	suite.terminate = terminate
	suite.repo = orderrepo.NewGormOrderRepository(db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.terminate != nil {
		suite.Require().NoError(suite.terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(dbtest.Truncate(suite.db))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddGetRoundTrip() {
	ctx := context.Background()
	o := newOrder(suite.T(), true)

	suite.Require().NoError(suite.repo.Add(ctx, o))

	got, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(o.TotalPrice().Equal(got.TotalPrice()))
	suite.Len(got.Items(), 2)
	suite.Require().NotNil(got.Location())
	suite.InDelta(41.311081, got.Location().Lat(), 1e-9)
	suite.True(o.CreatedAt().Equal(got.CreatedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFullLifecycle() {
	ctx := context.Background()
	o := newOrder(suite.T(), false)
	suite.Require().NoError(suite.repo.Add(ctx, o))

	steps := []struct {
		target order.Status
		actor  order.Actor
	}{
		{order.Accepted, order.Actor{UserID: 100, Role: kernel.RoleOrderReceiver}},
		{order.Preparing, order.Actor{UserID: 200, Role: kernel.RoleOrderPicker}},
		{order.ReadyForDelivery, order.Actor{UserID: 200, Role: kernel.RoleOrderPicker}},
		{order.Shipping, order.Actor{UserID: 300, Role: kernel.RoleCourier}},
		{order.Completed, order.Actor{UserID: 300, Role: kernel.RoleCourier}},
	}

	for i, step := range steps {
		current, err := suite.repo.Get(ctx, o.ID())
		suite.Require().NoError(err)

		expected := current.Status()
		_, err = current.ApplyTransition(step.target, step.actor, "", now.Add(time.Duration(i+1)*time.Minute))
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repo.UpdateIfStatus(ctx, current, expected))
	}

	got, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Completed, got.Status())
	suite.Equal(int64(100), *got.ReceiverID())
	suite.Equal(int64(200), *got.PickerID())
	suite.Equal(int64(300), *got.CourierID())
	suite.Len(got.History(), 6)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestConcurrentAccept_ExactlyOneWins() {
	ctx := context.Background()
	o := newOrder(suite.T(), false)
	suite.Require().NoError(suite.repo.Add(ctx, o))

	const contenders = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	start := make(chan struct{})

	for i := range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			copyOf, err := suite.repo.Get(ctx, o.ID())
			if err != nil {
				return
			}
			actor := order.Actor{UserID: int64(100 + i), Role: kernel.RoleOrderReceiver}
			if _, err := copyOf.ApplyTransition(order.Accepted, actor, "", now); err != nil {
				return
			}

			err = suite.repo.UpdateIfStatus(ctx, copyOf, order.Pending)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, errs.ErrInvalidTransition):
				conflict++
			}
		}()
	}

	close(start)
	wg.Wait()

	suite.Equal(1, wins)

	got, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Accepted, got.Status())
	suite.Len(got.History(), 2)
	suite.Equal(contenders-1, conflict)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
