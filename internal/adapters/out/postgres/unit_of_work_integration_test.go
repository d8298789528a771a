package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work against PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.ModificationDTO{})
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, order_modifications").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

// TestUnitOfWork_CommitKeepsOrderAndHistory writes an order, a version bump and
// a history entry in one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitKeepsOrderAndHistory() {
	ctx := context.Background()
	testOrder := createTestOrder(suite)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	suite.Require().NoError(repo.Add(ctx, testOrder))
	_, _, err := testOrder.ApplyUpdate(order.UpdatePayment, order.UpdateValue{Text: "authorized"}, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Update(ctx, testOrder))
	suite.Require().NoError(repo.AppendModification(ctx, testOrder.ID(), order.Modification{
		Timestamp: time.Now().UTC(), UpdateType: order.UpdatePayment,
		OldValue: "pending", NewValue: "authorized", UserID: "system",
	}))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create().OrderRepository()
	got, err := reader.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(2, got.Version())
	suite.Equal(order.PaymentAuthorized, got.PaymentStatus())

	history, err := reader.ListModifications(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Len(history, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsEverything() {
	ctx := context.Background()
	testOrder := createTestOrder(suite)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.OrderRepository().AppendModification(ctx, testOrder.ID(), order.Modification{
		Timestamp: time.Now().UTC(), UpdateType: order.UpdateCancel, NewValue: "cancelled", UserID: "system",
	}))

	_, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err, "Order should be visible inside the transaction")

	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create().OrderRepository()
	_, err = reader.Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	history, err := reader.ListModifications(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Empty(history)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	order1 := createTestOrder(suite)
	order2 := createTestOrder(suite)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	reader := suite.factory.Create().OrderRepository()
	_, err = reader.Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")
	_, err = reader.Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_ConcurrentUpdates_SecondWriterLoses checks the version guard
// across two transactions that read the same version.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentUpdates_SecondWriterLoses() {
	ctx := context.Background()
	testOrder := createTestOrder(suite)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, testOrder))

	reader := suite.factory.Create().OrderRepository()
	first, err := reader.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := reader.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	uow1 := suite.factory.Create()
	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(first.Advance(order.Confirmed, time.Now().UTC()))
	suite.Require().NoError(uow1.OrderRepository().Update(ctx, first))
	suite.Require().NoError(uow1.Commit(ctx))

	uow2 := suite.factory.Create()
	suite.Require().NoError(uow2.Begin(ctx))
	defer func() {
		_ = uow2.Rollback(ctx)
	}()
	_, _, err = second.ApplyUpdate(order.UpdateCancel, order.UpdateValue{}, time.Now().UTC())
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	testOrder := createTestOrder(suite)

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(testOrder.ID().IsEqual(retrieved.ID()))
}

func createTestOrder(suite *UnitOfWorkIntegrationTestSuite) *order.Order {
	address, err := kernel.NewAddress("1 Main St", "Springfield", "IL", "62701", "US")
	suite.Require().NoError(err)
	items, err := order.LineItemsFromRequest([]order.RequestItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("120.00")},
	})
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(order.Draft{
		ID:              kernel.NewUUID(),
		BuyerID:         "b1",
		SupplierID:      "s1",
		Items:           items,
		DeliveryAddress: address,
		PaymentMethod:   order.BankTransfer,
		Currency:        "USD",
		TotalAmount:     kernel.MustMoney("132.00"),
		CreatedAt:       time.Now().UTC(),
	})
	suite.Require().NoError(err)
	return testOrder
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
