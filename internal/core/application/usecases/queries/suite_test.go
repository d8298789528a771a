package queries_test

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/productrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var createdAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// databaseSuite starts one PostgreSQL container per suite and migrates the
// order and catalog tables.
type databaseSuite struct {
	suite.Suite
	container   *postgres.PostgresContainer
	db          *gorm.DB
	orderRepo   *orderrepo.GormOrderRepository
	productRepo *productrepo.GormProductRepository
}

func (s *databaseSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.ModificationDTO{},
		&productrepo.ProductDTO{},
	)
	s.Require().NoError(err)

	s.orderRepo = orderrepo.NewGormOrderRepository(db)
	s.productRepo = productrepo.NewGormProductRepository(db)
}

func (s *databaseSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *databaseSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE TABLE orders, order_items, order_modifications, products").Error
	s.Require().NoError(err)
}

func (s *databaseSuite) addOrder(items ...order.RequestItem) *order.Order {
	address, err := kernel.NewAddress("1 Main St", "Springfield", "IL", "62701", "US")
	s.Require().NoError(err)
	lineItems, err := order.LineItemsFromRequest(items)
	s.Require().NoError(err)

	o, err := order.NewOrder(order.Draft{
		ID:              kernel.NewUUID(),
		BuyerID:         "b1",
		SupplierID:      "s1",
		Items:           lineItems,
		DeliveryAddress: address,
		PaymentMethod:   order.DigitalWallet,
		Currency:        "USD",
		TotalAmount:     kernel.MustMoney("81.00"),
		CreatedAt:       createdAt,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.orderRepo.Add(context.Background(), o))
	return o
}
