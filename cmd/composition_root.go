package cmd

import (
	"log/slog"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/productrepo"
	redisadapter "marketplace/internal/adapters/out/redis"
	"marketplace/internal/adapters/out/simulated"
	"marketplace/internal/core/application/orderservice"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot builds the handlers, the order service and the inbound
// adapters from the infrastructure clients opened by main.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	products   ports.ProductCatalog
	ledger     ports.StepLedger
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient goredis.Cmdable,
	notifier ports.Notifier,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		products:   productrepo.NewGormProductRepository(gormDB),
		ledger:     redisadapter.NewStepLedger(redisClient, config.StepLedgerTTL),
		notifier:   notifier,
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.products)
	return &h
}

func (c *CompositionRoot) CreateProcessOrderCommandHandler() *commands.ProcessOrderCommandHandler {
	h := commands.NewProcessOrderCommandHandler(
		c.orderUoWFactory(),
		c.products,
		simulated.NewPaymentGateway(c.logger),
		simulated.NewWarehouse(c.logger),
		simulated.NewShippingCarrier(c.logger),
		c.notifier,
		c.ledger,
		c.logger,
	)
	return &h
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() *commands.UpdateOrderCommandHandler {
	h := commands.NewUpdateOrderCommandHandler(
		c.orderUoWFactory(),
		simulated.NewAllowAllAuthorizer(),
		c.notifier,
		c.logger,
	)
	return &h
}

func (c *CompositionRoot) CreateProcessPendingOrdersCommandHandler() commands.ProcessPendingOrdersCommandHandler {
	return commands.NewProcessPendingOrdersCommandHandler(
		c.orderUoWFactory(),
		c.CreateProcessOrderCommandHandler(),
		c.logger,
	).WithRetryBackoff(c.config.FulfillmentRetryBackoff)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOrderService() *orderservice.Service {
	return orderservice.NewService(
		c.CreateCreateOrderCommandHandler(),
		c.CreateProcessOrderCommandHandler(),
		c.CreateUpdateOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOrderHistoryQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(c.CreateOrderService(), c.config.JWTSecret)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateProcessPendingOrdersCommandHandler(),
		c.config.FulfillmentJobSchedule,
		c.config.FulfillmentBatchSize,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
