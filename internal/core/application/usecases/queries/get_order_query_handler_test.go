package queries_test

import (
	"context"
	"testing"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GetOrderQueryHandlerTestSuite struct {
	databaseSuite
	handler queries.GetOrderQueryHandler
}

func (s *GetOrderQueryHandlerTestSuite) SetupSuite() {
	s.databaseSuite.SetupSuite()
	s.handler = queries.NewGetOrderQueryHandler(s.db)
}

func (s *GetOrderQueryHandlerTestSuite) TestHandle_EnrichesItemsFromCatalog() {
	ctx := context.Background()
	s.Require().NoError(s.productRepo.Save(ctx,
		catalog.Product{ID: "p1", Name: "Olive oil 5L", SupplierID: "s1", Available: true},
		catalog.Product{ID: "p2", Name: "Flour 25kg", SupplierID: "s1", Available: false},
	))
	o := s.addOrder(
		order.RequestItem{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("25.50")},
		order.RequestItem{ProductID: "p2", Quantity: 1, UnitPrice: decimal.RequireFromString("15.00")},
		order.RequestItem{ProductID: "gone", Quantity: 3, UnitPrice: decimal.RequireFromString("1.00")},
	)
	query, err := queries.NewGetOrderQuery(o.ID())
	s.Require().NoError(err)

	resp, err := s.handler.Handle(ctx, query)

	s.Require().NoError(err)
	s.Equal(o.ID().String(), resp.ID)
	s.Equal("pending", resp.Status)
	s.Equal("pending", resp.PaymentStatus)
	s.Equal("digital_wallet", resp.PaymentMethod)
	s.Equal("81.00", resp.TotalAmount.String())
	s.Equal(order.ShippingAddress{
		Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
	}, resp.DeliveryAddress)
	s.Equal(1, resp.Version)
	s.Equal(createdAt, resp.CreatedAt)

	s.Require().Len(resp.Items, 3)
	s.Equal("p1", resp.Items[0].ProductID)
	s.Equal("Olive oil 5L", resp.Items[0].ProductName)
	s.Equal(2, resp.Items[0].Quantity)
	s.Equal("25.50", resp.Items[0].UnitPrice.String())
	s.True(resp.Items[0].Available)
	s.Equal("51.00", resp.Items[0].TotalPrice.String())
	s.False(resp.Items[1].Available)
	s.Equal(services.UnknownProductName, resp.Items[2].ProductName)
	s.False(resp.Items[2].Available)
}

func (s *GetOrderQueryHandlerTestSuite) TestHandle_NotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	s.Require().NoError(err)

	_, err = s.handler.Handle(context.Background(), query)

	var notFound *order.OrderNotFoundError
	s.Require().ErrorAs(err, &notFound)
}

func (s *GetOrderQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	_, err := s.handler.Handle(context.Background(), queries.GetOrderQuery{})

	s.Require().ErrorIs(err, queries.ErrGetOrderQueryIsNotConstructed)
}

func (s *GetOrderQueryHandlerTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	o := s.addOrder(order.RequestItem{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")})
	query, err := queries.NewGetOrderQuery(o.ID())
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.handler.Handle(ctx, query)

	s.Require().Error(err)
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}
