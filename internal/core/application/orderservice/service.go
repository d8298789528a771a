// Package orderservice is the public face of the order core. Every operation
// returns an envelope; errors and panics never cross this boundary.
package orderservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"marketplace/internal/core/application/envelope"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.OrderResult, error)
	}

	ProcessOrderHandler interface {
		Handle(ctx context.Context, cmd commands.ProcessOrderCommand) (commands.ProcessOrderResult, error)
	}

	UpdateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderCommand) (commands.UpdateOrderResult, error)
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}

	GetOrderHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) (queries.GetOrderHistoryQueryResponse, error)
	}
)

// UpdateRequest is a post-creation change as submitted by a caller.
type UpdateRequest struct {
	UpdateType     order.UpdateType
	Value          order.UpdateValue
	Reason         string
	NotifyCustomer bool
	UserID         string
}

// Service dispatches public operations to the command and query handlers.
type Service struct {
	createOrder     CreateOrderHandler
	processOrder    ProcessOrderHandler
	updateOrder     UpdateOrderHandler
	getOrder        GetOrderHandler
	getOrderHistory GetOrderHistoryHandler
	logger          *slog.Logger
}

func NewService(
	createOrder CreateOrderHandler,
	processOrder ProcessOrderHandler,
	updateOrder UpdateOrderHandler,
	getOrder GetOrderHandler,
	getOrderHistory GetOrderHistoryHandler,
	logger *slog.Logger,
) *Service {
	return &Service{
		createOrder:     createOrder,
		processOrder:    processOrder,
		updateOrder:     updateOrder,
		getOrder:        getOrder,
		getOrderHistory: getOrderHistory,
		logger:          logger.With("component", "order_service"),
	}
}

// CreateOrder validates, prices and stores a new order. 201 on success.
func (s *Service) CreateOrder(ctx context.Context, req order.Request) (env envelope.Envelope[commands.OrderResult]) {
	defer recoverInto(ctx, s.logger, "create_order", &env)

	cmd, err := commands.NewCreateOrderCommand(req)
	if err != nil {
		return fail[commands.OrderResult](ctx, s, "create_order", err)
	}

	result, err := s.createOrder.Handle(ctx, cmd)
	if err != nil {
		return fail[commands.OrderResult](ctx, s, "create_order", err)
	}

	return envelope.Created(result)
}

// ProcessOrder runs the fulfillment pipeline. A failed run still returns the
// step log as data next to the PROCESSING_ERROR.
func (s *Service) ProcessOrder(ctx context.Context, orderID string) (env envelope.Envelope[commands.ProcessOrderResult]) {
	defer recoverInto(ctx, s.logger, "process_order", &env)

	id, err := parseOrderID(orderID)
	if err != nil {
		return fail[commands.ProcessOrderResult](ctx, s, "process_order", err)
	}

	cmd, err := commands.NewProcessOrderCommand(id)
	if err != nil {
		return fail[commands.ProcessOrderResult](ctx, s, "process_order", err)
	}

	result, err := s.processOrder.Handle(ctx, cmd)
	if err != nil {
		if result.OrderID != "" {
			s.logFailure(ctx, "process_order", err)
			return envelope.FailWithData(err, result)
		}
		return fail[commands.ProcessOrderResult](ctx, s, "process_order", err)
	}

	return envelope.OK(result)
}

// UpdateOrder applies a status, shipping, payment or cancel update.
func (s *Service) UpdateOrder(
	ctx context.Context,
	orderID string,
	req UpdateRequest,
) (env envelope.Envelope[commands.UpdateOrderResult]) {
	defer recoverInto(ctx, s.logger, "update_order", &env)

	id, err := parseOrderID(orderID)
	if err != nil {
		return fail[commands.UpdateOrderResult](ctx, s, "update_order", err)
	}

	cmd, err := commands.NewUpdateOrderCommand(id, req.UpdateType, req.Value, req.Reason, req.NotifyCustomer, req.UserID)
	if err != nil {
		return fail[commands.UpdateOrderResult](ctx, s, "update_order", order.NewValidationError(err.Error()))
	}

	result, err := s.updateOrder.Handle(ctx, cmd)
	if err != nil {
		return fail[commands.UpdateOrderResult](ctx, s, "update_order", err)
	}

	return envelope.OK(result)
}

// GetOrder returns the order with catalog-enriched items.
func (s *Service) GetOrder(ctx context.Context, orderID string) (env envelope.Envelope[queries.GetOrderQueryResponse]) {
	defer recoverInto(ctx, s.logger, "get_order", &env)

	id, err := parseOrderID(orderID)
	if err != nil {
		return fail[queries.GetOrderQueryResponse](ctx, s, "get_order", err)
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return fail[queries.GetOrderQueryResponse](ctx, s, "get_order", err)
	}

	resp, err := s.getOrder.Handle(ctx, query)
	if err != nil {
		return fail[queries.GetOrderQueryResponse](ctx, s, "get_order", err)
	}

	return envelope.OK(resp)
}

// GetOrderHistory returns the modification log of an order.
func (s *Service) GetOrderHistory(
	ctx context.Context,
	orderID string,
) (env envelope.Envelope[queries.GetOrderHistoryQueryResponse]) {
	defer recoverInto(ctx, s.logger, "get_order_history", &env)

	id, err := parseOrderID(orderID)
	if err != nil {
		return fail[queries.GetOrderHistoryQueryResponse](ctx, s, "get_order_history", err)
	}

	query, err := queries.NewGetOrderHistoryQuery(id)
	if err != nil {
		return fail[queries.GetOrderHistoryQueryResponse](ctx, s, "get_order_history", err)
	}

	resp, err := s.getOrderHistory.Handle(ctx, query)
	if err != nil {
		return fail[queries.GetOrderHistoryQueryResponse](ctx, s, "get_order_history", err)
	}

	return envelope.OK(resp)
}

// parseOrderID treats a malformed id like an unknown one.
func parseOrderID(raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, order.NewOrderNotFoundError(raw)
	}
	return id, nil
}

func fail[T any](ctx context.Context, s *Service, operation string, err error) envelope.Envelope[T] {
	s.logFailure(ctx, operation, err)
	return envelope.Fail[T](err)
}

func (s *Service) logFailure(ctx context.Context, operation string, err error) {
	status, e := envelope.FromError(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx, "Operation failed",
			"operation", operation, "code", e.Code, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "Operation rejected",
		"operation", operation, "code", e.Code, "error", err)
}

// recoverInto must be deferred directly so that recover sees the panic.
func recoverInto[T any](ctx context.Context, logger *slog.Logger, operation string, env *envelope.Envelope[T]) {
	if r := recover(); r != nil {
		err := fmt.Errorf("panic in %s: %v", operation, r)
		logger.ErrorContext(ctx, "Operation panicked", "operation", operation, "error", err)
		*env = envelope.Fail[T](err)
	}
}
