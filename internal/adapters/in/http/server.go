// Package http exposes the order service over Echo. Every response body is
// the service envelope and the HTTP status always equals its statusCode.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"marketplace/internal/core/application/envelope"
	"marketplace/internal/core/application/orderservice"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// OrderService is the facade the server delegates to.
type OrderService interface {
	CreateOrder(ctx context.Context, req order.Request) envelope.Envelope[commands.OrderResult]
	ProcessOrder(ctx context.Context, orderID string) envelope.Envelope[commands.ProcessOrderResult]
	UpdateOrder(
		ctx context.Context,
		orderID string,
		req orderservice.UpdateRequest,
	) envelope.Envelope[commands.UpdateOrderResult]
	GetOrder(ctx context.Context, orderID string) envelope.Envelope[queries.GetOrderQueryResponse]
	GetOrderHistory(ctx context.Context, orderID string) envelope.Envelope[queries.GetOrderHistoryQueryResponse]
}

// Server maps HTTP requests onto order service operations.
type Server struct {
	orders    OrderService
	jwtSecret string
}

// NewServer creates a new HTTP server backed by the order service.
func NewServer(orders OrderService, jwtSecret string) *Server {
	return &Server{orders: orders, jwtSecret: jwtSecret}
}

// Register mounts the health check, the API description and the order
// routes on e.
func (s *Server) Register(ctx context.Context, e *echo.Echo) error {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return err
	}
	registerAPIDoc(e, doc)

	e.GET("/health", s.Health)

	api := e.Group("/api/v1/orders", Identity(s.jwtSecret))
	api.POST("", s.CreateOrder)
	api.GET("/:id", s.GetOrder)
	api.PATCH("/:id", s.UpdateOrder)
	api.POST("/:id/process", s.ProcessOrder)
	api.GET("/:id/history", s.GetOrderHistory)
	return nil
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req order.Request
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	return respond(c, s.orders.CreateOrder(c.Request().Context(), req))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	return respond(c, s.orders.GetOrder(c.Request().Context(), c.Param("id")))
}

// ProcessOrder handles POST /api/v1/orders/:id/process.
func (s *Server) ProcessOrder(c echo.Context) error {
	return respond(c, s.orders.ProcessOrder(c.Request().Context(), c.Param("id")))
}

// GetOrderHistory handles GET /api/v1/orders/:id/history.
func (s *Server) GetOrderHistory(c echo.Context) error {
	return respond(c, s.orders.GetOrderHistory(c.Request().Context(), c.Param("id")))
}

type updateOrderBody struct {
	UpdateType     order.UpdateType `json:"updateType"`
	Value          json.RawMessage  `json:"value"`
	Reason         string           `json:"reason"`
	NotifyCustomer bool             `json:"notifyCustomer"`
}

// UpdateOrder handles PATCH /api/v1/orders/:id. The value is a string for
// status and payment updates and an address object for shipping updates.
func (s *Server) UpdateOrder(c echo.Context) error {
	var body updateOrderBody
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return badRequest(c)
	}

	value, err := decodeUpdateValue(body.Value)
	if err != nil {
		return respond(c, envelope.Fail[any](order.NewValidationError("value must be a string or an address object")))
	}

	return respond(c, s.orders.UpdateOrder(c.Request().Context(), c.Param("id"), orderservice.UpdateRequest{
		UpdateType:     body.UpdateType,
		Value:          value,
		Reason:         body.Reason,
		NotifyCustomer: body.NotifyCustomer,
		UserID:         UserID(c),
	}))
}

func decodeUpdateValue(raw json.RawMessage) (order.UpdateValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return order.UpdateValue{}, nil
	}

	if raw[0] == '{' {
		var address order.ShippingAddress
		if err := json.Unmarshal(raw, &address); err != nil {
			return order.UpdateValue{}, err
		}
		return order.UpdateValue{Address: address}, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return order.UpdateValue{}, err
	}
	return order.UpdateValue{Text: text}, nil
}

func badRequest(c echo.Context) error {
	return respond(c, envelope.Fail[any](order.NewValidationError("Invalid request body")))
}

func respond[T any](c echo.Context, env envelope.Envelope[T]) error {
	return c.JSON(env.StatusCode, env)
}
