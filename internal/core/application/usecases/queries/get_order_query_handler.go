package queries

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order straight from the database.
// Items are joined with the products table so that product names and
// availability come back in the same round trip.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns *order.OrderNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := h.header(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Items, err = h.items(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) header(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	var (
		resp   GetOrderQueryResponse
		id     uuid.UUID
		status int
		total  decimal.Decimal
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			buyer_id,
			supplier_id,
			status,
			total_amount,
			delivery_street,
			delivery_city,
			delivery_state,
			delivery_postal_code,
			delivery_country,
			payment_method,
			payment_status,
			currency,
			special_instructions,
			tracking_number,
			version,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	err := row.Scan(
		&id,
		&resp.BuyerID,
		&resp.SupplierID,
		&status,
		&total,
		&resp.DeliveryAddress.Street,
		&resp.DeliveryAddress.City,
		&resp.DeliveryAddress.State,
		&resp.DeliveryAddress.PostalCode,
		&resp.DeliveryAddress.Country,
		&resp.PaymentMethod,
		&resp.PaymentStatus,
		&resp.Currency,
		&resp.SpecialInstructions,
		&resp.TrackingNumber,
		&resp.Version,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, order.NewOrderNotFoundError(orderID.String())
		}
		return GetOrderQueryResponse{}, err
	}

	resp.ID = id.String()
	resp.Status = order.Status(status).String()
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()
	if resp.TotalAmount, err = kernel.NewMoney(total); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) items(ctx context.Context, orderID kernel.UUID) ([]GetOrderItemResponse, error) {
	items := make([]GetOrderItemResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.product_id,
			p.name,
			COALESCE(p.available, FALSE),
			i.quantity,
			i.unit_price,
			i.total_price
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ?
		ORDER BY i.position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                  GetOrderItemResponse
			name                  sql.NullString
			unitPrice, totalPrice decimal.Decimal
		)

		err = rows.Scan(
			&item.ProductID,
			&name,
			&item.Available,
			&item.Quantity,
			&unitPrice,
			&totalPrice,
		)
		if err != nil {
			return nil, err
		}

		item.ProductName = services.UnknownProductName
		if name.Valid {
			item.ProductName = name.String
		}
		if item.UnitPrice, err = kernel.NewMoney(unitPrice); err != nil {
			return nil, err
		}
		if item.TotalPrice, err = kernel.NewMoney(totalPrice); err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
