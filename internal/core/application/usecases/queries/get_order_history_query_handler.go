package queries

import (
	"context"

	"marketplace/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads the append-only modification log.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for history queries.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle returns *order.OrderNotFoundError for unknown orders; a known order
// without modifications yields an empty list.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) (GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}

	id := query.OrderID()

	var exists bool
	err := h.db.WithContext(ctx).
		Raw(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ?)`, id.Bytes()).
		Row().
		Scan(&exists)
	if err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}
	if !exists {
		return GetOrderHistoryQueryResponse{}, order.NewOrderNotFoundError(id.String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			modified_at,
			update_type,
			old_value,
			new_value,
			reason,
			user_id
		FROM order_modifications
		WHERE order_id = ?
		ORDER BY modified_at, id
	`, id.Bytes()).Rows()
	if err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}
	defer rows.Close()

	resp := GetOrderHistoryQueryResponse{
		OrderID:       id.String(),
		Modifications: make([]order.Modification, 0),
	}
	for rows.Next() {
		var (
			m          order.Modification
			updateType string
		)
		if err = rows.Scan(&m.Timestamp, &updateType, &m.OldValue, &m.NewValue, &m.Reason, &m.UserID); err != nil {
			return GetOrderHistoryQueryResponse{}, err
		}
		m.Timestamp = m.Timestamp.UTC()
		m.UpdateType = order.UpdateType(updateType)
		resp.Modifications = append(resp.Modifications, m)
	}

	if err = rows.Err(); err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}

	return resp, nil
}
