// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Orders are stored across three tables: the order header, its immutable line
// items and the append-only modification history.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Version is the optimistic concurrency counter checked by every update.
// FulfillmentAttempts and NextAttemptAt schedule background retries and are
// not part of the aggregate.
type OrderDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID             string          `gorm:"index;not null"`
	SupplierID          string          `gorm:"not null"`
	Status              int             `gorm:"index"`
	TotalAmount         decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	DeliveryAddress     AddressDTO      `gorm:"embedded;embeddedPrefix:delivery_"`
	PaymentMethod       string          `gorm:"size:32;not null"`
	PaymentStatus       string          `gorm:"size:32;not null"`
	Currency            string          `gorm:"size:3;not null"`
	SpecialInstructions string
	TrackingNumber      string     `gorm:"size:32"`
	Version             int        `gorm:"not null;default:1"`
	CreatedAt           time.Time  `gorm:"index;autoCreateTime:false"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime:false"`
	FulfillmentAttempts int        `gorm:"not null;default:0"`
	NextAttemptAt       *time.Time `gorm:"index"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is the delivery address embedded into the order row.
type AddressDTO struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// OrderItemDTO is one line of an order. Position keeps the request order.
type OrderItemDTO struct {
	ID         uint            `gorm:"primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position   int             `gorm:"not null"`
	ProductID  string          `gorm:"index;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// ModificationDTO is an entry of the modification history. Rows are only ever inserted.
type ModificationDTO struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Timestamp  time.Time `gorm:"column:modified_at;not null"`
	UpdateType string    `gorm:"size:16;not null"`
	OldValue   string
	NewValue   string
	Reason     string
	UserID     string `gorm:"not null"`
}

func (ModificationDTO) TableName() string {
	return "order_modifications"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	address := o.DeliveryAddress()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, it := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:    id,
			Position:   i,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.Decimal(),
			TotalPrice: it.TotalPrice.Decimal(),
		})
	}

	return OrderDTO{
		ID:          id,
		BuyerID:     o.BuyerID(),
		SupplierID:  o.SupplierID(),
		Status:      int(o.Status()),
		TotalAmount: o.TotalAmount().Decimal(),
		DeliveryAddress: AddressDTO{
			Street:     address.Street(),
			City:       address.City(),
			State:      address.State(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
		},
		PaymentMethod:       string(o.PaymentMethod()),
		PaymentStatus:       string(o.PaymentStatus()),
		Currency:            o.Currency(),
		SpecialInstructions: o.SpecialInstructions(),
		TrackingNumber:      o.TrackingNumber(),
		Version:             o.Version(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		Items:               items,
	}
}

// headerColumns lists the mutable columns written by Update. Line items and
// creation data never change after Add.
func headerColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"status":               dto.Status,
		"delivery_street":      dto.DeliveryAddress.Street,
		"delivery_city":        dto.DeliveryAddress.City,
		"delivery_state":       dto.DeliveryAddress.State,
		"delivery_postal_code": dto.DeliveryAddress.PostalCode,
		"delivery_country":     dto.DeliveryAddress.Country,
		"payment_status":       dto.PaymentStatus,
		"tracking_number":      dto.TrackingNumber,
		"updated_at":           dto.UpdatedAt,
		"version":              dto.Version + 1,
	}
}

// toDomain converts a database DTO with preloaded items to an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewAddress(
		dto.DeliveryAddress.Street,
		dto.DeliveryAddress.City,
		dto.DeliveryAddress.State,
		dto.DeliveryAddress.PostalCode,
		dto.DeliveryAddress.Country,
	)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		item, itemErr := itemToDomain(it)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                  id,
		BuyerID:             dto.BuyerID,
		SupplierID:          dto.SupplierID,
		Items:               items,
		Status:              order.Status(dto.Status),
		TotalAmount:         total,
		DeliveryAddress:     address,
		PaymentMethod:       order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus:       order.PaymentStatus(dto.PaymentStatus),
		Currency:            dto.Currency,
		SpecialInstructions: dto.SpecialInstructions,
		TrackingNumber:      dto.TrackingNumber,
		Version:             dto.Version,
		CreatedAt:           dto.CreatedAt.UTC(),
		UpdatedAt:           dto.UpdatedAt.UTC(),
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}
	totalPrice, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return order.Item{}, err
	}
	return order.Item{
		ProductID:  dto.ProductID,
		Quantity:   dto.Quantity,
		UnitPrice:  unitPrice,
		TotalPrice: totalPrice,
	}, nil
}

func modificationFromDomain(orderID uuid.UUID, m order.Modification) ModificationDTO {
	return ModificationDTO{
		OrderID:    orderID,
		Timestamp:  m.Timestamp,
		UpdateType: string(m.UpdateType),
		OldValue:   m.OldValue,
		NewValue:   m.NewValue,
		Reason:     m.Reason,
		UserID:     m.UserID,
	}
}

func modificationToDomain(dto ModificationDTO) order.Modification {
	return order.Modification{
		Timestamp:  dto.Timestamp.UTC(),
		UpdateType: order.UpdateType(dto.UpdateType),
		OldValue:   dto.OldValue,
		NewValue:   dto.NewValue,
		Reason:     dto.Reason,
		UserID:     dto.UserID,
	}
}
