package orderrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the mutable header columns when the stored version still
// matches the aggregate's version, and bumps the version on both sides.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(headerColumns(dto))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidError("version")
	}

	aggregate.SetVersion(dto.Version + 1)
	return nil
}

// Get retrieves an order by ID together with its items.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// CountForBuyer returns the number of orders placed by the buyer.
func (r *GormOrderRepository) CountForBuyer(ctx context.Context, buyerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("buyer_id = ?", buyerID).Count(&count).Error
	return count, err
}

// ListDueForFulfillment retrieves up to limit orders still awaiting
// fulfillment whose retry time has passed. Deferred orders queue behind
// orders created before their retry time.
func (r *GormOrderRepository) ListDueForFulfillment(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("status IN ?", awaitingFulfillment()).
		Where("(next_attempt_at IS NULL OR next_attempt_at <= ?)", now).
		Order("COALESCE(next_attempt_at, created_at), created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// DeferFulfillment bumps the attempt counter and sets the next attempt time.
// Neither the version nor updated_at change.
func (r *GormOrderRepository) DeferFulfillment(ctx context.Context, id kernel.UUID, retryAt time.Time) (int, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"fulfillment_attempts": gorm.Expr("fulfillment_attempts + 1"),
			"next_attempt_at":      retryAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, errs.NewObjectNotFoundError("order", id.String())
	}

	var attempts int
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("fulfillment_attempts").
		Where("id = ?", id.Bytes()).
		Row().
		Scan(&attempts)
	return attempts, err
}

// AppendModification inserts a history entry.
func (r *GormOrderRepository) AppendModification(
	ctx context.Context,
	orderID kernel.UUID,
	modification order.Modification,
) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	dto := modificationFromDomain(orderID.Bytes(), modification)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListModifications returns the history of an order, oldest first.
func (r *GormOrderRepository) ListModifications(ctx context.Context, orderID kernel.UUID) ([]order.Modification, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ModificationDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("modified_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	history := make([]order.Modification, 0, len(dtos))
	for _, dto := range dtos {
		history = append(history, modificationToDomain(dto))
	}
	return history, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func awaitingFulfillment() []int {
	var statuses []int
	for s := order.Pending; s.AwaitsFulfillment(); s++ {
		statuses = append(statuses, int(s))
	}
	return statuses
}
