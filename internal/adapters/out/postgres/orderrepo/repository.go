package orderrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/pkg/errs"
)

const uniqueViolation = "23505"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order. Losing an insert race on external_id is reported
// as errs.ErrValueIsInvalid so the caller can retry as an update.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.NewValueIsInvalidErrorWithCause("external_id already exists", err)
		}
		return err
	}
	return nil
}

// Update writes every column, zero values included.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", dto.ExternalID)
	}
	return nil
}

func (r *GormOrderRepository) GetByExternalID(ctx context.Context, externalID string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("external_id", externalID)
		}
		return nil, err
	}
	return toDomain(dto)
}

// ListNeedingEnrichment orders the backlog by kind, then least recently
// touched, so orders the console cannot complete rotate behind the rest.
// The filter matches order.(*Order).NeedsEnrichment.
func (r *GormOrderRepository) ListNeedingEnrichment(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND cancellation_reason = ''", order.Canceled.String()).
		Or("status = ? AND (customer_lat IS NULL OR gross_delivery_fee = 0)", order.Delivered.String()).
		Order(`CASE
			WHEN status = 'canceled' THEN 0
			WHEN customer_lat IS NULL THEN 1
			ELSE 2
		END`).
		Order("updated_at").
		Order("created_at DESC").
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

func (r *GormOrderRepository) ListIDsCreatedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("created_at >= ?", since).
		Order("created_at").
		Pluck("id", &ids).Error
	return ids, err
}
