// Package statuslogrepo persists the per-order status timeline.
package statuslogrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderwatch/internal/core/domain/model/order"
)

// StatusLogDTO is one row of order_status_logs. Seq is assigned by the
// database and breaks timestamp ties in insertion order.
type StatusLogDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int64     `gorm:"->"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"not null"`
	Timestamp time.Time `gorm:"not null"`
}

func (StatusLogDTO) TableName() string {
	return "order_status_logs"
}

// ToDomain converts a row. Rows with an unknown status name are an error.
func ToDomain(dto StatusLogDTO) (order.StatusLogEntry, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.StatusLogEntry{}, err
	}
	return order.StatusLogEntry{ID: dto.ID, OrderID: dto.OrderID, Status: status, Timestamp: dto.Timestamp}, nil
}

type GormStatusLogRepository struct {
	db *gorm.DB
}

func NewGormStatusLogRepository(db *gorm.DB) *GormStatusLogRepository {
	return &GormStatusLogRepository{db: db}
}

func (r *GormStatusLogRepository) Append(ctx context.Context, e order.StatusLogEntry) error {
	if err := e.Status.Validate(); err != nil {
		return err
	}
	dto := StatusLogDTO{ID: e.ID, OrderID: e.OrderID, Status: e.Status.String(), Timestamp: e.Timestamp}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormStatusLogRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]order.StatusLogEntry, error) {
	var dtos []StatusLogDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("timestamp").
		Order("seq").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]order.StatusLogEntry, 0, len(dtos))
	for _, dto := range dtos {
		e, mapErr := ToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *GormStatusLogRepository) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&StatusLogDTO{})
	return int(result.RowsAffected), result.Error
}
