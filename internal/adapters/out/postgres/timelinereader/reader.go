// Package timelinereader is the reporting read side: orders joined with
// their status logs, filtered in SQL.
package timelinereader

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderwatch/internal/adapters/out/postgres/statuslogrepo"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

// logBatch caps the ids bound into one IN clause.
const logBatch = 1000

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type timelineRow struct {
	ID           uuid.UUID
	ExternalID   string
	Status       string
	Category     string
	HasCourier   bool
	DistanceKm   *float64
	CreatedAt    time.Time
	DurationText string

	CancellationReason string
}

// GormTimelineReader implements ports.TimelineReader with two queries: the
// filtered orders, then their logs in timestamp order.
type GormTimelineReader struct {
	db *gorm.DB
}

func NewGormTimelineReader(db *gorm.DB) *GormTimelineReader {
	return &GormTimelineReader{db: db}
}

func (r *GormTimelineReader) ListTimelines(ctx context.Context, filter ports.TimelineFilter) ([]ports.OrderTimeline, error) {
	q := r.base(ctx)
	if filter.From != nil {
		q = q.Where("o.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("o.created_at < ?", *filter.To)
	}
	if filter.StoreName != "" {
		q = q.Where("s.name = ?", filter.StoreName)
	}
	if filter.Search != "" {
		term := likeEscaper.Replace(filter.Search)
		q = q.Where(`(o.external_id LIKE ? ESCAPE '\' OR c.name ILIKE ? ESCAPE '\')`, term+"%", "%"+term+"%")
	}

	var rows []timelineRow
	if err := q.Order("o.created_at").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.attachLogs(ctx, rows)
}

func (r *GormTimelineReader) GetTimeline(ctx context.Context, externalID string) (ports.OrderTimeline, error) {
	var rows []timelineRow
	if err := r.base(ctx).Where("o.external_id = ?", externalID).Limit(1).Scan(&rows).Error; err != nil {
		return ports.OrderTimeline{}, err
	}
	if len(rows) == 0 {
		return ports.OrderTimeline{}, errs.NewObjectNotFoundError("external_id", externalID)
	}

	timelines, err := r.attachLogs(ctx, rows)
	if err != nil {
		return ports.OrderTimeline{}, err
	}
	return timelines[0], nil
}

func (r *GormTimelineReader) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id, o.external_id, o.status, o.category,
			o.courier_id IS NOT NULL AS has_courier,
			o.distance_km, o.created_at, o.duration_text, o.cancellation_reason`).
		Joins("LEFT JOIN stores s ON s.id = o.store_id").
		Joins("LEFT JOIN customers c ON c.id = o.customer_id")
}

func (r *GormTimelineReader) attachLogs(ctx context.Context, rows []timelineRow) ([]ports.OrderTimeline, error) {
	timelines := make([]ports.OrderTimeline, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	ids := make([]uuid.UUID, len(rows))

	for i, row := range rows {
		status, err := order.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}
		category, err := order.ParseCategory(row.Category)
		if err != nil {
			return nil, err
		}
		timelines[i] = ports.OrderTimeline{
			ExternalID:   row.ExternalID,
			Status:       status,
			Category:     category,
			HasCourier:   row.HasCourier,
			DistanceKm:   row.DistanceKm,
			CreatedAt:    row.CreatedAt,
			DurationText: row.DurationText,

			CancellationReason: row.CancellationReason,
		}
		index[row.ID] = i
		ids[i] = row.ID
	}

	for start := 0; start < len(ids); start += logBatch {
		batch := ids[start:min(start+logBatch, len(ids))]
		var dtos []statuslogrepo.StatusLogDTO
		err := r.db.WithContext(ctx).
			Where("order_id IN ?", batch).
			Order("order_id").Order("timestamp").Order("seq").
			Find(&dtos).Error
		if err != nil {
			return nil, err
		}
		for _, dto := range dtos {
			e, mapErr := statuslogrepo.ToDomain(dto)
			if mapErr != nil {
				return nil, mapErr
			}
			i, ok := index[dto.OrderID]
			if !ok {
				return nil, errors.New("status log row for an order outside the batch")
			}
			timelines[i].Log = append(timelines[i].Log, e)
		}
	}
	return timelines, nil
}
