package storerepo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"orderwatch/internal/core/domain/model/store"
)

// GormScheduleRepository reads and writes weekly rules and holidays.
// Writes come from operators; enforcement only reads.
type GormScheduleRepository struct {
	db *gorm.DB
}

func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

func (r *GormScheduleRepository) ListRules(ctx context.Context, weekday time.Weekday) ([]store.ScheduleRule, error) {
	var dtos []ScheduleRuleDTO
	if err := r.db.WithContext(ctx).Where("weekday = ?", int(weekday)).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	rules := make([]store.ScheduleRule, 0, len(dtos))
	for _, dto := range dtos {
		rule, err := ruleToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("schedule rule %d: %w", dto.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ListHolidays matches on the calendar date of day as seen in day's own
// location.
func (r *GormScheduleRepository) ListHolidays(ctx context.Context, day time.Time) ([]store.HolidayOverride, error) {
	var dtos []HolidayDTO
	err := r.db.WithContext(ctx).
		Where("date = ?", day.Format(time.DateOnly)).
		Order("store_id NULLS LAST").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	holidays := make([]store.HolidayOverride, 0, len(dtos))
	for _, dto := range dtos {
		h, mapErr := holidayToDomain(dto)
		if mapErr != nil {
			return nil, fmt.Errorf("holiday %d: %w", dto.ID, mapErr)
		}
		holidays = append(holidays, h)
	}
	return holidays, nil
}

// SaveRule replaces the rule for the rule's store and weekday.
func (r *GormScheduleRepository) SaveRule(ctx context.Context, rule store.ScheduleRule) error {
	dto := ruleFromDomain(rule)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time", "buffer_minutes", "active"}),
		}).
		Create(&dto).Error
}

// AddHoliday replaces any override for the same date and store.
func (r *GormScheduleRepository) AddHoliday(ctx context.Context, h store.HolidayOverride) error {
	dto := holidayFromDomain(h)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("date = ?", dto.Date.Format(time.DateOnly))
		if dto.StoreID == nil {
			q = q.Where("store_id IS NULL")
		} else {
			q = q.Where("store_id = ?", *dto.StoreID)
		}
		if err := q.Delete(&HolidayDTO{}).Error; err != nil {
			return err
		}
		return tx.Create(&dto).Error
	})
}
