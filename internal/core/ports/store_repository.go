package ports

import (
	"context"
	"time"

	"orderwatch/internal/core/domain/model/store"
)

// StoreRepository resolves stores by their natural key, the console name.
type StoreRepository interface {
	Add(ctx context.Context, s *store.Store) error
	Update(ctx context.Context, s *store.Store) error

	// GetByName returns errs.ObjectNotFoundError when absent.
	GetByName(ctx context.Context, name string) (*store.Store, error)

	ListAll(ctx context.Context) ([]*store.Store, error)
}

// ScheduleRepository reads operator-managed opening configuration.
type ScheduleRepository interface {
	// ListRules returns every rule for the weekday, active or not.
	ListRules(ctx context.Context, weekday time.Weekday) ([]store.ScheduleRule, error)

	// ListHolidays returns store-specific and global overrides for the
	// calendar date of day.
	ListHolidays(ctx context.Context, day time.Time) ([]store.HolidayOverride, error)
}
