// Package storerepo persists stores and the operator-managed schedule
// configuration: weekly rules and holiday overrides.
package storerepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/store"
)

type StoreDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"uniqueIndex;not null"`
	ExternalRef    string    `gorm:"not null"`
	Lat            *float64
	Lng            *float64
	CommissionRate decimal.Decimal `gorm:"type:numeric(5,4)"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

type ScheduleRuleDTO struct {
	ID            int64     `gorm:"primaryKey"`
	StoreID       uuid.UUID `gorm:"type:uuid;not null"`
	Weekday       int       `gorm:"not null"`
	OpenTime      string    `gorm:"not null"`
	CloseTime     string    `gorm:"not null"`
	BufferMinutes int
	Active        bool
}

func (ScheduleRuleDTO) TableName() string {
	return "store_schedules"
}

type HolidayDTO struct {
	ID           int64      `gorm:"primaryKey"`
	Date         time.Time  `gorm:"type:date;not null"`
	StoreID      *uuid.UUID `gorm:"type:uuid"`
	AllDayClosed bool
	OpenTime     *string
	CloseTime    *string
}

func (HolidayDTO) TableName() string {
	return "store_holidays"
}

func storeFromDomain(s *store.Store) StoreDTO {
	dto := StoreDTO{
		ID:             s.ID(),
		Name:           s.Name(),
		ExternalRef:    s.ExternalRef(),
		CommissionRate: s.CommissionRate(),
	}
	if p := s.Location(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func storeToDomain(dto StoreDTO) (*store.Store, error) {
	var location *kernel.GeoPoint
	if p, ok := kernel.GeoPointFromPointers(dto.Lat, dto.Lng); ok {
		location = &p
	}
	return store.RestoreStore(dto.ID, dto.Name, dto.ExternalRef, location, dto.CommissionRate)
}

func ruleFromDomain(r store.ScheduleRule) ScheduleRuleDTO {
	return ScheduleRuleDTO{
		StoreID:       r.StoreID,
		Weekday:       int(r.Weekday),
		OpenTime:      r.Open.String(),
		CloseTime:     r.Close.String(),
		BufferMinutes: r.BufferMinutes,
		Active:        r.Active,
	}
}

func ruleToDomain(dto ScheduleRuleDTO) (store.ScheduleRule, error) {
	open, err := kernel.ParseClockTime(dto.OpenTime)
	if err != nil {
		return store.ScheduleRule{}, err
	}
	closeAt, err := kernel.ParseClockTime(dto.CloseTime)
	if err != nil {
		return store.ScheduleRule{}, err
	}
	return store.NewScheduleRule(dto.StoreID, time.Weekday(dto.Weekday), open, closeAt, dto.BufferMinutes, dto.Active)
}

func holidayFromDomain(h store.HolidayOverride) HolidayDTO {
	dto := HolidayDTO{Date: h.Date, StoreID: h.StoreID, AllDayClosed: h.AllDayClosed}
	if h.Open != nil && h.Close != nil {
		open, closeAt := h.Open.String(), h.Close.String()
		dto.OpenTime, dto.CloseTime = &open, &closeAt
	}
	return dto
}

func holidayToDomain(dto HolidayDTO) (store.HolidayOverride, error) {
	var open, closeAt *kernel.ClockTime
	if dto.OpenTime != nil && dto.CloseTime != nil {
		o, err := kernel.ParseClockTime(*dto.OpenTime)
		if err != nil {
			return store.HolidayOverride{}, err
		}
		c, err := kernel.ParseClockTime(*dto.CloseTime)
		if err != nil {
			return store.HolidayOverride{}, err
		}
		open, closeAt = &o, &c
	}
	return store.NewHolidayOverride(dto.Date, dto.StoreID, dto.AllDayClosed, open, closeAt)
}
