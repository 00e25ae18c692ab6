package partyrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"orderwatch/internal/core/domain/model/party"
	"orderwatch/internal/pkg/errs"
)

// onNameConflict turns a concurrent insert of the same name into a no-op;
// callers read the winner back with GetByName.
var onNameConflict = clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Add(ctx context.Context, c *party.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := customerFromDomain(c)
	return r.db.WithContext(ctx).Clauses(onNameConflict).Create(&dto).Error
}

func (r *GormCustomerRepository) Update(ctx context.Context, c *party.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&CustomerDTO{}).
		Where("id = ?", c.ID()).
		Update("phone", c.Phone()).Error
}

func (r *GormCustomerRepository) GetByName(ctx context.Context, name string) (*party.Customer, error) {
	name = strings.TrimSpace(name)
	var dto CustomerDTO
	if err := r.db.WithContext(ctx).First(&dto, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("customer", name)
		}
		return nil, err
	}
	return customerToDomain(dto)
}

type GormCourierRepository struct {
	db *gorm.DB
}

func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

func (r *GormCourierRepository) Add(ctx context.Context, c *party.Courier) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := CourierDTO{ID: c.ID(), Name: c.Name()}
	return r.db.WithContext(ctx).Clauses(onNameConflict).Create(&dto).Error
}

func (r *GormCourierRepository) GetByName(ctx context.Context, name string) (*party.Courier, error) {
	name = strings.TrimSpace(name)
	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", name)
		}
		return nil, err
	}
	return courierToDomain(dto)
}
