package storerepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/pkg/errs"
)

type GormStoreRepository struct {
	db *gorm.DB
}

func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// Add is a no-op when a store with the same name already exists.
func (r *GormStoreRepository) Add(ctx context.Context, s *store.Store) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := storeFromDomain(s)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&dto).Error
}

func (r *GormStoreRepository) Update(ctx context.Context, s *store.Store) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := storeFromDomain(s)
	result := r.db.WithContext(ctx).
		Model(&StoreDTO{}).
		Where("id = ?", dto.ID).
		Select("external_ref", "lat", "lng", "commission_rate").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("store", dto.Name)
	}
	return nil
}

func (r *GormStoreRepository) GetByName(ctx context.Context, name string) (*store.Store, error) {
	name = strings.TrimSpace(name)
	var dto StoreDTO
	if err := r.db.WithContext(ctx).First(&dto, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("store", name)
		}
		return nil, err
	}
	return storeToDomain(dto)
}

func (r *GormStoreRepository) ListAll(ctx context.Context) ([]*store.Store, error) {
	var dtos []StoreDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	stores := make([]*store.Store, 0, len(dtos))
	for _, dto := range dtos {
		s, err := storeToDomain(dto)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, nil
}
