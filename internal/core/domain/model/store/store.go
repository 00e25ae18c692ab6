package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrStoreIsNotConstructed = errors.New("Store must be created via NewStore or RestoreStore")

// Store is a merchant location. Name is its natural key in observations;
// ExternalRef is the identity the actuator understands.
type Store struct {
	id             uuid.UUID
	name           string
	externalRef    string
	location       *kernel.GeoPoint
	commissionRate decimal.Decimal
	guard          guard.ConstructorGuard
}

// DefaultExternalRef is the actuator identity given to stores first seen in
// an observation.
func DefaultExternalRef(name string) string {
	return "store_" + strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// NewStore creates a store on first sight. An empty externalRef falls back
// to DefaultExternalRef.
func NewStore(id uuid.UUID, name, externalRef string) (*Store, error) {
	if id == uuid.Nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if externalRef == "" {
		externalRef = DefaultExternalRef(name)
	}
	return &Store{
		id:          id,
		name:        name,
		externalRef: externalRef,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func RestoreStore(id uuid.UUID, name, externalRef string, location *kernel.GeoPoint, commissionRate decimal.Decimal) (*Store, error) {
	s, err := NewStore(id, name, externalRef)
	if err != nil {
		return nil, err
	}
	s.location = location
	s.commissionRate = commissionRate
	return s, nil
}

func (s *Store) Validate() error {
	if s == nil {
		return ErrStoreIsNotConstructed
	}
	return s.guard.Validate(ErrStoreIsNotConstructed)
}

// LearnLocation records the store pin if none is known yet and reports
// whether anything changed. A known pin is never overwritten by observations.
func (s *Store) LearnLocation(p kernel.GeoPoint) bool {
	if s.location != nil || p.Validate() != nil {
		return false
	}
	s.location = &p
	return true
}

// SetCommissionRate accepts a fraction in [0, 1].
func (s *Store) SetCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError("commission_rate", rate, 0, 1)
	}
	s.commissionRate = rate
	return nil
}

func (s *Store) ID() uuid.UUID                   { return s.id }
func (s *Store) Name() string                    { return s.name }
func (s *Store) ExternalRef() string             { return s.externalRef }
func (s *Store) Location() *kernel.GeoPoint      { return s.location }
func (s *Store) CommissionRate() decimal.Decimal { return s.commissionRate }
