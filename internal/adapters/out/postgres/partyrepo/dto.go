// Package partyrepo persists customers and couriers, both keyed by the
// name the console shows.
package partyrepo

import (
	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/party"
)

type CustomerDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"uniqueIndex;not null"`
	Phone string
}

func (CustomerDTO) TableName() string {
	return "customers"
}

type CourierDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"uniqueIndex;not null"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

func customerFromDomain(c *party.Customer) CustomerDTO {
	return CustomerDTO{ID: c.ID(), Name: c.Name(), Phone: c.Phone()}
}

func customerToDomain(dto CustomerDTO) (*party.Customer, error) {
	return party.NewCustomer(dto.ID, dto.Name, dto.Phone)
}

func courierToDomain(dto CourierDTO) (*party.Courier, error) {
	return party.NewCourier(dto.ID, dto.Name)
}
