// Package orderrepo maps the order aggregate to the orders table.
package orderrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/order"
)

// OrderDTO is one row of the orders table.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID string    `gorm:"uniqueIndex;not null"`
	Status     string    `gorm:"not null;index"`
	Category   string    `gorm:"not null"`

	// TerminalReached stays true once a terminal status has been applied.
	TerminalReached bool `gorm:"not null"`

	StoreID    *uuid.UUID `gorm:"type:uuid"`
	CustomerID *uuid.UUID `gorm:"type:uuid"`
	CourierID  *uuid.UUID `gorm:"type:uuid"`

	CustomerLat *float64
	CustomerLng *float64
	DistanceKm  *float64

	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveryFee      decimal.Decimal `gorm:"type:numeric(12,2)"`
	GrossDeliveryFee decimal.Decimal `gorm:"type:numeric(12,2)"`
	ServiceFee       decimal.Decimal `gorm:"type:numeric(12,2)"`
	CouponDiscount   decimal.Decimal `gorm:"type:numeric(12,2)"`
	Tips             decimal.Decimal `gorm:"type:numeric(12,2)"`
	ProductPrice     decimal.Decimal `gorm:"type:numeric(12,2)"`

	PaymentMethod       string
	CancellationReason  string
	CanceledBy          string
	DurationText        string
	DeliveryTimeMinutes *float64
	LineItems           datatypes.JSONType[[]order.LineItem] `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime:false;not null;index"`
	UpdatedAt time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.State()
	dto := OrderDTO{
		ID:                  s.ID,
		ExternalID:          s.ExternalID,
		Status:              s.Status.String(),
		TerminalReached:     s.TerminalReached,
		Category:            s.Category.String(),
		StoreID:             s.StoreID,
		CustomerID:          s.CustomerID,
		CourierID:           s.CourierID,
		DistanceKm:          s.DistanceKm,
		TotalAmount:         s.Financials.TotalAmount,
		DeliveryFee:         s.Financials.DeliveryFee,
		GrossDeliveryFee:    s.Financials.GrossDeliveryFee,
		ServiceFee:          s.Financials.ServiceFee,
		CouponDiscount:      s.Financials.CouponDiscount,
		Tips:                s.Financials.Tips,
		ProductPrice:        s.Financials.ProductPrice,
		PaymentMethod:       s.PaymentMethod,
		CancellationReason:  s.CancellationReason,
		CanceledBy:          s.CanceledBy,
		DurationText:        s.DurationText,
		DeliveryTimeMinutes: s.DeliveryTimeMinutes,
		LineItems:           datatypes.NewJSONType(lineItems(s.LineItems)),
		CreatedAt:           s.CreatedAt,
	}
	if p := s.CustomerLocation; p != nil {
		lat, lng := p.Lat(), p.Lng()
		dto.CustomerLat, dto.CustomerLng = &lat, &lng
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	category, err := order.ParseCategory(dto.Category)
	if err != nil {
		return nil, err
	}

	s := order.State{
		ID:         dto.ID,
		ExternalID: dto.ExternalID,
		Status:          status,
		TerminalReached: dto.TerminalReached,
		Category:        category,
		CreatedAt:  dto.CreatedAt,
		Financials: order.Financials{
			TotalAmount:      dto.TotalAmount,
			DeliveryFee:      dto.DeliveryFee,
			GrossDeliveryFee: dto.GrossDeliveryFee,
			ServiceFee:       dto.ServiceFee,
			CouponDiscount:   dto.CouponDiscount,
			Tips:             dto.Tips,
			ProductPrice:     dto.ProductPrice,
		},
		DistanceKm:          dto.DistanceKm,
		StoreID:             dto.StoreID,
		CustomerID:          dto.CustomerID,
		CourierID:           dto.CourierID,
		PaymentMethod:       dto.PaymentMethod,
		CancellationReason:  dto.CancellationReason,
		CanceledBy:          dto.CanceledBy,
		DurationText:        dto.DurationText,
		DeliveryTimeMinutes: dto.DeliveryTimeMinutes,
		LineItems:           dto.LineItems.Data(),
	}
	if p, ok := kernel.GeoPointFromPointers(dto.CustomerLat, dto.CustomerLng); ok {
		s.CustomerLocation = &p
	}
	return order.RestoreOrder(s)
}

// lineItems keeps the column a JSON array even when the order has none.
func lineItems(items []order.LineItem) []order.LineItem {
	if items == nil {
		return []order.LineItem{}
	}
	return items
}
