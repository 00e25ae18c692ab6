package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orderwatch/internal/pkg/errs"
)

// Observation is one sighting of an order as produced by the external
// collector. Optional text fields are empty when the console did not show
// them; optional coordinates are nil.
type Observation struct {
	ExternalID string `json:"external_id"`
	StatusText string `json:"status_text"`

	StoreName string   `json:"store_name,omitempty"`
	StoreLat  *float64 `json:"store_lat,omitempty"`
	StoreLng  *float64 `json:"store_lng,omitempty"`

	CustomerName  string   `json:"customer_name,omitempty"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	CustomerLat   *float64 `json:"customer_lat,omitempty"`
	CustomerLng   *float64 `json:"customer_lng,omitempty"`

	CourierName string `json:"courier_name,omitempty"`

	TotalAmount      decimal.Decimal `json:"total_amount"`
	DeliveryFee      decimal.Decimal `json:"delivery_fee"`
	GrossDeliveryFee decimal.Decimal `json:"gross_delivery_fee"`
	ServiceFee       decimal.Decimal `json:"service_fee"`
	CouponDiscount   decimal.Decimal `json:"coupon_discount"`
	Tips             decimal.Decimal `json:"tips"`
	ProductPrice     decimal.Decimal `json:"product_price"`

	PaymentMethod      string     `json:"payment_method,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CanceledBy         string     `json:"canceled_by,omitempty"`
	DurationText       string     `json:"duration_text,omitempty"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`

	LineItems []LineItem `json:"line_items,omitempty"`
}

// LineItem is one product line of an order.
type LineItem struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Validate rejects observations that cannot be keyed to an order.
func (o Observation) Validate() error {
	if strings.TrimSpace(o.ExternalID) == "" {
		return errs.NewValueIsRequiredError("external_id")
	}
	return nil
}

// Financials extracts the money fields of the observation.
func (o Observation) Financials() Financials {
	return Financials{
		TotalAmount:      o.TotalAmount,
		DeliveryFee:      o.DeliveryFee,
		GrossDeliveryFee: o.GrossDeliveryFee,
		ServiceFee:       o.ServiceFee,
		CouponDiscount:   o.CouponDiscount,
		Tips:             o.Tips,
		ProductPrice:     o.ProductPrice,
	}
}
