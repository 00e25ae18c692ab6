package order

import "github.com/shopspring/decimal"

// Financials is the money breakdown of an order as last reported by the console.
type Financials struct {
	TotalAmount      decimal.Decimal
	DeliveryFee      decimal.Decimal
	GrossDeliveryFee decimal.Decimal
	ServiceFee       decimal.Decimal
	CouponDiscount   decimal.Decimal
	Tips             decimal.Decimal
	ProductPrice     decimal.Decimal
}
