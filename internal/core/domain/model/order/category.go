package order

import (
	"fmt"
	"strings"

	"orderwatch/internal/pkg/errs"
)

// Category is the fulfillment category of an order. It is derived from
// courier and distance evidence, never taken from the console.
type Category int

const (
	// CategoryUnknown means no category is asserted. Canceled orders carry it.
	CategoryUnknown Category = iota
	CategoryDelivery
	CategoryPickup
)

// PickupRadiusKm is the customer-to-store distance under which an order
// without a courier is treated as picked up at the counter.
const PickupRadiusKm = 0.1

func (c Category) String() string {
	switch c {
	case CategoryDelivery:
		return "delivery"
	case CategoryPickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// ParseCategory accepts the persisted names; an empty string is CategoryUnknown.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown":
		return CategoryUnknown, nil
	case "delivery":
		return CategoryDelivery, nil
	case "pickup":
		return CategoryPickup, nil
	}
	return CategoryUnknown, errs.NewValueIsInvalidErrorWithCause("category is invalid", fmt.Errorf("%q is not a category", s))
}

// DeriveCategory applies the fulfillment policy. Courier presence wins over
// distance: the console sometimes reports a counter pickup with a courier
// attached, and those orders are counted as deliveries.
//
//   - canceled orders carry no category
//   - a named courier means delivery
//   - a known distance under PickupRadiusKm means pickup
//   - anything else defaults to delivery
func DeriveCategory(status Status, hasCourier bool, distanceKm *float64) Category {
	if status == Canceled {
		return CategoryUnknown
	}
	return deriveActiveCategory(hasCourier, distanceKm)
}

// AttributedCategory is the category an order would carry if it had not been
// canceled. Analytics uses it to place cancellation lifetimes.
func AttributedCategory(hasCourier bool, distanceKm *float64) Category {
	return deriveActiveCategory(hasCourier, distanceKm)
}

func deriveActiveCategory(hasCourier bool, distanceKm *float64) Category {
	if hasCourier {
		return CategoryDelivery
	}
	if distanceKm != nil && *distanceKm < PickupRadiusKm {
		return CategoryPickup
	}
	return CategoryDelivery
}
