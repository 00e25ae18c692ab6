package services

import (
	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/order"
)

// Canonicalizer turns a raw observation into the canonical facts the Order
// aggregate is reconciled with.
//
// Business rules:
//   - the status label is classified by the first matching pattern rule
//   - an unmatched label reads as pending and is flagged Ambiguous
//   - a named courier promotes pending, processing and confirmed to driver_assigned
//   - distance is the haversine distance between store and customer pins when both are known
//   - category follows order.DeriveCategory; a courier stored earlier still counts
//
// Example usage:
//
//	c := NewCanonicalizer(order.DefaultPatternTable())
//	facts := c.Canonicalize(CanonicalInput{Observation: obs, StoreLocation: st.Location()})
//	if facts.Ambiguous {
//	    logger.Warn("unmapped status label", "label", obs.StatusText)
//	}
type Canonicalizer struct {
	patterns *order.PatternTable
}

func NewCanonicalizer(patterns *order.PatternTable) *Canonicalizer {
	if patterns == nil {
		patterns = order.DefaultPatternTable()
	}
	return &Canonicalizer{patterns: patterns}
}

// CanonicalInput is an observation plus what is already known about the
// entities it references.
type CanonicalInput struct {
	Observation order.Observation
	// StoreLocation is the resolved store pin, observed now or stored earlier.
	StoreLocation *kernel.GeoPoint
	// KnownCustomerLocation is the pin stored on the order by an earlier pass.
	KnownCustomerLocation *kernel.GeoPoint
	// KnownCourier is true when the stored order already references a courier.
	KnownCourier bool
}

// Canonical is the result of canonicalizing one observation.
type Canonical struct {
	Status              order.Status
	Ambiguous           bool
	NamedCourier        bool
	CustomerLocation    *kernel.GeoPoint
	DistanceKm          *float64
	Category            order.Category
	DeliveryTimeMinutes *float64
}

func (c *Canonicalizer) Canonicalize(in CanonicalInput) Canonical {
	obs := in.Observation
	status, matched := c.patterns.Classify(obs.StatusText)
	named := c.patterns.IsNamedCourier(obs.CourierName)
	if named && status.PrecedesAssignment() {
		status = order.DriverAssigned
	}

	out := Canonical{
		Status:       status,
		Ambiguous:    !matched,
		NamedCourier: named,
	}

	customer := in.KnownCustomerLocation
	if p, ok := kernel.GeoPointFromPointers(obs.CustomerLat, obs.CustomerLng); ok {
		customer = &p
		out.CustomerLocation = &p
	}
	if customer != nil && in.StoreLocation != nil {
		if d, err := in.StoreLocation.DistanceKm(*customer); err == nil {
			out.DistanceKm = &d
		}
	}

	out.Category = order.DeriveCategory(status, named || in.KnownCourier, out.DistanceKm)

	if minutes, ok := ParseDurationText(obs.DurationText); ok {
		out.DeliveryTimeMinutes = &minutes
	}
	return out
}

// IsNamedCourier exposes the placeholder check used during canonicalization.
func (c *Canonicalizer) IsNamedCourier(name string) bool {
	return c.patterns.IsNamedCourier(name)
}
