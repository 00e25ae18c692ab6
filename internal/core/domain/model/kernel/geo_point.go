package kernel

import (
	"errors"
	"fmt"
	"math"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
)

var ErrGeoPointIsNotConstructed = errors.New("GeoPoint must be created via NewGeoPoint constructor")

// GeoPoint is a WGS84 coordinate pair. Stores and customers carry one when
// the console exposes their map pin.
type GeoPoint struct {
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates against their ranges.
//
// Example:
//
//	store, _ := NewGeoPoint(10.4806, -66.9036)
//	customer, _ := NewGeoPoint(10.4961, -66.8530)
//	km, _ := store.DistanceKm(customer) // ~5.8
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}
	return GeoPoint{lat: lat, lng: lng, guard: guard.NewConstructorGuard()}, nil
}

// GeoPointFromPointers builds a GeoPoint when both coordinates are present.
// It returns ok=false for missing or out-of-range input instead of an error,
// since the collector routinely omits coordinates.
func GeoPointFromPointers(lat, lng *float64) (GeoPoint, bool) {
	if lat == nil || lng == nil {
		return GeoPoint{}, false
	}
	p, err := NewGeoPoint(*lat, *lng)
	if err != nil {
		return GeoPoint{}, false
	}
	return p, true
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lng() float64 {
	return p.lng
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f, %.6f)", p.lat, p.lng)
}

// DistanceKm returns the haversine great-circle distance in kilometres,
// rounded to metres.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := radians(other.lat - p.lat)
	dLng := radians(other.lng - p.lng)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(p.lat))*math.Cos(radians(other.lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(EarthRadiusKm*c*1000) / 1000, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
