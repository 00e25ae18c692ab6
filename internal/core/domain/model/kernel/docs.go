// Package kernel provides the value objects shared by the order, store and
// party models.
//
// The package includes:
//   - GeoPoint: a validated latitude/longitude pair with great-circle distance
//   - ClockTime: a wall-clock time of day ("HH:MM") expressed in minutes since midnight
//
// Both are immutable and carry a ConstructorGuard so zero values are detected.
package kernel
