// Package store holds the managed-resource side of the domain: stores
// resolved from console observations, their weekly opening rules, and the
// holiday overrides that replace those rules on specific dates.
package store
