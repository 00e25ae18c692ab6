// Package party holds the people an order references: the customer who
// placed it and the courier who carried it. Both are resolved lazily by name
// and outlive any single order.
package party
