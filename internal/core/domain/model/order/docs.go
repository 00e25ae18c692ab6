// Package order provides the Order aggregate and its canonical status model.
//
// The package includes:
//   - Status: the engine's own enumeration of order states, independent of console wording
//   - Category: the fulfillment category (delivery, pickup) derived from courier and distance evidence
//   - PatternTable: the priority-ordered substring table that maps raw status labels to a Status
//   - Observation: the record the external collector produces for one sighting of an order
//   - Order: the aggregate refreshed on every reconciliation pass
//   - StatusLogEntry: one row of the append-only per-order timeline
//
// Key business rules:
//   - An order is identified by the console's external id and is never deleted
//   - Financial and logistics fields are last-write-wins
//   - A status change produces a timeline transition only while the stored status is not terminal
//   - Delivered and Canceled are terminal
package order
