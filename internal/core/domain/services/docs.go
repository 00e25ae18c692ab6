// Package services provides the pure domain algorithms of the order
// tracker. None of them perform I/O; command and query handlers feed them
// data loaded through the ports and persist what they return.
//
// The package includes:
//   - Canonicalizer: maps a raw observation to a canonical status, category and distance
//   - SanitizeLog: removes rebounds and post-terminal noise from a status log
//   - BottleneckAccumulator: per-category, per-state duration buckets and the report built from them
//   - EvaluateClosure: decides whether a store must be closed right now
//   - ParseDurationText: reads the console's elapsed-time text as minutes
package services
