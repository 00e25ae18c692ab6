package services

import (
	"slices"

	"orderwatch/internal/core/domain/model/order"
)

// SanitizeLog splits one order's status log into the entries to keep and
// the entries to delete. The log is ordered by timestamp first.
//
// Removal rules, applied in a single pass:
//   - a status already seen earlier in the log is a rebound
//   - anything after the first surviving delivered or canceled entry
//   - an entry that does not advance the clock past the last kept entry
//
// The result satisfies: strictly increasing timestamps, no adjacent repeats,
// nothing after a terminal entry. Running it on its own output removes nothing.
func SanitizeLog(entries []order.StatusLogEntry) (kept, removed []order.StatusLogEntry) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b order.StatusLogEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	seen := make(map[order.Status]struct{}, len(sorted))
	terminal := false
	for _, e := range sorted {
		_, rebound := seen[e.Status]
		stale := len(kept) > 0 && !e.Timestamp.After(kept[len(kept)-1].Timestamp)
		if terminal || rebound || stale {
			removed = append(removed, e)
			continue
		}
		seen[e.Status] = struct{}{}
		kept = append(kept, e)
		if e.Status.IsTerminal() {
			terminal = true
		}
	}
	return kept, removed
}
