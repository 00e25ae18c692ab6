package order

import (
	"fmt"
	"strings"

	"orderwatch/internal/pkg/errs"
)

// Status is the canonical state of an order.
//
// Canonical progression (the console may skip or reorder steps):
//
//	Pending ─> Processing ─> Confirmed ─> DriverAssigned ─> OnTheWay ─> Delivered
//	   └──────────────┴────────────┴──────────────┴─────────────┴──────> Canceled
//
// Delivered and Canceled are terminal.
type Status int

const (
	// Unknown is the zero value and never persisted.
	Unknown Status = iota
	Pending
	Processing
	Confirmed
	DriverAssigned
	OnTheWay
	Delivered
	Canceled
)

var statusNames = map[Status]string{
	Pending:        "pending",
	Processing:     "processing",
	Confirmed:      "confirmed",
	DriverAssigned: "driver_assigned",
	OnTheWay:       "on_the_way",
	Delivered:      "delivered",
	Canceled:       "canceled",
}

// ProgressStatuses lists the non-terminal statuses in reporting order.
func ProgressStatuses() []Status {
	return []Status{Pending, Processing, Confirmed, DriverAssigned, OnTheWay}
}

// ParseStatus maps a persisted status name back to a Status.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range statusNames {
		if name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a canonical status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name, or "unknown" for values outside the enum.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further progress transitions are valid.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// PrecedesAssignment reports whether a named courier is stronger evidence
// than the label for this status.
func (s Status) PrecedesAssignment() bool {
	return s == Pending || s == Processing || s == Confirmed
}
