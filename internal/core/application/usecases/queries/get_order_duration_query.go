package queries

import (
	"errors"
	"strings"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var (
	ErrGetOrderDurationQueryIsNotConstructed = errors.New(
		"GetOrderDurationQuery must be created via NewGetOrderDurationQuery constructor",
	)
)

// GetOrderDurationQuery asks for the total lifetime of one order.
type GetOrderDurationQuery struct {
	externalID string
	guard      guard.ConstructorGuard
}

func NewGetOrderDurationQuery(externalID string) (GetOrderDurationQuery, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return GetOrderDurationQuery{}, errs.NewValueIsRequiredError("external_id")
	}
	return GetOrderDurationQuery{externalID: externalID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderDurationQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDurationQueryIsNotConstructed)
}

func (q GetOrderDurationQuery) ExternalID() string {
	return q.externalID
}
