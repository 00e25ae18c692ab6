package queries

import (
	"errors"
	"strings"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var (
	ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
		"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
	)
)

// GetOrderTimelineQuery asks how long one order stayed in each status.
type GetOrderTimelineQuery struct {
	externalID string
	guard      guard.ConstructorGuard
}

func NewGetOrderTimelineQuery(externalID string) (GetOrderTimelineQuery, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return GetOrderTimelineQuery{}, errs.NewValueIsRequiredError("external_id")
	}
	return GetOrderTimelineQuery{externalID: externalID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}

func (q GetOrderTimelineQuery) ExternalID() string {
	return q.externalID
}
