package console

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

var _ ports.ObservationSource = (*ObservationSource)(nil)

type orderRefDTO struct {
	ExternalID   string `json:"external_id"`
	DurationText string `json:"duration_text"`
}

type orderListDTO struct {
	Orders []orderRefDTO `json:"orders"`
}

// ObservationSource reads orders from the collector gateway:
//
//	GET /api/orders/recent?limit=N
//	GET /api/orders/history?page=N
//	GET /api/orders/{external_id}
type ObservationSource struct {
	client client
}

func NewObservationSource(baseURL, token string, httpClient *http.Client) (*ObservationSource, error) {
	c, err := newClient(baseURL, token, httpClient)
	if err != nil {
		return nil, err
	}
	return &ObservationSource{client: c}, nil
}

func (s *ObservationSource) RecentOrderRefs(ctx context.Context, limit int) ([]ports.OrderRef, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "any")
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return s.list(ctx, q, "api", "orders", "recent")
}

func (s *ObservationSource) HistoricalOrderRefs(ctx context.Context, page int) ([]ports.OrderRef, error) {
	if page < 1 {
		return nil, errs.NewValueIsOutOfRangeError("page", page, 1, "any")
	}
	q := url.Values{"page": {strconv.Itoa(page)}}
	return s.list(ctx, q, "api", "orders", "history")
}

func (s *ObservationSource) FetchObservation(ctx context.Context, externalID string) (order.Observation, error) {
	var obs order.Observation
	err := s.client.do(ctx, http.MethodGet, nil, nil, &obs, "api", "orders", externalID)
	if errors.Is(err, errNotFound) {
		return order.Observation{}, errs.NewObjectNotFoundError("externalID", externalID)
	}
	if err != nil {
		return order.Observation{}, err
	}
	return obs, nil
}

func (s *ObservationSource) list(ctx context.Context, q url.Values, path ...string) ([]ports.OrderRef, error) {
	var dto orderListDTO
	err := s.client.do(ctx, http.MethodGet, q, nil, &dto, path...)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	refs := make([]ports.OrderRef, 0, len(dto.Orders))
	for _, o := range dto.Orders {
		if o.ExternalID == "" {
			continue
		}
		refs = append(refs, ports.OrderRef{ExternalID: o.ExternalID, DurationText: o.DurationText})
	}
	return refs, nil
}
