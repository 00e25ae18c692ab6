package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

var _ ports.Actuator = (*Actuator)(nil)

type storeStatusDTO struct {
	Open bool `json:"open"`
}

// Actuator flips the store switch in the console. It reads the current
// state first and only writes when it differs.
type Actuator struct {
	client client
}

func NewActuator(baseURL, token string, httpClient *http.Client) (*Actuator, error) {
	c, err := newClient(baseURL, token, httpClient)
	if err != nil {
		return nil, err
	}
	return &Actuator{client: c}, nil
}

func (a *Actuator) Enforce(ctx context.Context, storeRef string, desiredOpen bool) (bool, error) {
	if storeRef == "" {
		return false, errs.NewValueIsRequiredError("storeRef")
	}

	var current storeStatusDTO
	err := a.client.do(ctx, http.MethodGet, nil, nil, &current, "api", "stores", storeRef, "status")
	if errors.Is(err, errNotFound) {
		return false, errs.NewObjectNotFoundError("storeRef", storeRef)
	}
	if err != nil {
		return false, fmt.Errorf("read store %s: %w", storeRef, err)
	}
	if current.Open == desiredOpen {
		return false, nil
	}

	err = a.client.do(ctx, http.MethodPost, nil, storeStatusDTO{Open: desiredOpen}, nil, "api", "stores", storeRef, "status")
	if err != nil {
		return false, fmt.Errorf("switch store %s: %w", storeRef, err)
	}
	return true, nil
}
