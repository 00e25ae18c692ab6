// Package console talks to the merchant console gateway: the collector that
// exposes orders as JSON, and the store switch used by schedule enforcement.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"orderwatch/internal/pkg/errs"
)

const defaultTimeout = 15 * time.Second

var errNotFound = errors.New("console: resource not found")

// client is the JSON transport shared by the source and the actuator.
type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func newClient(baseURL, token string, httpClient *http.Client) (client, error) {
	if baseURL == "" {
		return client{}, errs.NewValueIsRequiredError("baseURL")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return client{}, errs.NewValueIsInvalidErrorWithCause("baseURL", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client{http: httpClient, baseURL: baseURL, token: token}, nil
}

// do sends body (when non-nil) as JSON and decodes a 2xx response into out.
// Transport failures, 429 and 5xx are reported as errs.ErrCollectorUnavailable.
func (c client) do(ctx context.Context, method string, query url.Values, body, out any, path ...string) error {
	endpoint, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", errs.ErrCollectorUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s %s: status %d", errs.ErrCollectorUnavailable, method, endpoint, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("console rejected %s %s: status %d", method, endpoint, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
