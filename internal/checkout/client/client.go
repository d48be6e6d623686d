// Package client holds the HTTP clients for the collaborator services the
// checkout flow orchestrates: the cart service, the order service and the
// payment processor. Each client satisfies the matching service-layer
// interface and speaks plain JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of a failed response is kept for the error
// message and logs.
const maxErrorBody = 2048

// RemoteError is a non-success answer from a collaborator service. It keeps
// the status and a bounded slice of the body so operators can see what the
// upstream actually said.
type RemoteError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Service, e.StatusCode, e.Body)
}

// postJSON sends body as JSON and decodes the answer into target when the
// status matches. Any other status becomes a RemoteError.
func postJSON(ctx context.Context, hc *http.Client, service, url string, body, target any, wantStatus int) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", service, err)
	}
	return decodeJSON(service, resp, wantStatus, target)
}

// decodeJSON consumes and closes the response body. A status other than want
// yields a RemoteError carrying the body.
func decodeJSON(service string, resp *http.Response, want int, target any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", service, err)
	}

	if resp.StatusCode != want {
		body := string(raw)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &RemoteError{Service: service, StatusCode: resp.StatusCode, Body: body}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%s: decode response: %w", service, err)
	}
	return nil
}
