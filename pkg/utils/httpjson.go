package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Envelope is the dashboard backend's standard JSON response wrapper.
// Every backend endpoint the pipeline consumes replies with this shape.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// BackendError reports a failed backend call: either a non-2xx status or a
// well-formed envelope with success=false.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.StatusCode)
}

// NewHTTPClient returns the shared client for backend calls.
// One timeout per call; connection reuse is left to the default transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// GetJSON issues a GET, unwraps the envelope, and decodes data into out.
// out may be nil when the caller only cares about success.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return doEnveloped(client, req, out)
}

// PostJSON issues a POST with a JSON body, unwraps the envelope, and decodes
// data into out.
func PostJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return doEnveloped(client, req, out)
}

func doEnveloped(client *http.Client, req *http.Request, out any) error {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Bound reads; backend payloads are small.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var env Envelope
	if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &BackendError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("backend: malformed response: %w", jsonErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		return &BackendError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("backend: empty data payload")
	}
	return json.Unmarshal(env.Data, out)
}
