package cdr

import (
	"context"
	"fmt"
	"net/http"

	"callcenter-ops/pkg/utils"
)

// Writer persists the final enriched record, whatever its disposition.
//
// A write failure is always request-fatal: by the time Persist runs a
// decision has been made, and losing it is a genuine fault, not a policy
// outcome.
type Writer interface {
	Persist(ctx context.Context, rec CdrRecord) (PersistedCdr, error)
}

// PersistenceError wraps any failure to write a CDR to the backend store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cdr: persist failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// HTTPWriter posts records to the backend CDR write endpoint.
type HTTPWriter struct {
	baseURL string
	http    *http.Client
}

func NewHTTPWriter(baseURL string, hc *http.Client) *HTTPWriter {
	return &HTTPWriter{baseURL: baseURL, http: hc}
}

func (w *HTTPWriter) Persist(ctx context.Context, rec CdrRecord) (PersistedCdr, error) {
	var out PersistedCdr
	if err := utils.PostJSON(ctx, w.http, w.baseURL, rec, &out); err != nil {
		return PersistedCdr{}, &PersistenceError{Err: err}
	}
	return out, nil
}
