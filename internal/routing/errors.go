package routing

import (
	"context"
	"errors"
	"fmt"
)

// Stage identifies where an ingestion-fatal failure happened.
type Stage string

const (
	StageClassify  Stage = "classify"
	StagePersist   Stage = "persist"
	StageCancelled Stage = "cancelled"
)

// IngestError is the request-fatal error category: classification failures,
// persistence failures, and cancellation. These surface as transport-level
// 500s at the boundary and are never downgraded to domain rejections.
//
// Domain rejections (fraud threshold, no accepting campaign, exhausted
// campaign retries) are NOT errors; they travel inside a Disposition. Keeping
// the two categories as distinct types is what prevents a flaky collaborator
// from being accidentally reported as the wrong failure class.
type IngestError struct {
	Stage Stage
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest: %s stage failed: %v", e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

func fatal(stage Stage, err error) *IngestError {
	return &IngestError{Stage: stage, Err: err}
}

// IsCancelled reports whether err is the cancellation variant of a fatal
// ingest error.
func IsCancelled(err error) bool {
	var ie *IngestError
	if errors.As(err, &ie) && ie.Stage == StageCancelled {
		return true
	}
	return false
}

// wasCancelled distinguishes a collaborator failing on its own from a
// collaborator failing because the request went away.
func wasCancelled(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
