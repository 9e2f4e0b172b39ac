package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for decision events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e DecisionEvent) error
}

// Service records routing decisions for internal ops.
//
// Audit is internal-only; it is not exposed through the ingest API.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e DecisionEvent) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Src == "" {
		return ErrInvalidEvent
	}
	if e.Outcome == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}
