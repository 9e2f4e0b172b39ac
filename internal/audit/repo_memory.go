package audit

import (
	"context"
	"sync"
)

// MemoryRepo is a simple in-memory append-only repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	events []DecisionEvent
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e DecisionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepo) Events() []DecisionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DecisionEvent, len(r.events))
	copy(out, r.events)
	return out
}
