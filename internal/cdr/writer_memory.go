package cdr

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryWriter is an in-memory Writer useful for tests.
// It is not intended for production use.
type MemoryWriter struct {
	mu      sync.Mutex
	records []PersistedCdr

	// FailWith makes every Persist fail, for exercising the fatal path.
	FailWith error

	clock func() time.Time
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{clock: time.Now}
}

func (w *MemoryWriter) Persist(ctx context.Context, rec CdrRecord) (PersistedCdr, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailWith != nil {
		return PersistedCdr{}, &PersistenceError{Err: w.FailWith}
	}
	p := PersistedCdr{
		ID:        uuid.NewString(),
		CreatedAt: w.clock().UTC(),
		Record:    rec,
	}
	w.records = append(w.records, p)
	return p, nil
}

func (w *MemoryWriter) Records() []PersistedCdr {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]PersistedCdr, len(w.records))
	copy(out, w.records)
	return out
}
