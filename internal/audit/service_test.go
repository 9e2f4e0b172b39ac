package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresSrcAndOutcome(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Append(context.Background(), DecisionEvent{Outcome: "ACCEPTED"}); err == nil {
		t.Fatalf("expected error for missing src")
	}
	if err := svc.Append(context.Background(), DecisionEvent{Src: "15551234567"}); err == nil {
		t.Fatalf("expected error for missing outcome")
	}
}

func TestService_AppendFillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	err := svc.Append(context.Background(), DecisionEvent{
		Src:        "15559998888",
		LineType:   "VOIP",
		IsVoip:     true,
		FraudScore: 90,
		Outcome:    "REJECTED",
		Reason:     "HIGH_FRAUD_SCORE",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event")
	}
	if evs[0].ID == "" || evs[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at filled, got %+v", evs[0])
	}
	if evs[0].Reason != "HIGH_FRAUD_SCORE" {
		t.Fatalf("expected reason recorded")
	}
}
