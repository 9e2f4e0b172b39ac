package numbers

import (
	"context"
	"errors"
	"testing"
)

type stubInventory struct {
	list []Number
	err  error
}

func (s stubInventory) ListNumbers(ctx context.Context) ([]Number, error) {
	return s.list, s.err
}

func TestResolveMask_PicksFirstMaskableNumber(t *testing.T) {
	m := NewMaskResolver(stubInventory{list: []Number{
		{Number: "15550000001", Status: NumberStatusAvailable, IsVoip: true, Enabled: true},
		{Number: "15550000002", Status: NumberStatusAssigned, IsVoip: false, Enabled: true},
		{Number: "15550000003", Status: NumberStatusAvailable, IsVoip: false, Enabled: false},
		{Number: "15550001111", Status: NumberStatusAvailable, IsVoip: false, Enabled: true},
		{Number: "15550002222", Status: NumberStatusAvailable, IsVoip: false, Enabled: true},
	}})

	masked, ok := m.ResolveMask(context.Background(), "15557778888")
	if !ok {
		t.Fatalf("expected a mask")
	}
	if masked != "15550001111" {
		t.Fatalf("expected first eligible number, got %q", masked)
	}
}

func TestResolveMask_NoCandidateIsNotAnError(t *testing.T) {
	m := NewMaskResolver(stubInventory{list: []Number{
		{Number: "15550000001", Status: NumberStatusAvailable, IsVoip: true, Enabled: true},
	}})

	if masked, ok := m.ResolveMask(context.Background(), "15557778888"); ok || masked != "" {
		t.Fatalf("expected no mask, got %q ok=%v", masked, ok)
	}
}

func TestResolveMask_InventoryFailureDegradesToNoMask(t *testing.T) {
	m := NewMaskResolver(stubInventory{err: errors.New("inventory down")})

	if masked, ok := m.ResolveMask(context.Background(), "15557778888"); ok || masked != "" {
		t.Fatalf("expected fail-open no-mask, got %q ok=%v", masked, ok)
	}
}
