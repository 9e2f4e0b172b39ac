package numbers

import (
	"context"

	"callcenter-ops/pkg/logger"
)

// MaskResolver finds a trusted caller ID to present in place of a flagged
// VoIP source number.
//
// Masking is best-effort and fail-open: an inventory error or an empty
// candidate set both resolve to "no masking", which keeps the original VoIP
// number visible downstream. Masking failures never block an otherwise
// accepted call; they only strip the cosmetic benefit. This is the opposite
// of classification, which is fail-closed.
type MaskResolver struct {
	inv Inventory
}

func NewMaskResolver(inv Inventory) *MaskResolver {
	return &MaskResolver{inv: inv}
}

// ResolveMask returns a replacement number and true, or "" and false when no
// mask is available. It never returns an error.
//
// Selection: first inventory entry with status AVAILABLE, not VoIP, and
// enabled.
func (m *MaskResolver) ResolveMask(ctx context.Context, voipNumber string) (string, bool) {
	if m.inv == nil {
		return "", false
	}

	list, err := m.inv.ListNumbers(ctx)
	if err != nil {
		logger.From(ctx).Warn("mask lookup failed, passing through unmasked",
			"src", voipNumber, "err", err)
		return "", false
	}

	for _, n := range list {
		if n.Maskable() {
			return n.Number, true
		}
	}
	return "", false
}
