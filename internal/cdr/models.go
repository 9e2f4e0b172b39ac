package cdr

import (
	"encoding/json"
	"time"

	"callcenter-ops/internal/classify"
)

// StatusRejected marks CDRs persisted for rejected calls. Accepted records
// carry no status marker, matching the dashboard's existing rows.
const StatusRejected = "REJECTED"

// CdrRecord is the call-detail record the pipeline enriches and persists.
//
// The inbound call-creation request is free-form apart from src; every field
// we do not model explicitly is preserved in Extra and flattened back onto
// the wire unchanged, so the pipeline only ever adds fields.
//
// Invariants:
// - Masked implies IsVoip and a non-empty CampaignID.
// - Rejected records carry Status=REJECTED and a wire Reason; they are
//   persisted like any other record to keep the audit trail complete.
type CdrRecord struct {
	Src string `json:"src"`

	LineType    classify.LineType `json:"line_type"`
	IsVoip      bool              `json:"is_voip"`
	FraudScore  int               `json:"fraud_score"`
	RecentAbuse bool              `json:"recent_abuse"`

	Masked       bool   `json:"masked"`
	OriginalSrc  string `json:"original_src,omitempty"`
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`

	Status string `json:"status,omitempty"`
	Reason string `json:"reason,omitempty"`

	// Extra holds the caller-supplied passthrough fields (dst, duration,
	// trunk, ...). Never mutated by the pipeline.
	Extra map[string]any `json:"-"`
}

// reservedKeys are the fields owned by the pipeline; inbound extras never
// override them.
var reservedKeys = map[string]struct{}{
	"src": {}, "line_type": {}, "is_voip": {}, "fraud_score": {},
	"recent_abuse": {}, "masked": {}, "original_src": {}, "campaign_id": {},
	"campaign_name": {}, "status": {}, "reason": {},
	"id": {}, "created_at": {},
}

type cdrWire CdrRecord // avoids marshal recursion

// MarshalJSON flattens Extra alongside the typed fields.
func (r CdrRecord) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(cdrWire(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	flat := make(map[string]any, len(r.Extra)+8)
	for k, v := range r.Extra {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		flat[k] = v
	}
	var typed map[string]any
	if err := json.Unmarshal(base, &typed); err != nil {
		return nil, err
	}
	for k, v := range typed {
		flat[k] = v
	}
	return json.Marshal(flat)
}

// UnmarshalJSON splits typed fields from passthrough extras.
func (r *CdrRecord) UnmarshalJSON(data []byte) error {
	var w cdrWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range reservedKeys {
		delete(all, k)
	}
	*r = CdrRecord(w)
	if len(all) > 0 {
		r.Extra = all
	}
	return nil
}

// PersistedCdr is the stored record as returned by the CDR backend.
type PersistedCdr struct {
	ID        string
	CreatedAt time.Time
	Record    CdrRecord
}

func (p PersistedCdr) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(p.Record)
	if err != nil {
		return nil, err
	}
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	if p.ID != "" {
		flat["id"] = p.ID
	}
	if !p.CreatedAt.IsZero() {
		flat["created_at"] = p.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(flat)
}

func (p *PersistedCdr) UnmarshalJSON(data []byte) error {
	var meta struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	var rec CdrRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	p.ID = meta.ID
	p.CreatedAt = meta.CreatedAt
	p.Record = rec
	return nil
}
