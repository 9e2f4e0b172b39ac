package audit

import "time"

// DecisionEvent is an immutable, append-only record of one routing decision.
//
// Invariants:
// - Events are never updated or deleted.
// - One event per disposition, accepted and rejected alike.
// - Appending is best-effort; callers must not block call handling on it.
//
// Storage recommendation (Postgres):
// - Table decision_events with an INSERT-only policy.
// - Optional: partition by created_at for retention.
type DecisionEvent struct {
	ID string `json:"id" db:"id"`

	// Src is the caller-presented number as received, pre-masking.
	Src string `json:"src" db:"src"`

	LineType   string `json:"line_type" db:"line_type"`
	IsVoip     bool   `json:"is_voip" db:"is_voip"`
	FraudScore int    `json:"fraud_score" db:"fraud_score"`

	// Outcome is ACCEPTED or REJECTED; Reason is set for rejections.
	Outcome string `json:"outcome" db:"outcome"`
	Masked  bool   `json:"masked" db:"masked"`
	Reason  string `json:"reason,omitempty" db:"reason"`

	CampaignID string `json:"campaign_id,omitempty" db:"campaign_id"`

	// CdrID links back to the persisted CDR in the backend store.
	CdrID string `json:"cdr_id,omitempty" db:"cdr_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
