package routing

// Disposition is the pipeline's final decision for one inbound call.
//
// It is a tagged variant: Accepted carries the masked flag, Rejected carries
// a reason. Exactly one of the two constructors produces a valid value.
//
// The explicit variant (rather than nested error handling) is what enforces
// the containment rules: domain rejections travel inside a Disposition and
// never as Go errors, while ingestion-fatal failures travel as IngestError
// and never as dispositions.
type Disposition struct {
	Outcome Outcome

	// Masked is meaningful only when Outcome is accepted.
	Masked bool

	// Reason is meaningful only when Outcome is rejected.
	Reason RejectReason
}

type Outcome string

const (
	OutcomeAccepted Outcome = "ACCEPTED"
	OutcomeRejected Outcome = "REJECTED"
)

func Accepted(masked bool) Disposition {
	return Disposition{Outcome: OutcomeAccepted, Masked: masked}
}

func Rejected(reason RejectReason) Disposition {
	return Disposition{Outcome: OutcomeRejected, Reason: reason}
}

func (d Disposition) IsAccepted() bool { return d.Outcome == OutcomeAccepted }
func (d Disposition) IsRejected() bool { return d.Outcome == OutcomeRejected }

// RejectReason enumerates why a call was rejected.
type RejectReason string

const (
	ReasonHighFraudScore    RejectReason = "HIGH_FRAUD_SCORE"
	ReasonNoVoipCampaign    RejectReason = "NO_VOIP_CAMPAIGN"
	ReasonVoipHandlingError RejectReason = "VOIP_HANDLING_ERROR"
)

// Wire returns the reason string the dashboard UI expects.
//
// The legacy API emits "VOIP_CALL" for the no-accepting-campaign case even
// though the condition is about campaign availability; kept for backward
// compatibility with existing UI code.
func (r RejectReason) Wire() string {
	if r == ReasonNoVoipCampaign {
		return "VOIP_CALL"
	}
	return string(r)
}

// Message is the human text attached to rejection responses.
func (r RejectReason) Message() string {
	switch r {
	case ReasonHighFraudScore:
		return "Call rejected: fraud score above threshold"
	case ReasonNoVoipCampaign:
		return "Call rejected: no campaign accepts VoIP traffic"
	case ReasonVoipHandlingError:
		return "Call rejected: VoIP handling failed"
	default:
		return "Call rejected"
	}
}

// state names the positions of the routing pipeline. The engine walks these
// explicitly so each branch's containment behavior (fatal vs rejection vs
// silently degraded) is visible in one place.
type state string

const (
	stateStart                   state = "START"
	stateClassified              state = "CLASSIFIED"
	stateNonVoipAccept           state = "NON_VOIP_ACCEPT"
	stateVoipFraudCheck          state = "VOIP_FRAUD_CHECK"
	stateVoipRejectHighFraud     state = "VOIP_REJECT_HIGH_FRAUD"
	stateVoipCampaignLookup      state = "VOIP_CAMPAIGN_LOOKUP"
	stateVoipRejectNoCampaign    state = "VOIP_REJECT_NO_CAMPAIGN"
	stateVoipMaskAndAccept       state = "VOIP_MASK_AND_ACCEPT"
	stateVoipRejectHandlingError state = "VOIP_REJECT_HANDLING_ERROR"
	stateDone                    state = "DONE"
)
