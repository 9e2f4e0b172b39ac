package routing

import (
	"context"
	"errors"

	"callcenter-ops/internal/audit"
	"callcenter-ops/internal/campaigns"
	"callcenter-ops/internal/cdr"
	"callcenter-ops/internal/classify"
	"callcenter-ops/internal/fraud"
	"callcenter-ops/pkg/logger"
)

// CampaignDirectory is the campaign snapshot lookup, retries included.
// Satisfied by campaigns.Directory.
type CampaignDirectory interface {
	ListCampaigns(ctx context.Context) ([]campaigns.Campaign, error)
}

// Masker resolves a replacement caller ID for a flagged VoIP source.
// Fail-open: no error return. Satisfied by numbers.MaskResolver.
type Masker interface {
	ResolveMask(ctx context.Context, voipNumber string) (string, bool)
}

// CallRequest is one inbound call-creation request.
type CallRequest struct {
	// Src is the caller-presented number. Required.
	Src string

	// Extra carries the remaining free-form call fields, passed through to
	// the CDR unmodified.
	Extra map[string]any
}

// IngestResult is the outcome of one pipeline run: the disposition plus the
// record as persisted (rejected calls are persisted too, with a REJECTED
// status marker, so the audit trail stays complete).
type IngestResult struct {
	Disposition Disposition
	Persisted   cdr.PersistedCdr
}

// Engine sequences classification, the fraud gate, campaign lookup, masking,
// enrichment, and persistence for each inbound call.
//
// Failure containment, in one place:
//   - classify fails        -> fatal IngestError (no decision possible)
//   - fraud gate fails call -> Rejected{HIGH_FRAUD_SCORE}
//   - campaign lookup fails -> Rejected{VOIP_HANDLING_ERROR}, contained to
//     the VoIP branch; the request itself succeeds
//   - no accepting campaign -> Rejected{NO_VOIP_CAMPAIGN}
//   - masking fails         -> still Accepted{masked:true}, src unchanged
//   - persist fails         -> fatal IngestError, any disposition
type Engine struct {
	classifier classify.Classifier
	directory  CampaignDirectory
	masker     Masker
	writer     cdr.Writer
	recorder   *audit.Service

	fraudScoreThreshold int
}

var ErrMissingSource = errors.New("routing: src is required")

// NewEngine wires the pipeline. recorder may be nil (audit disabled).
func NewEngine(
	classifier classify.Classifier,
	directory CampaignDirectory,
	masker Masker,
	writer cdr.Writer,
	recorder *audit.Service,
	fraudScoreThreshold int,
) *Engine {
	return &Engine{
		classifier:          classifier,
		directory:           directory,
		masker:              masker,
		writer:              writer,
		recorder:            recorder,
		fraudScoreThreshold: fraudScoreThreshold,
	}
}

// IngestCall runs one call through the pipeline.
//
// A non-nil error is always an *IngestError; rejections are a successful
// result carrying a rejected Disposition.
func (e *Engine) IngestCall(ctx context.Context, req CallRequest) (IngestResult, error) {
	if req.Src == "" {
		return IngestResult{}, ErrMissingSource
	}

	log := logger.From(ctx)

	var (
		class       classify.ClassificationResult
		campaign    campaigns.Campaign
		disposition Disposition
	)

	for st := stateStart; st != stateDone; {
		switch st {
		case stateStart:
			res, err := e.classifier.Classify(ctx, req.Src)
			if err != nil {
				if wasCancelled(ctx, err) {
					return IngestResult{}, fatal(StageCancelled, err)
				}
				// Fatal, not a rejection: no fraud decision can be
				// made without a classification.
				return IngestResult{}, fatal(StageClassify, err)
			}
			class = res
			st = stateClassified

		case stateClassified:
			if class.IsVoip {
				st = stateVoipFraudCheck
			} else {
				st = stateNonVoipAccept
			}

		case stateNonVoipAccept:
			disposition = Accepted(false)
			st = stateDone

		case stateVoipFraudCheck:
			if fraud.Passes(class.FraudScore, e.fraudScoreThreshold) {
				st = stateVoipCampaignLookup
			} else {
				st = stateVoipRejectHighFraud
			}

		case stateVoipRejectHighFraud:
			disposition = Rejected(ReasonHighFraudScore)
			st = stateDone

		case stateVoipCampaignLookup:
			list, err := e.directory.ListCampaigns(ctx)
			if err != nil {
				if wasCancelled(ctx, err) {
					return IngestResult{}, fatal(StageCancelled, err)
				}
				// Contained to this branch: a flaky directory degrades
				// VoIP routing instead of failing the whole endpoint.
				log.Warn("campaign lookup failed, rejecting voip call",
					"src", req.Src, "err", err)
				st = stateVoipRejectHandlingError
				continue
			}
			if c, ok := campaigns.FirstVoipAccepting(list); ok {
				campaign = c
				st = stateVoipMaskAndAccept
			} else {
				st = stateVoipRejectNoCampaign
			}

		case stateVoipRejectNoCampaign:
			disposition = Rejected(ReasonNoVoipCampaign)
			st = stateDone

		case stateVoipRejectHandlingError:
			disposition = Rejected(ReasonVoipHandlingError)
			st = stateDone

		case stateVoipMaskAndAccept:
			disposition = Accepted(true)
			st = stateDone
		}
	}

	record := e.buildRecord(ctx, req, class, campaign, disposition)

	persisted, err := e.writer.Persist(ctx, record)
	if err != nil {
		if wasCancelled(ctx, err) {
			return IngestResult{}, fatal(StageCancelled, err)
		}
		return IngestResult{}, fatal(StagePersist, err)
	}

	e.record(ctx, req.Src, class, campaign, disposition, persisted.ID)

	return IngestResult{Disposition: disposition, Persisted: persisted}, nil
}

// buildRecord folds the classification and decision into the CDR.
func (e *Engine) buildRecord(
	ctx context.Context,
	req CallRequest,
	class classify.ClassificationResult,
	campaign campaigns.Campaign,
	disposition Disposition,
) cdr.CdrRecord {
	rec := cdr.CdrRecord{
		Src:         req.Src,
		LineType:    class.LineType,
		IsVoip:      class.IsVoip,
		FraudScore:  class.FraudScore,
		RecentAbuse: class.RecentAbuse,
		Extra:       req.Extra,
	}

	switch {
	case disposition.IsRejected():
		rec.Status = cdr.StatusRejected
		rec.Reason = disposition.Reason.Wire()

	case disposition.Masked:
		rec.Masked = true
		rec.OriginalSrc = req.Src
		rec.CampaignID = campaign.ID
		rec.CampaignName = campaign.Name
		if masked, ok := e.masker.ResolveMask(ctx, req.Src); ok {
			rec.Src = masked
		}
		// No mask available: src stays the original number; the call is
		// still accepted.
	}
	return rec
}

// record appends the decision to the audit trail. Best-effort: audit must
// never block or fail a call.
func (e *Engine) record(
	ctx context.Context,
	src string,
	class classify.ClassificationResult,
	campaign campaigns.Campaign,
	disposition Disposition,
	cdrID string,
) {
	if e.recorder == nil {
		return
	}
	ev := audit.DecisionEvent{
		Src:         src,
		LineType:    string(class.LineType),
		IsVoip:      class.IsVoip,
		FraudScore:  class.FraudScore,
		Outcome:     string(disposition.Outcome),
		Masked:      disposition.Masked,
		Reason:      string(disposition.Reason),
		CampaignID:  campaign.ID,
		CdrID:       cdrID,
	}
	if err := e.recorder.Append(ctx, ev); err != nil {
		logger.From(ctx).Warn("decision audit append failed", "src", src, "err", err)
	}
}
