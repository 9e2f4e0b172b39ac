package campaigns

import (
	"context"
	"fmt"
	"time"

	"callcenter-ops/pkg/utils"
)

// CampaignLookupError is returned once the retry budget is spent. The last
// underlying error is preserved for logs.
type CampaignLookupError struct {
	Attempts int
	Err      error
}

func (e *CampaignLookupError) Error() string {
	return fmt.Sprintf("campaigns: lookup failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *CampaignLookupError) Unwrap() error { return e.Err }

// Directory wraps a Lister in the bounded fixed-delay retry policy.
//
// The pipeline only consults the directory on the VoIP branch after the
// fraud gate passes, so the retry cost is never paid for calls that will be
// rejected anyway.
type Directory struct {
	lister Lister
	policy utils.RetryPolicy
}

// NewDirectory builds a Directory with the configured attempt budget and
// inter-attempt delay. maxRetries is the total attempt count (default 3),
// delay the constant pause between attempts (default 1000ms).
func NewDirectory(lister Lister, maxRetries int, delay time.Duration) *Directory {
	return &Directory{
		lister: lister,
		policy: utils.RetryPolicy{MaxAttempts: maxRetries, Delay: delay},
	}
}

// WithSleep overrides the retry pause, for deterministic tests.
func (d *Directory) WithSleep(sleep func(ctx context.Context, dur time.Duration) error) *Directory {
	d.policy.Sleep = sleep
	return d
}

// ListCampaigns fetches the campaign snapshot, retrying transient failures.
// Exhaustion surfaces as a CampaignLookupError; callers on the VoIP branch
// convert that to a domain rejection, never a transport failure.
func (d *Directory) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var out []Campaign
	err := d.policy.Do(ctx, func(ctx context.Context) error {
		list, err := d.lister.ListCampaigns(ctx)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, &CampaignLookupError{Attempts: d.policy.MaxAttempts, Err: err}
	}
	return out, nil
}
